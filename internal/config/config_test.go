package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "typesense"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid driver")
	}

	expected := `database.driver must be "redis" or "elasticsearch", got "typesense"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_Providers(t *testing.T) {
	tests := []struct {
		provider string
		project  string
		wantErr  bool
	}{
		{"openai", "", false},
		{"gemini", "my-project", false},
		{"gemini", "", true},
		{"anthropic", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.provider+"/"+tt.project, func(t *testing.T) {
			cfg := validConfig()
			cfg.LLM.Provider = tt.provider
			cfg.LLM.Project = tt.project

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_HomeCountry(t *testing.T) {
	cfg := validConfig()
	cfg.Geo.HomeCountry = "IND"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for 3-letter home country")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Database.Driver != "redis" {
		t.Errorf("expected Driver=redis, got %q", cfg.Database.Driver)
	}
	if cfg.Search.RadiusKm != 50 {
		t.Errorf("expected RadiusKm=50, got %v", cfg.Search.RadiusKm)
	}
	if cfg.Search.Limit != 50 {
		t.Errorf("expected Limit=50, got %d", cfg.Search.Limit)
	}
	if cfg.Search.TripsIndex != "trips" || cfg.Search.LeadsIndex != "leads" {
		t.Errorf("unexpected indexes: %q, %q", cfg.Search.TripsIndex, cfg.Search.LeadsIndex)
	}
	if cfg.Geo.HomeCountry != "IN" {
		t.Errorf("expected HomeCountry=IN, got %q", cfg.Geo.HomeCountry)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("expected Provider=openai, got %q", cfg.LLM.Provider)
	}
	if cfg.TTS.QueryVoice != "nova" {
		t.Errorf("unexpected QueryVoice %q", cfg.TTS.QueryVoice)
	}
	if cfg.TTS.StreamVoice != "shimmer" {
		t.Errorf("unexpected StreamVoice %q", cfg.TTS.StreamVoice)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("unexpected LLM model %q", cfg.LLM.Model)
	}
	if cfg.Fraud.TimeoutSec != 10 {
		t.Errorf("expected Fraud.TimeoutSec=10, got %d", cfg.Fraud.TimeoutSec)
	}
	if cfg.Storage.KeyPrefix != "raahi:" {
		t.Errorf("expected KeyPrefix='raahi:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 90, ShutdownSec: 5},
		Search:  SearchConfig{RadiusKm: 25, Limit: 10},
		Geo:     GeoConfig{HomeCountry: "NP"},
		Storage: StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 90 {
		t.Errorf("expected WriteTimeoutSec=90, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Search.RadiusKm != 25 || cfg.Search.Limit != 10 {
		t.Errorf("search overrides lost: %+v", cfg.Search)
	}
	if cfg.Geo.HomeCountry != "NP" {
		t.Errorf("expected HomeCountry=NP, got %q", cfg.Geo.HomeCountry)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("RAAHI_TEST_KEY", "secret")

	got := string(expandEnvVars([]byte("a: ${RAAHI_TEST_KEY}\nb: ${RAAHI_TEST_MISSING:-fallback}\nc: ${RAAHI_TEST_MISSING}")))
	want := "a: secret\nb: fallback\nc: "
	if got != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	body := "http:\n  port: 9000\ndatabase:\n  addrs: [\"${RAAHI_TEST_ADDR:-localhost:6379}\"]\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.HTTP.Port)
	}
	if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "localhost:6379" {
		t.Errorf("unexpected addrs %v", cfg.Database.Addrs)
	}
	if cfg.Search.Limit != 50 {
		t.Errorf("defaults not applied, limit=%d", cfg.Search.Limit)
	}
}
