package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the raahi assistant configuration.
type Config struct {
	HTTP      HTTPConfig     `yaml:"http"`
	Database  DatabaseConfig `yaml:"database"`
	Search    SearchConfig   `yaml:"search"`
	Geo       GeoConfig      `yaml:"geo"`
	LLM       LLMConfig      `yaml:"llm"`
	TTS       TTSConfig      `yaml:"tts"`
	Fraud     EndpointConfig `yaml:"fraud"`
	Analytics EndpointConfig `yaml:"analytics"`
	Audio     AudioConfig    `yaml:"audio"`
	Auth      AuthConfig     `yaml:"auth"`
	Storage   StorageConfig  `yaml:"storage"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds record search backend settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, elasticsearch (default: redis)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds dual-stage search settings.
type SearchConfig struct {
	TripsIndex       string  `yaml:"trips_index"`
	LeadsIndex       string  `yaml:"leads_index"`
	RadiusKm         float64 `yaml:"radius_km"`
	Limit            int     `yaml:"limit"`
	StageTimeoutMs   int     `yaml:"stage_timeout_ms"`
	GeocodeTimeoutMs int     `yaml:"geocode_timeout_ms"`
}

// GeoConfig holds geocoding and country validation settings.
type GeoConfig struct {
	HomeCountry string `yaml:"home_country"`
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	CacheTTLSec int    `yaml:"cache_ttl_sec"` // 0 disables caching
}

// LLMConfig holds intent classifier settings.
type LLMConfig struct {
	Provider        string `yaml:"provider"` // openai, gemini (default: openai)
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	Model           string `yaml:"model"`
	Project         string `yaml:"project"`  // gemini only
	Location        string `yaml:"location"` // gemini only
	TimeoutSec      int    `yaml:"timeout_sec"`
	MaxHistoryTurns int    `yaml:"max_history_turns"`
}

// TTSConfig holds text-to-speech settings.
type TTSConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	QueryVoice  string `yaml:"query_voice"`
	StreamVoice string `yaml:"stream_voice"`
	ChunkSize   int    `yaml:"chunk_size"`
}

// EndpointConfig holds an outbound HTTP endpoint.
type EndpointConfig struct {
	URL        string `yaml:"url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// AudioConfig holds pre-recorded audio prompts.
type AudioConfig struct {
	BaseURL string            `yaml:"base_url"`
	Files   map[string]string `yaml:"files"` // key -> file name relative to base_url
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.TripsIndex == "" {
		c.Search.TripsIndex = "trips"
	}
	if c.Search.LeadsIndex == "" {
		c.Search.LeadsIndex = "leads"
	}
	if c.Search.RadiusKm <= 0 {
		c.Search.RadiusKm = 50
	}
	if c.Search.Limit <= 0 {
		c.Search.Limit = 50
	}
	if c.Search.StageTimeoutMs <= 0 {
		c.Search.StageTimeoutMs = 3000
	}
	if c.Search.GeocodeTimeoutMs <= 0 {
		c.Search.GeocodeTimeoutMs = 3000
	}
	if c.Geo.HomeCountry == "" {
		c.Geo.HomeCountry = "IN"
	}
	if c.Geo.BaseURL == "" {
		c.Geo.BaseURL = "https://maps.googleapis.com/maps/api/geocode/json"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 15
	}
	if c.LLM.MaxHistoryTurns <= 0 {
		c.LLM.MaxHistoryTurns = 20
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel(c.LLM.Provider)
	}
	if c.LLM.Location == "" {
		c.LLM.Location = "us-central1"
	}
	if c.TTS.Model == "" {
		c.TTS.Model = "gpt-4o-mini-tts"
	}
	if c.TTS.QueryVoice == "" {
		c.TTS.QueryVoice = "nova"
	}
	if c.TTS.StreamVoice == "" {
		c.TTS.StreamVoice = "shimmer"
	}
	if c.TTS.ChunkSize <= 0 {
		c.TTS.ChunkSize = 4096
	}
	if c.Fraud.TimeoutSec <= 0 {
		c.Fraud.TimeoutSec = 10
	}
	if c.Analytics.TimeoutSec <= 0 {
		c.Analytics.TimeoutSec = 5
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "raahi:"
	}
}

func defaultModel(provider string) string {
	if provider == "gemini" {
		return "gemini-2.5-flash"
	}
	return "gpt-4o-mini"
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Database.Driver {
	case "redis", "elasticsearch":
		// ok
	default:
		return fmt.Errorf("database.driver must be \"redis\" or \"elasticsearch\", got %q", c.Database.Driver)
	}
	switch c.LLM.Provider {
	case "openai", "gemini":
		// ok
	default:
		return fmt.Errorf("llm.provider must be \"openai\" or \"gemini\", got %q", c.LLM.Provider)
	}
	if c.LLM.Provider == "gemini" && c.LLM.Project == "" {
		return fmt.Errorf("llm.project is required for gemini provider")
	}
	if len(c.Geo.HomeCountry) != 2 {
		return fmt.Errorf("geo.home_country must be a 2-letter code, got %q", c.Geo.HomeCountry)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
