package fraud

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"fraud", `{"found":true,"driverDetail":{"fraud":true,"profileVerified":true}}`, RatingFraud},
		{"verified", `{"found":true,"driverDetail":{"fraud":false,"profileVerified":true}}`, RatingVerified},
		{"unverified", `{"found":true,"driverDetail":{}}`, RatingUnverified},
		{"not found", `{"found":false}`, RatingNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var in map[string]string
				json.NewDecoder(r.Body).Decode(&in)
				if in["phoneNo"] != "+919000000000" {
					t.Errorf("phoneNo = %q", in["phoneNo"])
				}
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := New(srv.URL, time.Second, zap.NewNop())
			rating, payload := c.Lookup(context.Background(), "+919000000000")
			if rating != tt.want {
				t.Errorf("rating = %q, want %q", rating, tt.want)
			}
			if payload == nil {
				t.Error("expected payload")
			}
		})
	}
}

func TestLookup_Failures(t *testing.T) {
	tests := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"bad json", func(w http.ResponseWriter, _ *http.Request) { io.WriteString(w, `{"found":`) }},
		{"not an object", func(w http.ResponseWriter, _ *http.Request) { io.WriteString(w, `[1,2]`) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.h)
			defer srv.Close()

			rating, payload := New(srv.URL, time.Second, zap.NewNop()).Lookup(context.Background(), "1")
			if rating != "" || payload != nil {
				t.Errorf("expected no rating, got %q %v", rating, payload)
			}
		})
	}
}
