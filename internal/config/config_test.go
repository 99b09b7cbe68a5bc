package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PabloGalante/tripmate/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != ModeLocal || cfg.Port != "8080" || cfg.Provider != "openai" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", cfg.Temperature)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
	if cfg.Trip.TravelConfig() != domain.DefaultTravelConfig() {
		t.Errorf("trip defaults = %+v", cfg.Trip)
	}
	if cfg.Configured() {
		t.Error("Configured() = true with no api key")
	}
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRIPMATE_PROVIDER", "Anthropic")
	t.Setenv("TRIPMATE_API_KEY", "  sk-env ")
	t.Setenv("TRIPMATE_PORT", "9090")
	t.Setenv("TRIPMATE_TRIP_DAYS", "7")
	t.Setenv("TRIPMATE_SESSION_TTL", "30m")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", cfg.Provider)
	}
	if cfg.APIKey != "sk-env" {
		t.Errorf("APIKey = %q, want sk-env", cfg.APIKey)
	}
	if cfg.Port != "9090" || cfg.Trip.Days != 7 || cfg.SessionTTL != 30*time.Minute {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tripmate.yaml")
	data := `
provider: mock
port: "7000"
log_format: text
trip:
  style: culture
  budget: 1000
  days: 10
  companions: 3
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := domain.TravelConfig{Style: domain.StyleCulture, BudgetPerPerson: 1000, Days: 10, Companions: 3}
	if cfg.Trip.TravelConfig() != want {
		t.Errorf("trip = %+v, want %+v", cfg.Trip.TravelConfig(), want)
	}
	if cfg.APIKey != "mock" || !cfg.Configured() {
		t.Errorf("mock provider should be configured without a key, got %q", cfg.APIKey)
	}
	if cfg.LogFormat != "text" || cfg.Port != "7000" {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "gcp mode without project",
			env:     map[string]string{"TRIPMATE_MODE": "gcp"},
			wantErr: "gcp_project must be set",
		},
		{
			name:    "temperature out of range",
			env:     map[string]string{"TRIPMATE_TEMPERATURE": "3.5"},
			wantErr: "temperature",
		},
		{
			name:    "bad trip style",
			env:     map[string]string{"TRIPMATE_TRIP_STYLE": "space"},
			wantErr: "trip:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_VertexMarksConfigured(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRIPMATE_PROVIDER", "gemini")
	t.Setenv("TRIPMATE_GCP_PROJECT", "my-project")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Configured() {
		t.Error("gemini on Vertex should be configured through ADC")
	}
}

func TestLoad_VertexAliasMarksConfigured(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRIPMATE_PROVIDER", "Vertex")
	t.Setenv("TRIPMATE_GCP_PROJECT", "my-project")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "vertex" {
		t.Errorf("Provider = %q, want vertex", cfg.Provider)
	}
	if !cfg.Configured() {
		t.Error("the vertex alias should be configured through ADC")
	}
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name           string
		env            map[string]string
		provider       string
		model          string
		wantProvider   string
		wantModel      string
		wantConfigured bool
	}{
		{
			name:           "gemini flag with gcp project",
			env:            map[string]string{"TRIPMATE_PROVIDER": "openai", "TRIPMATE_GCP_PROJECT": "my-project"},
			provider:       "gemini",
			wantProvider:   "gemini",
			wantConfigured: true,
		},
		{
			name:           "mock flag",
			provider:       "MOCK",
			model:          "canned",
			wantProvider:   "mock",
			wantModel:      "canned",
			wantConfigured: true,
		},
		{
			name:           "openai flag without key",
			env:            map[string]string{"TRIPMATE_GCP_PROJECT": "my-project"},
			provider:       "openai",
			wantProvider:   "openai",
			wantConfigured: false,
		},
		{
			name:           "no overrides keeps loaded values",
			env:            map[string]string{"TRIPMATE_PROVIDER": "anthropic", "TRIPMATE_MODEL": "claude-x"},
			wantProvider:   "anthropic",
			wantModel:      "claude-x",
			wantConfigured: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("TRIPMATE_API_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if err := cfg.ApplyOverrides(tt.provider, tt.model); err != nil {
				t.Fatalf("ApplyOverrides: %v", err)
			}
			if cfg.Provider != tt.wantProvider {
				t.Errorf("Provider = %q, want %q", cfg.Provider, tt.wantProvider)
			}
			if cfg.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", cfg.Model, tt.wantModel)
			}
			if cfg.Configured() != tt.wantConfigured {
				t.Errorf("Configured() = %v, want %v", cfg.Configured(), tt.wantConfigured)
			}
		})
	}
}
