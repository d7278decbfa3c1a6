package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	if err := (&AuthConfig{Mode: "magic", Token: "x"}).Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestHTTPConfig_PortBounds(t *testing.T) {
	if err := (&HTTPConfig{Port: 0}).Validate(); err == nil {
		t.Error("port 0 should fail")
	}
	if err := (&HTTPConfig{Port: 70000}).Validate(); err == nil {
		t.Error("port 70000 should fail")
	}
	if err := (&HTTPConfig{Port: 8080}).Validate(); err != nil {
		t.Errorf("port 8080 should pass: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !cfg.Search.Enabled() {
		t.Error("default config should enable the search mirror")
	}
}

func TestSearchConfig_EmptyPathDisables(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Search.IndexPath = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty index path should validate: %v", err)
	}
	if cfg.Search.Enabled() {
		t.Error("empty index path should disable the mirror")
	}
}
