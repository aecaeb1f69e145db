package config

import "testing"

func TestValidate_ValidConfig_ReturnsNil(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := Validate(&cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil for default config", err)
	}
}

func TestValidate_InvalidHTTPPort_ReturnsError(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"zero port", 0},
		{"negative port", -1},
		{"port too high", 65536},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			cfg.Server.HTTPPort = tt.port

			err := Validate(&cfg)
			if err == nil {
				t.Errorf("Validate() expected error for port %d", tt.port)
			}
			if !IsValidationError(err) {
				t.Errorf("expected validation error, got %T", err)
			}
		})
	}
}

func TestValidate_EmptyHTTPBind_ReturnsError(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Server.HTTPBind = ""

	if err := Validate(&cfg); err == nil {
		t.Error("Validate() expected error for empty http_bind")
	}
}

func TestValidate_InvalidShutdownTimeout_ReturnsError(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Server.ShutdownTimeout = 0

	if err := Validate(&cfg); err == nil {
		t.Error("Validate() expected error for zero shutdown_timeout")
	}
}

func TestValidate_InvalidIndexDimensions_ReturnsError(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Index.Dimensions = 0

	if err := Validate(&cfg); err == nil {
		t.Error("Validate() expected error for zero index dimensions")
	}
}

func TestValidate_EmptyGraphHost_ReturnsError(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Graph.Host = ""

	if err := Validate(&cfg); err == nil {
		t.Error("Validate() expected error for empty graph host")
	}
}

func TestValidate_EmbeddingsDisabled_SkipsProviderCheck(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Embeddings.Enabled = false
	cfg.Embeddings.Provider = ""

	if err := Validate(&cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil when embeddings disabled", err)
	}
}

func TestValidate_EmbeddingsEnabled_UnknownProvider_ReturnsError(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Embeddings.Enabled = true
	cfg.Embeddings.Provider = "not-a-real-provider"

	if err := Validate(&cfg); err == nil {
		t.Error("Validate() expected error for unknown embeddings provider")
	}
}

func TestValidate_InsightsDisabled_SkipsProviderCheck(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Insights.Enabled = false
	cfg.Insights.Provider = "not-a-real-provider"

	if err := Validate(&cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil when insights disabled", err)
	}
}

func TestValidate_InsightsEnabled_UnknownProvider_ReturnsError(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Insights.Enabled = true
	cfg.Insights.Provider = "not-a-real-provider"

	if err := Validate(&cfg); err == nil {
		t.Error("Validate() expected error for unknown insights provider")
	}
}

func TestValidate_NegativeTTLMaxAge_ReturnsError(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.TTL.MaxAgeHours = -1

	if err := Validate(&cfg); err == nil {
		t.Error("Validate() expected error for negative ttl max_age_hours")
	}
}

func TestValidate_MultipleErrors_ReturnsAll(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Server.HTTPPort = 0
	cfg.Server.HTTPBind = ""
	cfg.Storage.BlobRootDir = ""

	err := Validate(&cfg)
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	ves, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(ves) != 3 {
		t.Errorf("len(ValidationErrors) = %d, want 3", len(ves))
	}
}
