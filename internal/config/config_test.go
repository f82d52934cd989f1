package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Classifier.FailMode != FailOpen {
		t.Errorf("Classifier.FailMode = %q, want %q", cfg.Classifier.FailMode, FailOpen)
	}
	if cfg.Classifier.Timeout != 2*time.Second {
		t.Errorf("Classifier.Timeout = %s, want 2s", cfg.Classifier.Timeout)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis.Enabled = true, want false by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CLASSIFIER_FAIL_MODE", "fail-closed")
	t.Setenv("CLASSIFIER_TIMEOUT", "500ms")
	t.Setenv("ALERT_DEFAULT_RECIPIENTS", "ops@example.com, +15555550123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Classifier.FailMode != FailClosed {
		t.Errorf("Classifier.FailMode = %q, want %q", cfg.Classifier.FailMode, FailClosed)
	}
	if cfg.Classifier.Timeout != 500*time.Millisecond {
		t.Errorf("Classifier.Timeout = %s, want 500ms", cfg.Classifier.Timeout)
	}
	want := []string{"ops@example.com", "+15555550123"}
	if len(cfg.Alerting.DefaultRecipients) != len(want) {
		t.Fatalf("DefaultRecipients = %v, want %v", cfg.Alerting.DefaultRecipients, want)
	}
	for i := range want {
		if cfg.Alerting.DefaultRecipients[i] != want[i] {
			t.Errorf("DefaultRecipients[%d] = %q, want %q", i, cfg.Alerting.DefaultRecipients[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "unknown fail mode",
			mutate:  func(c *Config) { c.Classifier.FailMode = "fail-sideways" },
			wantErr: true,
		},
		{
			name:    "zero classifier timeout",
			mutate:  func(c *Config) { c.Classifier.Timeout = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
