package modelgate

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
secret_name: ai-providers
provider_timeout_seconds: 10
providers:
  live: true
  bedrock:
    region: eu-west-1
    model_id: amazon.titan-text-lite-v1
  azure:
    deployment: gpt-4o-mini
request_log:
  driver: sqlite
  dsn: dispatches.db
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SecretName != "ai-providers" {
		t.Errorf("SecretName = %q, want ai-providers", cfg.SecretName)
	}
	if !cfg.Providers.Live {
		t.Error("Providers.Live = false, want true")
	}
	if cfg.Providers.Bedrock.Region != "eu-west-1" {
		t.Errorf("Bedrock.Region = %q", cfg.Providers.Bedrock.Region)
	}
	if cfg.Providers.Azure.Deployment != "gpt-4o-mini" {
		t.Errorf("Azure.Deployment = %q", cfg.Providers.Azure.Deployment)
	}
	if cfg.RequestLog.Driver != "sqlite" {
		t.Errorf("RequestLog.Driver = %q", cfg.RequestLog.Driver)
	}
	if got := cfg.ProviderTimeout(); got != 10*time.Second {
		t.Errorf("ProviderTimeout() = %v, want 10s", got)
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{"secret_name":"ai-providers"}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SecretName != "ai-providers" {
		t.Errorf("SecretName = %q", cfg.SecretName)
	}
}

func TestLoadConfig_UnsupportedExtension(t *testing.T) {
	path := writeTempConfig(t, "config.toml", "secret_name = 'x'")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestProviderTimeout_Default(t *testing.T) {
	var cfg Config
	if got := cfg.ProviderTimeout(); got != 30*time.Second {
		t.Errorf("ProviderTimeout() = %v, want 30s default", got)
	}
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok minimal", Config{SecretName: "x"}, false},
		{"ok sqlite no dsn", Config{SecretName: "x", RequestLog: RequestLogConfig{Driver: "sqlite"}}, false},
		{"ok postgres with dsn", Config{SecretName: "x", RequestLog: RequestLogConfig{Driver: "postgres", DSN: "postgres://u@h/db"}}, false},
		{"missing secret name", Config{}, true},
		{"postgres without dsn", Config{SecretName: "x", RequestLog: RequestLogConfig{Driver: "postgres"}}, true},
		{"unknown driver", Config{SecretName: "x", RequestLog: RequestLogConfig{Driver: "mysql"}}, true},
	}
	for _, tc := range cases {
		err := ValidateConfig(tc.cfg)
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
	}
}
