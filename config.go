package modelgate

import "time"

// Config holds the configuration for the dispatch service.
type Config struct {
	// SecretName is the secret-store identifier holding the provider
	// credential payload. Usually sourced from the SECRET_NAME env var.
	SecretName string `json:"secret_name" yaml:"secret_name"`
	// ProviderTimeoutSeconds bounds a single outbound provider call.
	// Zero means the 30s default.
	ProviderTimeoutSeconds int `json:"provider_timeout_seconds,omitempty" yaml:"provider_timeout_seconds,omitempty"`
	// Providers selects simulated vs live mode and per-provider options.
	Providers ProvidersConfig `json:"providers,omitempty" yaml:"providers,omitempty"`
	// RequestLog configures the optional dispatch audit store.
	RequestLog RequestLogConfig `json:"request_log,omitempty" yaml:"request_log,omitempty"`
}

// ProvidersConfig selects how outbound provider calls are made.
type ProvidersConfig struct {
	// Live switches from simulated replies to real provider API calls.
	Live    bool          `json:"live,omitempty" yaml:"live,omitempty"`
	Bedrock BedrockConfig `json:"bedrock,omitempty" yaml:"bedrock,omitempty"`
	Azure   AzureConfig   `json:"azure,omitempty" yaml:"azure,omitempty"`
}

// BedrockConfig holds Bedrock options used in live mode.
type BedrockConfig struct {
	Region  string `json:"region,omitempty" yaml:"region,omitempty"`
	ModelID string `json:"model_id,omitempty" yaml:"model_id,omitempty"`
}

// AzureConfig holds Azure OpenAI options used in live mode. The endpoint
// and API key come from the secret payload, not from config.
type AzureConfig struct {
	Deployment string `json:"deployment,omitempty" yaml:"deployment,omitempty"`
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
}

// RequestLogConfig configures the dispatch audit store. An empty driver
// disables persistence.
type RequestLogConfig struct {
	// Driver is "sqlite", "postgres", or empty for none.
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`
	DSN    string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// ProviderTimeout returns the configured outbound call bound.
func (c Config) ProviderTimeout() time.Duration {
	if c.ProviderTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ProviderTimeoutSeconds) * time.Second
}
