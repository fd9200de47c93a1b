package providers

// Base provides the fields shared by provider implementations. Embed it
// to avoid repeating name, apiKey, and endpoint handling.
type Base struct {
	name     string
	apiKey   string
	endpoint string
}

// Name returns the provider name.
func (b *Base) Name() string { return b.name }

// Endpoint returns the provider endpoint URL, if any.
func (b *Base) Endpoint() string { return b.endpoint }
