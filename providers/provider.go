// Package providers defines the Provider interface and the two provider
// implementations the dispatcher can route to: AWS Bedrock and Azure
// OpenAI.
//
// Both providers default to simulated replies so the service runs without
// upstream accounts; the live constructors switch them to real API calls.
package providers

import "context"

// Provider is the capability every dispatch target implements: given a
// non-empty prompt, return a reply string synchronously. No retries.
type Provider interface {
	// Name identifies the variant in the response body ("bedrock",
	// "azure_openai").
	Name() string
	// Invoke sends the prompt to the provider and returns its reply.
	Invoke(ctx context.Context, prompt string) (string, error)
}
