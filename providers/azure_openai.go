package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
)

// Default live-mode settings for Azure OpenAI.
const (
	defaultAzureAPIVersion = "2024-10-21"
	defaultAzureDeployment = "gpt-4o"
)

// AzureOpenAIProvider implements Provider for Azure OpenAI. With no
// client attached it returns simulated replies.
type AzureOpenAIProvider struct {
	Base
	client     *openai.Client
	deployment string
	apiVersion string
}

// NewAzureOpenAI creates an Azure OpenAI provider in simulated mode.
func NewAzureOpenAI(apiKey, endpoint string) *AzureOpenAIProvider {
	return &AzureOpenAIProvider{
		Base: Base{name: "azure_openai", apiKey: apiKey, endpoint: strings.TrimRight(endpoint, "/")},
	}
}

// NewAzureOpenAILive creates an Azure OpenAI provider that calls the
// deployment's chat completions API.
func NewAzureOpenAILive(apiKey, endpoint, deployment, apiVersion string) *AzureOpenAIProvider {
	if apiVersion == "" {
		apiVersion = defaultAzureAPIVersion
	}
	if deployment == "" {
		deployment = defaultAzureDeployment
	}
	p := NewAzureOpenAI(apiKey, endpoint)
	client := openai.NewClient(
		azure.WithEndpoint(p.endpoint, apiVersion),
		azure.WithAPIKey(apiKey),
	)
	p.client = &client
	p.deployment = deployment
	p.apiVersion = apiVersion
	return p
}

// Invoke sends the prompt as a single user message to the deployment and
// returns the assistant reply. In simulated mode it returns a canned
// reply without touching the network.
func (p *AzureOpenAIProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return fmt.Sprintf("Simulated Azure OpenAI response to '%s'", prompt), nil
	}

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.deployment,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(maxReplyTokens),
	})
	if err != nil {
		return "", fmt.Errorf("azure openai request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("azure openai returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
