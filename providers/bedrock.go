package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Default live-mode settings. The model default targets Titan text, the
// cheapest text model family on Bedrock.
const (
	defaultBedrockRegion  = "us-east-1"
	defaultBedrockModelID = "amazon.titan-text-express-v1"

	// maxReplyTokens caps the completion length for live calls.
	maxReplyTokens = 100
)

// InvokeModelAPI is the slice of the Bedrock runtime client the provider
// needs. Tests substitute fakes.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockProvider implements Provider for AWS Bedrock. With no runtime
// client attached it returns simulated replies.
type BedrockProvider struct {
	Base
	runtime InvokeModelAPI
	modelID string
}

// NewBedrock creates a Bedrock provider in simulated mode.
func NewBedrock(apiKey string) *BedrockProvider {
	return &BedrockProvider{
		Base: Base{name: "bedrock", apiKey: apiKey},
	}
}

// NewBedrockLive creates a Bedrock provider that calls the Bedrock
// runtime InvokeModel API. Credentials come from the default AWS chain.
func NewBedrockLive(ctx context.Context, apiKey, region, modelID string) (*BedrockProvider, error) {
	if region == "" {
		region = defaultBedrockRegion
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewBedrockWithRuntime(apiKey, modelID, bedrockruntime.NewFromConfig(cfg)), nil
}

// NewBedrockWithRuntime creates a live Bedrock provider over an existing
// runtime client.
func NewBedrockWithRuntime(apiKey, modelID string, runtime InvokeModelAPI) *BedrockProvider {
	if modelID == "" {
		modelID = defaultBedrockModelID
	}
	p := NewBedrock(apiKey)
	p.runtime = runtime
	p.modelID = modelID
	return p
}

// Titan text request/response shapes for the InvokeModel body.
type bedrockTitanRequest struct {
	InputText            string `json:"inputText"`
	TextGenerationConfig struct {
		MaxTokenCount int `json:"maxTokenCount,omitempty"`
	} `json:"textGenerationConfig"`
}

type bedrockTitanResponse struct {
	Results []struct {
		OutputText       string `json:"outputText"`
		CompletionReason string `json:"completionReason"`
	} `json:"results"`
}

// Invoke sends the prompt to Bedrock and returns the first result text.
// In simulated mode it returns a canned reply without touching the
// network.
func (p *BedrockProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	if p.runtime == nil {
		return fmt.Sprintf("Simulated Bedrock response to '%s'", prompt), nil
	}

	titanReq := bedrockTitanRequest{InputText: prompt}
	titanReq.TextGenerationConfig.MaxTokenCount = maxReplyTokens

	body, err := json.Marshal(titanReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := p.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.modelID),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock invoke failed: %w", err)
	}

	var titanResp bedrockTitanResponse
	if err := json.Unmarshal(output.Body, &titanResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(titanResp.Results) == 0 {
		return "", errors.New("bedrock returned no results")
	}
	return titanResp.Results[0].OutputText, nil
}
