// Package modelgate routes a single prompt to one of the configured AI
// model providers and returns a normalised reply.
//
// The Dispatcher type is the main entry point: create one with
// NewDispatcher, passing the Config and a credential resolver, and process
// requests with Dispatch. Each call runs the same linear pipeline:
// validate the request, resolve provider credentials from the secret
// store, invoke the selected provider, and return a ProviderResponse.
// Credentials are fetched fresh on every call and never cached.
package modelgate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelgate/modelgate/internal/logging"
	"github.com/modelgate/modelgate/internal/secrets"
	"github.com/modelgate/modelgate/providers"
)

// Target identifies the provider a request is dispatched to.
type Target string

// Supported dispatch targets.
const (
	TargetBedrock Target = "bedrock"
	TargetAzure   Target = "azure"
)

// Validation errors returned by Request.Validate and ParseTarget.
var (
	ErrMissingFields = errors.New("missing 'prompt' or 'target_model' in request body")
	ErrUnknownTarget = errors.New("invalid target_model, choose 'bedrock' or 'azure'")
)

// ParseTarget maps a target_model value onto a Target. Matching is
// case-insensitive; anything other than the two known targets fails with
// ErrUnknownTarget.
func ParseTarget(s string) (Target, error) {
	switch Target(strings.ToLower(s)) {
	case TargetBedrock:
		return TargetBedrock, nil
	case TargetAzure:
		return TargetAzure, nil
	}
	return "", ErrUnknownTarget
}

// Request is a single inbound dispatch request. It lives for exactly one
// activation and is discarded once the response is written.
type Request struct {
	Prompt      string `json:"prompt"`
	TargetModel string `json:"target_model"`
}

// Validate reports whether the request carries both required fields.
// It does not check the target_model value; that is ParseTarget's job.
func (r Request) Validate() error {
	if r.Prompt == "" || r.TargetModel == "" {
		return ErrMissingFields
	}
	return nil
}

// ProviderResponse is the normalised reply returned to the caller on
// success. Model names which provider variant answered.
type ProviderResponse struct {
	Model string `json:"model"`
	Reply string `json:"reply"`
}

// CredentialResolver fetches the provider credential set for the current
// activation. *secrets.Resolver is the production implementation; tests
// substitute fakes.
type CredentialResolver interface {
	Resolve(ctx context.Context) (secrets.CredentialSet, error)
}

// Dispatcher runs the validate → resolve → invoke pipeline. It holds no
// per-request state and is safe for concurrent use.
type Dispatcher struct {
	cfg      Config
	resolver CredentialResolver
}

// NewDispatcher creates a Dispatcher over the given configuration and
// credential resolver.
func NewDispatcher(cfg Config, resolver CredentialResolver) (*Dispatcher, error) {
	if resolver == nil {
		return nil, errors.New("credential resolver is required")
	}
	return &Dispatcher{cfg: cfg, resolver: resolver}, nil
}

// Dispatch processes one request end to end and returns the provider's
// reply. Validation failures surface as ErrMissingFields or
// ErrUnknownTarget; everything downstream (secret lookup, secret decoding,
// provider invocation) propagates wrapped so the caller can classify it.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*ProviderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	target, err := ParseTarget(req.TargetModel)
	if err != nil {
		return nil, err
	}

	creds, err := d.resolver.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving credentials: %w", err)
	}

	p, err := d.provider(ctx, target, creds)
	if err != nil {
		return nil, fmt.Errorf("building %s provider: %w", target, err)
	}

	logging.FromContext(ctx).Info("dispatching prompt",
		"target", string(target),
		"provider", p.Name(),
		"live", d.cfg.Providers.Live,
	)

	reply, err := p.Invoke(ctx, req.Prompt)
	if err != nil {
		return nil, fmt.Errorf("%s invoke: %w", p.Name(), err)
	}
	return &ProviderResponse{Model: p.Name(), Reply: reply}, nil
}

// provider builds the variant for the given target. The switch is
// exhaustive over Target; an unknown value can only come from code that
// bypassed ParseTarget, and fails loudly rather than falling through.
func (d *Dispatcher) provider(ctx context.Context, target Target, creds secrets.CredentialSet) (providers.Provider, error) {
	switch target {
	case TargetBedrock:
		if !d.cfg.Providers.Live {
			return providers.NewBedrock(creds.BedrockAPIKey), nil
		}
		return providers.NewBedrockLive(ctx, creds.BedrockAPIKey,
			d.cfg.Providers.Bedrock.Region, d.cfg.Providers.Bedrock.ModelID)
	case TargetAzure:
		if !d.cfg.Providers.Live {
			return providers.NewAzureOpenAI(creds.AzureAPIKey, creds.AzureEndpoint), nil
		}
		return providers.NewAzureOpenAILive(creds.AzureAPIKey, creds.AzureEndpoint,
			d.cfg.Providers.Azure.Deployment, d.cfg.Providers.Azure.APIVersion), nil
	}
	return nil, fmt.Errorf("no provider variant for target %q", target)
}
