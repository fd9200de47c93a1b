// Package secrets resolves the provider credential set from AWS Secrets
// Manager.
//
// The Resolver fetches the payload fresh on every call; nothing is
// cached. The underlying client is a connection object only and is safe
// to construct once per process and reuse.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// CredentialSet is the decoded secret payload. It is owned by the current
// activation and must never be persisted or logged.
type CredentialSet struct {
	BedrockAPIKey string `json:"bedrock_api_key"`
	AzureAPIKey   string `json:"azure_api_key"`
	AzureEndpoint string `json:"azure_endpoint"`
}

// GetSecretValueAPI is the slice of the Secrets Manager client the
// resolver needs. Tests substitute fakes.
type GetSecretValueAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// LookupError reports a secret-store failure: secret missing, access
// denied, or a transient store error.
type LookupError struct {
	SecretID string
	Err      error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("secret lookup %q: %v", e.SecretID, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// FormatError reports a secret payload that could not be decoded into a
// CredentialSet.
type FormatError struct {
	SecretID string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("secret %q: malformed payload: %v", e.SecretID, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Resolver fetches and decodes the credential secret.
type Resolver struct {
	client   GetSecretValueAPI
	secretID string
}

// NewResolver creates a Resolver over the given client and secret
// identifier.
func NewResolver(client GetSecretValueAPI, secretID string) *Resolver {
	return &Resolver{client: client, secretID: secretID}
}

// NewClient builds a Secrets Manager client from the default AWS
// configuration chain.
func NewClient(ctx context.Context) (*secretsmanager.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

// Resolve fetches the secret and decodes it. Store failures surface as
// *LookupError, undecodable payloads as *FormatError.
func (r *Resolver) Resolve(ctx context.Context) (CredentialSet, error) {
	out, err := r.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(r.secretID),
	})
	if err != nil {
		return CredentialSet{}, &LookupError{SecretID: r.secretID, Err: err}
	}

	payload := []byte(aws.ToString(out.SecretString))
	if len(payload) == 0 {
		payload = out.SecretBinary
	}

	var creds CredentialSet
	if err := json.Unmarshal(payload, &creds); err != nil {
		return CredentialSet{}, &FormatError{SecretID: r.secretID, Err: err}
	}
	return creds, nil
}
