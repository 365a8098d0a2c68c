// Package hashicorp reads Vault credentials from a HashiCorp Vault KV v2 mount.
package hashicorp

import (
	"context"
	"fmt"

	"github.com/ylchen07/go-vapil/internal/provider"
)

// Provider implements the provider.Provider interface for HashiCorp Vault
type Provider struct {
	client *Client
	mount  string
}

// NewProvider creates a new HashiCorp Vault provider
// Configuration options:
//   - "address" (string): Vault server address
//   - "token" (string): Vault authentication token
//   - "namespace" (string): Vault namespace (optional, for Enterprise)
//   - "mount" (string): KV v2 mount, defaults to "secret"
func NewProvider(cfg *provider.Config) (provider.Provider, error) {
	client, err := NewClient(cfg.String("address"), cfg.String("token"), cfg.String("namespace"))
	if err != nil {
		return nil, err
	}

	mount := cfg.String("mount")
	if mount == "" {
		mount = "secret"
	}

	return &Provider{
		client: client,
		mount:  mount,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "hashicorp"
}

// Credentials reads the secret at ref. The keys username, password,
// session_id and client_secret are recognised; a secret holding a single
// "value" key is taken as the password.
func (p *Provider) Credentials(ctx context.Context, ref string) (*provider.Credentials, error) {
	if ref == "" {
		return nil, fmt.Errorf("hashicorp provider needs a secret_ref")
	}

	data, err := p.client.GetSecret(ctx, p.mount, ref)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %s/%s", provider.ErrNotFound, p.mount, ref)
	}

	creds := &provider.Credentials{
		Username:     stringValue(data, "username"),
		Password:     stringValue(data, "password"),
		SessionID:    stringValue(data, "session_id"),
		ClientSecret: stringValue(data, "client_secret"),
	}
	if creds.Password == "" {
		creds.Password = stringValue(data, "value")
	}
	if creds.IsEmpty() {
		return nil, fmt.Errorf("%w: %s/%s has no usable keys", provider.ErrNotFound, p.mount, ref)
	}

	return creds, nil
}

func stringValue(data map[string]interface{}, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
