// Package azure reads Vault credentials from Azure Key Vault secrets.
package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ylchen07/go-vapil/internal/provider"
)

// Provider implements the provider.Provider interface for Azure Key Vault
type Provider struct {
	client *Client
}

// NewProvider creates a new Azure Key Vault provider
// Configuration options:
//   - "vault_url" (string): Key Vault URL, e.g. https://acme.vault.azure.net
func NewProvider(cfg *provider.Config) (provider.Provider, error) {
	vaultURL := cfg.String("vault_url")
	if vaultURL == "" {
		return nil, fmt.Errorf("vault_url is required for Azure provider")
	}

	client, err := NewClient(vaultURL)
	if err != nil {
		return nil, err
	}

	return &Provider{
		client: client,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "azure"
}

// Credentials reads the secret named ref. Secrets holding a JSON object are
// decoded into all credential fields; any other value is the password.
func (p *Provider) Credentials(ctx context.Context, ref string) (*provider.Credentials, error) {
	if ref == "" {
		return nil, fmt.Errorf("azure provider needs a secret_ref")
	}

	value, found, err := p.client.GetSecret(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: secret %s", provider.ErrNotFound, ref)
	}

	return parseSecret(value), nil
}

func parseSecret(value string) *provider.Credentials {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "{") {
		var creds provider.Credentials
		if err := json.Unmarshal([]byte(trimmed), &creds); err == nil && !creds.IsEmpty() {
			return &creds
		}
	}
	return &provider.Credentials{Password: value}
}
