package hashicorp

import (
	"context"
	"fmt"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// Client wraps the HashiCorp Vault API client
type Client struct {
	client *vault.Client
}

// NewClient creates a new HashiCorp Vault client. Empty arguments fall back
// to the standard VAULT_ADDR, VAULT_TOKEN and VAULT_NAMESPACE variables.
func NewClient(address, token, namespace string) (*Client, error) {
	config := vault.DefaultConfig()
	if config.Error != nil {
		return nil, fmt.Errorf("failed to read Vault environment: %w", config.Error)
	}
	if address != "" {
		config.Address = address
	}
	if config.Address == "" {
		return nil, fmt.Errorf("vault address not set (configure address or VAULT_ADDR)")
	}

	client, err := vault.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	// NewClient already picked up VAULT_TOKEN and VAULT_NAMESPACE
	if token != "" {
		client.SetToken(token)
	}
	if client.Token() == "" {
		return nil, fmt.Errorf("vault token not set (configure token or VAULT_TOKEN)")
	}
	if namespace != "" {
		client.SetNamespace(namespace)
	}

	return &Client{
		client: client,
	}, nil
}

// GetSecret retrieves a secret value from a KV v2 mount
func (c *Client) GetSecret(ctx context.Context, mountPath, secretPath string) (map[string]interface{}, error) {
	// For KV v2, we need to use the data path
	path := fmt.Sprintf("%s/data/%s", strings.Trim(mountPath, "/"), strings.TrimPrefix(secretPath, "/"))

	secret, err := c.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	if secret == nil || secret.Data == nil {
		return nil, nil
	}

	// KV v2 stores the actual secret data under the "data" key
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid secret data format at %s", path)
	}

	return data, nil
}
