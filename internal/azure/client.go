package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// secretGetter is the part of azsecrets.Client the provider uses
type secretGetter interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// Client reads secrets from a single Azure Key Vault
type Client struct {
	secrets secretGetter
}

// NewClient creates a Key Vault client authenticated with the default Azure
// credential chain (environment, workload identity, managed identity, az CLI)
func NewClient(vaultURL string) (*Client, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	secrets, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Key Vault client: %w", err)
	}

	return &Client{secrets: secrets}, nil
}

// GetSecret returns the latest value of a secret, or false when it does not exist
func (c *Client) GetSecret(ctx context.Context, name string) (string, bool, error) {
	resp, err := c.secrets.GetSecret(ctx, name, "", nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get secret %s: %w", name, err)
	}

	if resp.Value == nil {
		return "", false, nil
	}
	return *resp.Value, true, nil
}
