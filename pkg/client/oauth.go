package client

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// OIDCConfig describes an OAuth client registered with an OpenID Connect
// authorization server
type OIDCConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// OIDCTokenSource discovers the token endpoint of the issuer and returns a
// client credentials token source suitable for Settings.TokenSource.
func OIDCTokenSource(ctx context.Context, cfg OIDCConfig) (oauth2.TokenSource, error) {
	if cfg.IssuerURL == "" || cfg.ClientID == "" {
		return nil, fmt.Errorf("issuer url and client id are required")
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover issuer %s: %w", cfg.IssuerURL, err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID}
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     provider.Endpoint().TokenURL,
		Scopes:       scopes,
	}
	return oauth2.ReuseTokenSource(nil, cc.TokenSource(ctx)), nil
}
