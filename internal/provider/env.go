package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvProvider reads credentials from environment variables named
// PREFIX_USERNAME, PREFIX_PASSWORD, PREFIX_SESSION_ID and
// PREFIX_CLIENT_SECRET. A reference is inserted after the prefix, so ref
// "prod" reads VAPIL_PROD_PASSWORD.
type EnvProvider struct {
	prefix string
}

// NewEnvProvider creates an environment credential provider
// Configuration options:
//   - "prefix" (string): variable prefix, defaults to VAPIL
func NewEnvProvider(cfg *Config) (Provider, error) {
	prefix := cfg.String("prefix")
	if prefix == "" {
		prefix = "VAPIL"
	}
	return &EnvProvider{prefix: strings.ToUpper(prefix)}, nil
}

// Name returns the provider name
func (p *EnvProvider) Name() string {
	return "env"
}

// Credentials reads the variables for ref
func (p *EnvProvider) Credentials(_ context.Context, ref string) (*Credentials, error) {
	base := p.prefix
	if ref != "" {
		base += "_" + envKey(ref)
	}

	creds := &Credentials{
		Username:     os.Getenv(base + "_USERNAME"),
		Password:     os.Getenv(base + "_PASSWORD"),
		SessionID:    os.Getenv(base + "_SESSION_ID"),
		ClientSecret: os.Getenv(base + "_CLIENT_SECRET"),
	}
	if creds.IsEmpty() {
		return nil, fmt.Errorf("%w: no %s_PASSWORD, %s_SESSION_ID or %s_CLIENT_SECRET set", ErrNotFound, base, base, base)
	}
	return creds, nil
}

// envKey upper-cases ref and replaces characters not allowed in names
func envKey(ref string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, ref)
}
