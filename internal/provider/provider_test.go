package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProvider struct {
	name  string
	creds *Credentials
}

func (p *staticProvider) Name() string { return p.name }

func (p *staticProvider) Credentials(context.Context, string) (*Credentials, error) {
	return p.creds, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("static", func(cfg *Config) (Provider, error) {
		return &staticProvider{name: cfg.Name, creds: &Credentials{Password: cfg.String("password")}}, nil
	})
	r.Register("broken", func(*Config) (Provider, error) {
		return nil, errors.New("boom")
	})

	assert.Equal(t, []string{"broken", "static"}, r.List())
	assert.True(t, r.IsRegistered("static"))
	assert.False(t, r.IsRegistered("azure"))

	p, err := r.Get("static", &Config{Name: "static", Settings: map[string]interface{}{"password": "pw"}})
	require.NoError(t, err)
	creds, err := p.Credentials(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "pw", creds.Password)

	_, err = r.Get("broken", nil)
	assert.EqualError(t, err, "boom")

	_, err = r.Get("azure", nil)
	assert.EqualError(t, err, "provider not found: azure")
}

func TestConfigString(t *testing.T) {
	var nilCfg *Config
	assert.Empty(t, nilCfg.String("prefix"))

	cfg := &Config{Settings: map[string]interface{}{"prefix": "ACME", "port": 8200}}
	assert.Equal(t, "ACME", cfg.String("prefix"))
	assert.Empty(t, cfg.String("port"))
}

func TestCredentialsMerge(t *testing.T) {
	creds := &Credentials{Password: "from-provider"}
	creds.Merge(&Credentials{Username: "alice@acme.com", Password: "inline"})

	assert.Equal(t, "alice@acme.com", creds.Username)
	assert.Equal(t, "from-provider", creds.Password)
	assert.False(t, creds.IsEmpty())
	assert.True(t, (&Credentials{Username: "bob"}).IsEmpty())
}

func TestEnvProvider(t *testing.T) {
	t.Setenv("ACME_USERNAME", "alice@acme.com")
	t.Setenv("ACME_PASSWORD", "secret")
	t.Setenv("ACME_PROD_EU_SESSION_ID", "session-xyz")

	p, err := NewEnvProvider(&Config{Settings: map[string]interface{}{"prefix": "acme"}})
	require.NoError(t, err)
	assert.Equal(t, "env", p.Name())

	creds, err := p.Credentials(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "alice@acme.com", creds.Username)
	assert.Equal(t, "secret", creds.Password)

	creds, err = p.Credentials(context.Background(), "prod-eu")
	require.NoError(t, err)
	assert.Equal(t, "session-xyz", creds.SessionID)
	assert.Empty(t, creds.Password)

	_, err = p.Credentials(context.Background(), "qa")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "ACME_QA_PASSWORD")
}

func TestEnvProviderDefaultPrefix(t *testing.T) {
	p, err := NewEnvProvider(nil)
	require.NoError(t, err)
	assert.Equal(t, "VAPIL", p.(*EnvProvider).prefix)
}
