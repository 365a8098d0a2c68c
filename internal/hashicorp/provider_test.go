package hashicorp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylchen07/go-vapil/internal/provider"
)

func newVaultServer(t *testing.T, secrets map[string]map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s.test", r.Header.Get("X-Vault-Token"))

		data, ok := secrets[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"data":     data,
				"metadata": map[string]interface{}{"version": 1},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newProvider(t *testing.T, address string) provider.Provider {
	t.Helper()
	p, err := NewProvider(&provider.Config{
		Name: "hashicorp",
		Settings: map[string]interface{}{
			"address": address,
			"token":   "s.test",
			"mount":   "kv",
		},
	})
	require.NoError(t, err)
	return p
}

func TestProviderCredentials(t *testing.T) {
	srv := newVaultServer(t, map[string]map[string]interface{}{
		"/v1/kv/data/vapil/prod": {"username": "alice@acme.com", "password": "hunter2"},
		"/v1/kv/data/vapil/qa":   {"value": "only-password"},
		"/v1/kv/data/vapil/bad":  {"note": "nothing useful"},
	})
	p := newProvider(t, srv.URL)
	assert.Equal(t, "hashicorp", p.Name())

	creds, err := p.Credentials(context.Background(), "vapil/prod")
	require.NoError(t, err)
	assert.Equal(t, "alice@acme.com", creds.Username)
	assert.Equal(t, "hunter2", creds.Password)

	creds, err = p.Credentials(context.Background(), "vapil/qa")
	require.NoError(t, err)
	assert.Equal(t, "only-password", creds.Password)

	_, err = p.Credentials(context.Background(), "vapil/bad")
	assert.ErrorIs(t, err, provider.ErrNotFound)

	_, err = p.Credentials(context.Background(), "vapil/missing")
	assert.ErrorIs(t, err, provider.ErrNotFound)

	_, err = p.Credentials(context.Background(), "")
	assert.EqualError(t, err, "hashicorp provider needs a secret_ref")
}

func TestNewProviderWithoutToken(t *testing.T) {
	t.Setenv("VAULT_TOKEN", "")
	t.Setenv("VAULT_ADDR", "")

	_, err := NewProvider(&provider.Config{Settings: map[string]interface{}{"address": "http://127.0.0.1:8200"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault token not set")
}
