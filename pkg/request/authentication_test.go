package request_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylchen07/go-vapil/internal/vaulttest"
	"github.com/ylchen07/go-vapil/pkg/models"
	"github.com/ylchen07/go-vapil/pkg/request"
)

func TestAuthenticationRequest_Login(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleAuth("login-session")

	resp, err := request.NewAuthenticationRequest(srv.NewClient(t)).
		Login(context.Background(), vaulttest.Username, vaulttest.Password)
	require.NoError(t, err)
	assert.True(t, resp.IsSuccessful())
	assert.Equal(t, "login-session", resp.SessionID)
	assert.Equal(t, vaulttest.VaultID, resp.VaultID)
}

func TestAuthenticationRequest_LoginOtherVault(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleAuth("login-session")

	resp, err := request.NewAuthenticationRequest(srv.NewClient(t)).
		SetVaultDNS("other.veevavault.com").
		Login(context.Background(), vaulttest.Username, vaulttest.Password)
	require.NoError(t, err)
	assert.False(t, resp.IsSuccessful())
	assert.True(t, resp.HasErrorType(models.ErrorTypeInvalidDNS))

	form, err := url.ParseQuery(string(srv.LastRequest(t).Body))
	require.NoError(t, err)
	assert.Equal(t, "other.veevavault.com", form.Get("vaultDNS"))
}

func TestAuthenticationRequest_LoginValidation(t *testing.T) {
	srv := vaulttest.New(t)

	_, err := request.NewAuthenticationRequest(srv.NewClient(t)).Login(context.Background(), "", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
	assert.Empty(t, srv.Requests())
}

func TestAuthenticationRequest_DiscoverAuthType(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodPost, "/auth/discovery", http.StatusOK, vaulttest.Success(map[string]any{
		"data": map[string]any{
			"auth_type":     "sso",
			"auth_profiles": []map[string]any{{"id": "0oa1", "label": "Okta"}},
		},
	}))

	resp, err := request.NewAuthenticationRequest(srv.NewClient(t)).DiscoverAuthType(context.Background(), vaulttest.Username)
	require.NoError(t, err)
	assert.True(t, resp.IsSuccessful())
	assert.Equal(t, "sso", resp.Data.AuthType)
	require.Len(t, resp.Data.AuthProfiles, 1)
	assert.Equal(t, "0oa1", resp.Data.AuthProfiles[0].ID)
	assert.Empty(t, srv.LastRequest(t).Header.Get("Authorization"))
}

func TestAuthenticationRequest_RetrieveAPIVersions(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodGet, "/api", http.StatusOK, vaulttest.Success(map[string]any{
		"values": map[string]string{"v25.1": "https://test.veevavault.com/api/v25.1"},
	}))

	resp, err := request.NewAuthenticationRequest(srv.NewClient(t)).RetrieveAPIVersions(context.Background())
	require.NoError(t, err)
	assert.Contains(t, resp.Values, "v25.1")
}

func TestAuthenticationRequest_EndSession(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodDelete, "/api/{version}/session", http.StatusOK, vaulttest.Success(nil))

	c := srv.NewClient(t)
	resp, err := request.NewAuthenticationRequest(c).EndSession(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.IsSuccessful())
	assert.False(t, c.IsAuthenticated())
}

func TestAuthenticationRequest_Delegation(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodGet, "/api/{version}/delegation/vaults", http.StatusOK, vaulttest.Success(map[string]any{
		"delegated_vaults": []map[string]any{{"id": 2000, "name": "Other", "dns": "other.veevavault.com", "delegator_userid": "5"}},
	}))
	srv.Handle(http.MethodPost, "/api/{version}/delegation/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2000", r.PostForm.Get("vault_id"))
		assert.Equal(t, "5", r.PostForm.Get("delegator_userid"))
		vaulttest.WriteJSON(w, http.StatusOK, vaulttest.Success(map[string]any{"delegated_sessionid": "delegated"}))
	})

	auth := request.NewAuthenticationRequest(srv.NewClient(t))

	vaults, err := auth.RetrieveDelegations(context.Background())
	require.NoError(t, err)
	require.Len(t, vaults.DelegatedVaults, 1)

	session, err := auth.InitiateDelegatedSession(context.Background(), vaults.DelegatedVaults[0].ID, vaults.DelegatedVaults[0].DelegatorUserID)
	require.NoError(t, err)
	assert.Equal(t, "delegated", session.DelegatedSessionID)

	_, err = auth.InitiateDelegatedSession(context.Background(), 0, "5")
	assert.Error(t, err)
}

func TestAuthenticationRequest_NilClient(t *testing.T) {
	ctx := context.Background()
	r := request.NewAuthenticationRequest(nil)

	calls := map[string]func() error{
		"Login": func() error {
			_, err := r.Login(ctx, vaulttest.Username, vaulttest.Password)
			return err
		},
		"LoginOAuth": func() error {
			_, err := r.LoginOAuth(ctx, "profile", "token")
			return err
		},
		"DiscoverAuthType": func() error {
			_, err := r.DiscoverAuthType(ctx, vaulttest.Username)
			return err
		},
		"RetrieveAPIVersions": func() error {
			_, err := r.RetrieveAPIVersions(ctx)
			return err
		},
		"ValidateSessionUser": func() error {
			_, err := r.ValidateSessionUser(ctx)
			return err
		},
		"SessionKeepAlive": func() error {
			_, err := r.SessionKeepAlive(ctx)
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { err = call() })
			require.Error(t, err)
			assert.Contains(t, err.Error(), "client is required")
		})
	}
}
