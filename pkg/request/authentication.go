package request

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// AuthenticationRequest covers logins, session management and delegation
type AuthenticationRequest struct {
	vaultRequest
	vaultDNS string
}

// NewAuthenticationRequest creates an authentication builder
func NewAuthenticationRequest(c *client.Client) *AuthenticationRequest {
	return &AuthenticationRequest{vaultRequest: newVaultRequest(c)}
}

// SetVaultDNS selects the vault to log in to. Defaults to the client vault.
func (r *AuthenticationRequest) SetVaultDNS(dns string) *AuthenticationRequest {
	r.vaultDNS = dns
	return r
}

func (r *AuthenticationRequest) targetDNS() string {
	if r.vaultDNS != "" {
		return r.vaultDNS
	}
	return r.client.Settings().VaultDNS
}

// Login authenticates with a user name and password
func (r *AuthenticationRequest) Login(ctx context.Context, username, password string) (*models.AuthenticationResponse, error) {
	if r.client == nil {
		return nil, errNoClient
	}
	if err := validateRequired(map[string]string{"username": username, "password": password}); err != nil {
		return nil, err
	}
	return r.client.LoginBasic(ctx, username, password, r.targetDNS())
}

// LoginOAuth exchanges an OAuth access token for a session
func (r *AuthenticationRequest) LoginOAuth(ctx context.Context, profileID, accessToken string) (*models.AuthenticationResponse, error) {
	if r.client == nil {
		return nil, errNoClient
	}
	if err := validateRequired(map[string]string{"profile_id": profileID, "access_token": accessToken}); err != nil {
		return nil, err
	}
	return r.client.LoginOAuth(ctx, profileID, accessToken, r.targetDNS())
}

// DiscoverAuthType asks the login host how a user authenticates
func (r *AuthenticationRequest) DiscoverAuthType(ctx context.Context, username string) (*models.AuthTypeDiscoveryResponse, error) {
	if r.client == nil {
		return nil, errNoClient
	}
	if err := validateRequired(map[string]string{"username": username}); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodPost, r.client.LoginURL("/auth/discovery"))
	call.SkipSession = true
	call.Form.Set("username", username)
	call.SetForm("client_id", r.client.Settings().ClientID)

	resp := &models.AuthTypeDiscoveryResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveAPIVersions lists the API versions supported by the vault
func (r *AuthenticationRequest) RetrieveAPIVersions(ctx context.Context) (*models.APIVersionResponse, error) {
	if r.client == nil {
		return nil, errNoClient
	}
	resp := &models.APIVersionResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, r.client.VaultURL()+"/api"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ValidateSessionUser retrieves the user owning the current session
func (r *AuthenticationRequest) ValidateSessionUser(ctx context.Context) (*models.UserMeResponse, error) {
	if r.client == nil {
		return nil, errNoClient
	}
	return r.client.ValidateSession(ctx)
}

// SessionKeepAlive refreshes the current session
func (r *AuthenticationRequest) SessionKeepAlive(ctx context.Context) (*models.VaultResponse, error) {
	resp := &models.VaultResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodPost, "/keep-alive"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// EndSession ends the current session and forgets it on success
func (r *AuthenticationRequest) EndSession(ctx context.Context) (*models.VaultResponse, error) {
	resp := &models.VaultResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodDelete, "/session"), resp); err != nil {
		return nil, err
	}
	if resp.IsSuccessful() {
		r.client.SetSessionID("")
	}
	return resp, nil
}

// RetrieveDelegations lists vaults where the user may act for another user
func (r *AuthenticationRequest) RetrieveDelegations(ctx context.Context) (*models.DelegationsResponse, error) {
	resp := &models.DelegationsResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, "/delegation/vaults"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// InitiateDelegatedSession starts a session acting for delegatorUserID
func (r *AuthenticationRequest) InitiateDelegatedSession(ctx context.Context, vaultID int, delegatorUserID string) (*models.DelegatedSessionResponse, error) {
	if err := validateID("vault_id", vaultID); err != nil {
		return nil, err
	}
	if err := validateRequired(map[string]string{"delegator_userid": delegatorUserID}); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodPost, "/delegation/login")
	call.Form.Set("vault_id", strconv.Itoa(vaultID))
	call.Form.Set("delegator_userid", delegatorUserID)

	resp := &models.DelegatedSessionResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
