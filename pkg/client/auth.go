package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ylchen07/go-vapil/pkg/models"
)

// Authenticate obtains a session using the configured auth type and keeps it
// on the client when Vault accepts the login.
func (c *Client) Authenticate(ctx context.Context) (*models.AuthenticationResponse, error) {
	var (
		resp *models.AuthenticationResponse
		err  error
	)

	switch c.settings.AuthType {
	case AuthTypeBasic:
		resp, err = c.LoginBasic(ctx, c.settings.Username, c.settings.Password, c.settings.VaultDNS)
	case AuthTypeOAuthAccessToken:
		var token string
		token, err = c.accessToken()
		if err != nil {
			return nil, err
		}
		resp, err = c.LoginOAuth(ctx, c.settings.OAuthProfileID, token, c.settings.VaultDNS)
	case AuthTypeSessionID:
		resp, err = c.useSession(ctx, c.settings.SessionID)
	default:
		return nil, fmt.Errorf("unsupported auth type %q", c.settings.AuthType)
	}
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccessful() || resp.SessionID == "" {
		c.logger.Warn("authentication failed", "auth_type", c.settings.AuthType, "vault", c.settings.VaultDNS, "error", resp.Err())
		c.mu.Lock()
		c.sessionID = ""
		c.authResponse = nil
		c.mu.Unlock()
		return resp, nil
	}

	c.mu.Lock()
	c.sessionID = resp.SessionID
	c.authResponse = resp
	c.mu.Unlock()

	c.logger.Debug("authenticated", "auth_type", c.settings.AuthType, "vault", c.settings.VaultDNS, "user_id", resp.UserID)
	return resp, nil
}

// LoginBasic authenticates with a user name and password. The session is not
// stored on the client.
func (c *Client) LoginBasic(ctx context.Context, username, password, vaultDNS string) (*models.AuthenticationResponse, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	call := NewCall(http.MethodPost, "/auth")
	call.SkipSession = true
	call.Form.Set("username", username)
	call.Form.Set("password", password)
	call.SetForm("vaultDNS", vaultDNS)

	resp := &models.AuthenticationResponse{}
	if err := c.Send(ctx, call, resp); err != nil {
		return nil, err
	}
	checkVaultDNS(resp, vaultDNS)
	return resp, nil
}

// LoginOAuth exchanges an OAuth access token for a session through the
// login host. The session is not stored on the client.
func (c *Client) LoginOAuth(ctx context.Context, profileID, accessToken, vaultDNS string) (*models.AuthenticationResponse, error) {
	if profileID == "" || accessToken == "" {
		return nil, fmt.Errorf("oauth profile id and access token are required")
	}

	call := NewCall(http.MethodPost, c.LoginURL("/auth/oauth/session/"+url.PathEscape(profileID)))
	call.SkipSession = true
	call.Headers.Set(HeaderAuth, "Bearer "+accessToken)
	call.SetForm("vaultDNS", vaultDNS)
	call.SetForm("client_id", c.settings.ClientID)

	resp := &models.AuthenticationResponse{}
	if err := c.Send(ctx, call, resp); err != nil {
		return nil, err
	}
	checkVaultDNS(resp, vaultDNS)
	return resp, nil
}

// ValidateSession retrieves the user owning the current session
func (c *Client) ValidateSession(ctx context.Context) (*models.UserMeResponse, error) {
	resp := &models.UserMeResponse{}
	if err := c.Send(ctx, NewCall(http.MethodGet, "/objects/users/me"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) useSession(ctx context.Context, sessionID string) (*models.AuthenticationResponse, error) {
	c.SetSessionID(sessionID)

	resp := &models.AuthenticationResponse{SessionID: sessionID}
	resp.ResponseStatus = models.StatusSuccess
	if !c.settings.ValidateSession {
		return resp, nil
	}

	me, err := c.ValidateSession(ctx)
	if err != nil {
		return nil, err
	}
	resp.VaultResponse = me.VaultResponse
	if user, ok := me.User(); ok {
		resp.UserID = user.ID
	}
	return resp, nil
}

func (c *Client) accessToken() (string, error) {
	if c.settings.TokenSource == nil {
		return c.settings.AccessToken, nil
	}
	token, err := c.settings.TokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("failed to obtain access token: %w", err)
	}
	return token.AccessToken, nil
}

// checkVaultDNS fails a successful login that landed on another vault
func checkVaultDNS(resp *models.AuthenticationResponse, vaultDNS string) {
	if !resp.IsSuccessful() || vaultDNS == "" {
		return
	}

	vault, ok := resp.AuthenticatedVault()
	if ok && strings.EqualFold(vault.DNS(), vaultDNS) {
		return
	}

	got := "unknown vault"
	if ok {
		got = vault.DNS()
	}
	resp.SessionID = ""
	resp.Fail(models.ErrorTypeInvalidDNS, fmt.Sprintf("authenticated to %s instead of %s", got, vaultDNS))
}
