package models

import (
	"net/url"
	"strings"
)

// Vault represents a vault the authenticated user has access to
type Vault struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DNS returns the host name part of the vault URL
func (v Vault) DNS() string {
	u, err := url.Parse(v.URL)
	if err != nil || u.Host == "" {
		return strings.TrimPrefix(strings.TrimPrefix(v.URL, "https://"), "http://")
	}
	return u.Hostname()
}

// AuthenticationResponse is returned by username/password and OAuth logins
type AuthenticationResponse struct {
	VaultResponse
	SessionID string  `json:"sessionId,omitempty"`
	UserID    int     `json:"userId,omitempty"`
	VaultID   int     `json:"vaultId,omitempty"`
	VaultIDs  []Vault `json:"vaultIds,omitempty"`
}

// AuthenticatedVault returns the vault matching VaultID
func (r *AuthenticationResponse) AuthenticatedVault() (Vault, bool) {
	for _, v := range r.VaultIDs {
		if v.ID == r.VaultID {
			return v, true
		}
	}
	return Vault{}, false
}

// APIVersionResponse lists the API versions supported by the vault
type APIVersionResponse struct {
	VaultResponse
	Values map[string]string `json:"values,omitempty"`
}

// AuthTypeDiscoveryResponse is returned by the login host discovery endpoint
type AuthTypeDiscoveryResponse struct {
	VaultResponse
	Data struct {
		AuthType     string        `json:"auth_type"`
		AuthProfiles []AuthProfile `json:"auth_profiles,omitempty"`
	} `json:"data"`
}

// AuthProfile describes an SSO or OAuth profile available to a user
type AuthProfile struct {
	ID                    string `json:"id"`
	Label                 string `json:"label"`
	Description           string `json:"description,omitempty"`
	VaultSessionDiscovery string `json:"vault_session_discovery,omitempty"`
	ASClientID            string `json:"as_client_id,omitempty"`
}

// UserMeResponse is returned by the session validation endpoint
type UserMeResponse struct {
	VaultResponse
	Users []struct {
		User User `json:"user"`
	} `json:"users,omitempty"`
}

// User returns the first user entry, if any
func (r *UserMeResponse) User() (User, bool) {
	if len(r.Users) == 0 {
		return User{}, false
	}
	return r.Users[0].User, true
}

// DelegationsResponse lists vaults where the user may start a delegated session
type DelegationsResponse struct {
	VaultResponse
	DelegatedVaults []struct {
		ID              int    `json:"id"`
		Name            string `json:"name"`
		DNS             string `json:"dns"`
		DelegatorUserID string `json:"delegator_userid"`
	} `json:"delegated_vaults,omitempty"`
}

// DelegatedSessionResponse is returned when a delegated session starts
type DelegatedSessionResponse struct {
	VaultResponse
	DelegatedSessionID string `json:"delegated_sessionid,omitempty"`
}
