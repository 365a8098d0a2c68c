package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Defaults(t *testing.T) {
	s := Settings{VaultDNS: "myvault.veevavault.com", ClientID: "app", Username: "u", Password: "p"}
	s.applyDefaults()

	assert.Equal(t, DefaultAPIVersion, s.APIVersion)
	assert.Equal(t, DefaultLoginURL, s.LoginURL)
	assert.Equal(t, AuthTypeBasic, s.AuthType)
	require.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  string
	}{
		{
			name:     "missing client id",
			settings: Settings{VaultDNS: "v.veevavault.com", Username: "u", Password: "p"},
			wantErr:  "ClientID",
		},
		{
			name:     "basic without password",
			settings: Settings{VaultDNS: "v.veevavault.com", ClientID: "app", Username: "u"},
			wantErr:  "Password",
		},
		{
			name:     "session without id",
			settings: Settings{VaultDNS: "v.veevavault.com", ClientID: "app", AuthType: AuthTypeSessionID},
			wantErr:  "SessionID",
		},
		{
			name:     "oauth without token",
			settings: Settings{VaultDNS: "v.veevavault.com", ClientID: "app", AuthType: AuthTypeOAuthAccessToken, OAuthProfileID: "p1"},
			wantErr:  "AccessToken",
		},
		{
			name:     "unknown auth type",
			settings: Settings{VaultDNS: "v.veevavault.com", ClientID: "app", AuthType: "SAML"},
			wantErr:  "AuthType",
		},
		{
			name:     "bad api version",
			settings: Settings{VaultDNS: "v.veevavault.com", ClientID: "app", Username: "u", Password: "p", APIVersion: "25.1"},
			wantErr:  "APIVersion",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.settings
			s.applyDefaults()
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettings_SessionIDNeedsNoCredentials(t *testing.T) {
	s := Settings{VaultDNS: "v.veevavault.com", ClientID: "app", AuthType: AuthTypeSessionID, SessionID: "abc"}
	s.applyDefaults()
	assert.NoError(t, s.Validate())
}

func TestResolveURL(t *testing.T) {
	c, err := New(Settings{VaultDNS: "v.veevavault.com", ClientID: "app", AuthType: AuthTypeSessionID, SessionID: "abc"})
	require.NoError(t, err)

	assert.Equal(t, "https://v.veevavault.com/api/v25.1/objects/documents", c.resolveURL("/objects/documents"))
	assert.Equal(t, "https://v.veevavault.com/api/v25.1/query", c.resolveURL("query"))
	assert.Equal(t, "https://v.veevavault.com/api/v24.2/query/abc", c.resolveURL("/api/v24.2/query/abc"))
	assert.Equal(t, "https://login.veevavault.com/auth/discovery", c.resolveURL(c.LoginURL("auth/discovery")))
	assert.Equal(t, "abc", c.SessionID())
}
