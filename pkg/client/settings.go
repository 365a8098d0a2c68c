package client

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/oauth2"

	"github.com/ylchen07/go-vapil/pkg/connector"
)

// AuthType selects how the client obtains a session
type AuthType string

const (
	AuthTypeBasic            AuthType = "BASIC"
	AuthTypeSessionID        AuthType = "SESSION_ID"
	AuthTypeOAuthAccessToken AuthType = "OAUTH_ACCESS_TOKEN"
)

const (
	// DefaultAPIVersion is used when Settings.APIVersion is empty
	DefaultAPIVersion = "v25.1"
	// DefaultLoginURL is the host for OAuth logins and auth discovery
	DefaultLoginURL = "https://login.veevavault.com"
)

var apiVersionPattern = regexp.MustCompile(`^v\d+(\.\d+)?$`)

// Settings configures a Client
type Settings struct {
	VaultDNS   string
	APIVersion string
	// ClientID is sent as X-VaultAPI-ClientID on every call.
	ClientID string
	AuthType AuthType

	Username string
	Password string

	SessionID string

	OAuthProfileID string
	AccessToken    string
	// TokenSource is used instead of AccessToken when set.
	TokenSource oauth2.TokenSource

	LoginURL string
	// BaseURL replaces https://{VaultDNS}, mostly for tests.
	BaseURL string

	ValidateSession                bool
	ReauthenticateOnInvalidSession bool
	GenerateReferenceID            bool

	Timeout time.Duration
	Retry   connector.RetryPolicy
}

func (s *Settings) applyDefaults() {
	if s.APIVersion == "" {
		s.APIVersion = DefaultAPIVersion
	}
	if s.LoginURL == "" {
		s.LoginURL = DefaultLoginURL
	}
	if s.AuthType == "" {
		s.AuthType = AuthTypeBasic
	}
	if s.Timeout == 0 {
		s.Timeout = connector.DefaultTimeout
	}
}

// Validate checks the settings required by the selected auth type
func (s *Settings) Validate() error {
	basic := s.AuthType == AuthTypeBasic
	oauth := s.AuthType == AuthTypeOAuthAccessToken

	return validation.ValidateStruct(s,
		validation.Field(&s.VaultDNS, validation.Required, is.Domain),
		validation.Field(&s.APIVersion, validation.Required, validation.Match(apiVersionPattern)),
		validation.Field(&s.ClientID, validation.Required),
		validation.Field(&s.AuthType, validation.Required,
			validation.In(AuthTypeBasic, AuthTypeSessionID, AuthTypeOAuthAccessToken)),
		validation.Field(&s.Username, validation.When(basic, validation.Required)),
		validation.Field(&s.Password, validation.When(basic, validation.Required)),
		validation.Field(&s.SessionID, validation.When(s.AuthType == AuthTypeSessionID, validation.Required)),
		validation.Field(&s.OAuthProfileID, validation.When(oauth, validation.Required)),
		validation.Field(&s.AccessToken, validation.When(oauth && s.TokenSource == nil, validation.Required)),
		validation.Field(&s.LoginURL, is.URL),
		validation.Field(&s.BaseURL, is.URL),
		validation.Field(&s.Timeout, validation.Min(time.Duration(0))),
	)
}
