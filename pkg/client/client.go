package client

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/ylchen07/go-vapil/pkg/connector"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// Headers set by the dispatcher.
const (
	HeaderClientID    = "X-VaultAPI-ClientID"
	HeaderReferenceID = "X-VaultAPI-ReferenceId"
	HeaderAccept      = "Accept"
	HeaderAuth        = "Authorization"
)

// Client holds the settings and the current session of one vault
type Client struct {
	settings  Settings
	connector *connector.Connector
	logger    hclog.Logger
	fs        afero.Fs

	mu           sync.RWMutex
	sessionID    string
	authResponse *models.AuthenticationResponse
}

type options struct {
	logger     hclog.Logger
	connector  *connector.Connector
	httpClient *http.Client
	metrics    *connector.Metrics
	fs         afero.Fs
}

// Option configures a Client
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithConnector replaces the connector built from the settings
func WithConnector(c *connector.Connector) Option {
	return func(o *options) {
		o.connector = c
	}
}

// WithHTTPClient sets the HTTP client used by the default connector
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithMetrics records request metrics in the default connector
func WithMetrics(m *connector.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithFs sets the filesystem used when downloads do not name one
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// New validates the settings and creates a client. It does not authenticate.
func New(settings Settings, opts ...Option) (*Client, error) {
	settings.applyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = hclog.NewNullLogger()
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	if o.connector == nil {
		hc := o.httpClient
		if hc == nil {
			hc = &http.Client{Timeout: settings.Timeout}
		}
		o.connector = connector.New(
			connector.WithHTTPClient(hc),
			connector.WithLogger(o.logger.Named("connector")),
			connector.WithRetryPolicy(settings.Retry),
			connector.WithMetrics(o.metrics),
		)
	}

	c := &Client{
		settings:  settings,
		connector: o.connector,
		logger:    o.logger,
		fs:        o.fs,
	}
	if settings.AuthType == AuthTypeSessionID {
		c.sessionID = settings.SessionID
	}
	return c, nil
}

// Settings returns a copy of the client settings
func (c *Client) Settings() Settings {
	return c.settings
}

// Logger returns the client logger
func (c *Client) Logger() hclog.Logger {
	return c.logger
}

// Fs returns the default filesystem for downloads
func (c *Client) Fs() afero.Fs {
	return c.fs
}

// SessionID returns the current session ID
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// SetSessionID replaces the current session, e.g. with a delegated session
func (c *Client) SetSessionID(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = sessionID
}

// AuthenticationResponse returns the response of the last successful login
func (c *Client) AuthenticationResponse() *models.AuthenticationResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authResponse
}

// IsAuthenticated reports whether the client holds a session
func (c *Client) IsAuthenticated() bool {
	return c.SessionID() != ""
}

// VaultURL returns the scheme and host of the vault
func (c *Client) VaultURL() string {
	if c.settings.BaseURL != "" {
		return strings.TrimSuffix(c.settings.BaseURL, "/")
	}
	return "https://" + c.settings.VaultDNS
}

// APIURL returns the full URL of an API path relative to /api/{version}
func (c *Client) APIURL(path string) string {
	return c.VaultURL() + "/api/" + c.settings.APIVersion + ensureSlash(path)
}

// LoginURL returns the URL of a path on the login host
func (c *Client) LoginURL(path string) string {
	return strings.TrimSuffix(c.settings.LoginURL, "/") + ensureSlash(path)
}

func (c *Client) resolveURL(path string) string {
	switch {
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case strings.HasPrefix(path, "/api/"):
		return c.VaultURL() + path
	default:
		return c.APIURL(path)
	}
}

func ensureSlash(path string) string {
	if path == "" || strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}
