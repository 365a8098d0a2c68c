// Package provider defines credential providers. A provider looks up the
// secrets needed to open a Vault session so they never live in the CLI
// config file.
package provider

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a provider has no secret under a reference
var ErrNotFound = errors.New("credentials not found")

// Credentials are the secrets a provider can supply for a vault
type Credentials struct {
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// IsEmpty reports whether no secret was found
func (c *Credentials) IsEmpty() bool {
	return c == nil || (c.Password == "" && c.SessionID == "" && c.ClientSecret == "")
}

// Merge fills empty fields of c from other
func (c *Credentials) Merge(other *Credentials) {
	if other == nil {
		return
	}
	if c.Username == "" {
		c.Username = other.Username
	}
	if c.Password == "" {
		c.Password = other.Password
	}
	if c.SessionID == "" {
		c.SessionID = other.SessionID
	}
	if c.ClientSecret == "" {
		c.ClientSecret = other.ClientSecret
	}
}

// Provider represents a credential backend
type Provider interface {
	// Name returns the provider name (e.g., "env", "hashicorp")
	Name() string

	// Credentials looks up the secrets stored under ref
	Credentials(ctx context.Context, ref string) (*Credentials, error)
}

// Config holds provider-specific configuration
type Config struct {
	Name     string                 // Provider name
	Settings map[string]interface{} // Provider-specific settings
}

// String returns a string setting or an empty string
func (c *Config) String(key string) string {
	if c == nil || c.Settings == nil {
		return ""
	}
	v, _ := c.Settings[key].(string)
	return v
}
