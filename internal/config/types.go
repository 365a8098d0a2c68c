package config

import "time"

// Config represents the complete CLI configuration
type Config struct {
	Defaults  Defaults        `mapstructure:"defaults"`
	Client    ClientOptions   `mapstructure:"client"`
	Vaults    []VaultInstance `mapstructure:"vaults"`
	Providers Providers       `mapstructure:"providers"`
}

// Defaults holds values used when no flag overrides them
type Defaults struct {
	Vault    string `mapstructure:"vault"`     // Name of the vault instance to use
	Output   string `mapstructure:"output"`    // plain, json or yaml
	LogLevel string `mapstructure:"log_level"` // hclog level name
}

// ClientOptions tune the SDK client built for every command
type ClientOptions struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRetries          int           `mapstructure:"max_retries"`
	ValidateSession     bool          `mapstructure:"validate_session"`
	Reauthenticate      bool          `mapstructure:"reauthenticate"`
	GenerateReferenceID bool          `mapstructure:"generate_reference_id"`
}

// VaultInstance is a named Vault the CLI can connect to
type VaultInstance struct {
	Name           string `mapstructure:"name"`
	DNS            string `mapstructure:"dns"`
	ClientID       string `mapstructure:"client_id"`
	APIVersion     string `mapstructure:"api_version"`
	AuthType       string `mapstructure:"auth_type"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	SessionID      string `mapstructure:"session_id"`
	OAuthProfileID string `mapstructure:"oauth_profile_id"`
	LoginURL       string `mapstructure:"login_url"`
	// BaseURL replaces https://{dns}, for proxies and local test servers.
	BaseURL string `mapstructure:"base_url"`

	// Credentials names the provider that supplies secrets for this vault.
	// Empty means the inline values above are used as is.
	Credentials string `mapstructure:"credentials"`
	// SecretRef locates the secret inside the credential provider.
	SecretRef string `mapstructure:"secret_ref"`

	OIDC    *OIDCConfig `mapstructure:"oidc"`
	Default bool        `mapstructure:"default"`
}

// OIDCConfig configures client credentials token retrieval for OAuth vaults
type OIDCConfig struct {
	IssuerURL    string   `mapstructure:"issuer_url"`
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	Scopes       []string `mapstructure:"scopes"`
}

// Providers contains the credential provider configurations
type Providers struct {
	Env       *EnvConfig       `mapstructure:"env"`
	Azure     *AzureConfig     `mapstructure:"azure"`
	Hashicorp *HashicorpConfig `mapstructure:"hashicorp"`
}

// EnvConfig configures credentials read from environment variables
type EnvConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Prefix  string `mapstructure:"prefix"`
}

// AzureConfig configures credentials stored in an Azure Key Vault
type AzureConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	VaultURL string `mapstructure:"vault_url"`
}

// HashicorpConfig configures credentials stored in a HashiCorp Vault KV v2 mount
type HashicorpConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	Namespace string `mapstructure:"namespace"`
	Mount     string `mapstructure:"mount"`
}
