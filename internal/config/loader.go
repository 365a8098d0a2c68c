package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

const (
	// DefaultConfigDir is the default directory for config files
	DefaultConfigDir = ".config/vapil"
	// DefaultConfigName is the default config file name (without extension)
	DefaultConfigName = "config"
	// EnvPrefix prefixes every environment variable override
	EnvPrefix = "VAPIL"
)

var (
	// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
	envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Z_][A-Z0-9_]*)`)

	authTypes = map[string]bool{"BASIC": true, "SESSION_ID": true, "OAUTH_ACCESS_TOKEN": true}
	outputs   = map[string]bool{"plain": true, "json": true, "yaml": true}
)

// Load loads configuration from file, environment variables, and defaults
// Configuration precedence (highest to lowest):
// 1. Environment variables (prefixed with VAPIL_)
// 2. Config file (~/.config/vapil/config.yaml)
// 3. Default values
func Load() (*Config, error) {
	v := newViper()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.SetConfigName(DefaultConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir, DefaultConfigDir))

	// The file is optional, env vars and defaults still apply
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	return decode(v)
}

// Default returns the configuration built from defaults and environment
// variables only, used when no config file exists
func Default() (*Config, error) {
	return decode(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("defaults.vault", "")
	v.SetDefault("defaults.output", "plain")
	v.SetDefault("defaults.log_level", "warn")

	v.SetDefault("client.timeout", 60*time.Second)
	v.SetDefault("client.max_retries", 0)
	v.SetDefault("client.validate_session", false)
	v.SetDefault("client.reauthenticate", true)
	v.SetDefault("client.generate_reference_id", false)

	v.SetDefault("providers.env.enabled", true)
	v.SetDefault("providers.env.prefix", EnvPrefix)
	v.SetDefault("providers.hashicorp.enabled", false)
	v.SetDefault("providers.hashicorp.mount", "secret")
	v.SetDefault("providers.azure.enabled", false)
}

// substituteEnvVars replaces ${VAR} or $VAR patterns with environment variable values
func substituteEnvVars(cfg *Config) {
	for i := range cfg.Vaults {
		inst := &cfg.Vaults[i]
		inst.DNS = expandEnvVars(inst.DNS)
		inst.ClientID = expandEnvVars(inst.ClientID)
		inst.Username = expandEnvVars(inst.Username)
		inst.Password = expandEnvVars(inst.Password)
		inst.SessionID = expandEnvVars(inst.SessionID)
		inst.SecretRef = expandEnvVars(inst.SecretRef)
		if inst.OIDC != nil {
			inst.OIDC.ClientID = expandEnvVars(inst.OIDC.ClientID)
			inst.OIDC.ClientSecret = expandEnvVars(inst.OIDC.ClientSecret)
		}
	}

	if cfg.Providers.Hashicorp != nil {
		hc := cfg.Providers.Hashicorp
		hc.Address = expandEnvVars(hc.Address)
		hc.Token = expandEnvVars(hc.Token)
		hc.Namespace = expandEnvVars(hc.Namespace)
	}

	if cfg.Providers.Azure != nil {
		cfg.Providers.Azure.VaultURL = expandEnvVars(cfg.Providers.Azure.VaultURL)
	}
}

// expandEnvVars expands environment variables in a string
// Supports both ${VAR_NAME} and $VAR_NAME formats
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		// Unset variables are left untouched
		return match
	})
}

// validate reports every problem found in the configuration at once
func validate(cfg *Config) error {
	var result *multierror.Error

	if cfg.Defaults.Output != "" && !outputs[cfg.Defaults.Output] {
		result = multierror.Append(result, fmt.Errorf("unsupported output format '%s'", cfg.Defaults.Output))
	}
	if cfg.Client.MaxRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("client max_retries must not be negative"))
	}

	names := make(map[string]bool)
	defaults := 0
	for i, inst := range cfg.Vaults {
		if inst.Name == "" {
			result = multierror.Append(result, fmt.Errorf("vault at index %d has no name", i))
			continue
		}
		if names[inst.Name] {
			result = multierror.Append(result, fmt.Errorf("vault '%s' is defined more than once", inst.Name))
		}
		names[inst.Name] = true

		if inst.DNS == "" {
			result = multierror.Append(result, fmt.Errorf("vault '%s' has no dns", inst.Name))
		}
		if inst.AuthType != "" && !authTypes[inst.AuthType] {
			result = multierror.Append(result, fmt.Errorf("vault '%s' has unknown auth_type '%s'", inst.Name, inst.AuthType))
		}
		if inst.Credentials != "" && !cfg.IsProviderEnabled(inst.Credentials) {
			result = multierror.Append(result, fmt.Errorf("vault '%s' uses credential provider '%s' which is not enabled", inst.Name, inst.Credentials))
		}
		if inst.Default {
			defaults++
		}
	}
	if defaults > 1 {
		result = multierror.Append(result, fmt.Errorf("more than one vault is marked as default"))
	}
	if cfg.Defaults.Vault != "" && len(cfg.Vaults) > 0 && !names[cfg.Defaults.Vault] {
		result = multierror.Append(result, fmt.Errorf("default vault '%s' is not configured", cfg.Defaults.Vault))
	}

	if hc := cfg.Providers.Hashicorp; hc != nil && hc.Enabled && hc.Mount == "" {
		result = multierror.Append(result, fmt.Errorf("hashicorp provider has no mount"))
	}
	if az := cfg.Providers.Azure; az != nil && az.Enabled && az.VaultURL == "" {
		result = multierror.Append(result, fmt.Errorf("azure provider is enabled but has no vault_url"))
	}

	return result.ErrorOrNil()
}
