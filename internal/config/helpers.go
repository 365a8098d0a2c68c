package config

import (
	"fmt"
)

// Provider names understood by IsProviderEnabled.
const (
	ProviderEnv       = "env"
	ProviderAzure     = "azure"
	ProviderHashicorp = "hashicorp"
)

// GetVault returns a vault instance by name
func (c *Config) GetVault(name string) (*VaultInstance, error) {
	for i := range c.Vaults {
		if c.Vaults[i].Name == name {
			return &c.Vaults[i], nil
		}
	}

	return nil, fmt.Errorf("vault '%s' not found", name)
}

// GetDefaultVault returns the vault named in defaults, then the one marked
// as default, then the first one configured
func (c *Config) GetDefaultVault() (*VaultInstance, error) {
	if c.Defaults.Vault != "" {
		return c.GetVault(c.Defaults.Vault)
	}

	for i := range c.Vaults {
		if c.Vaults[i].Default {
			return &c.Vaults[i], nil
		}
	}

	if len(c.Vaults) > 0 {
		return &c.Vaults[0], nil
	}

	return nil, fmt.Errorf("no vaults configured")
}

// ListVaults returns all vault instances
func (c *Config) ListVaults() []VaultInstance {
	if c.Vaults == nil {
		return []VaultInstance{}
	}
	return c.Vaults
}

// IsProviderEnabled checks if a credential provider is enabled
func (c *Config) IsProviderEnabled(providerName string) bool {
	switch providerName {
	case ProviderEnv:
		return c.Providers.Env != nil && c.Providers.Env.Enabled
	case ProviderAzure:
		return c.Providers.Azure != nil && c.Providers.Azure.Enabled
	case ProviderHashicorp:
		return c.Providers.Hashicorp != nil && c.Providers.Hashicorp.Enabled
	default:
		return false
	}
}

// GetEnabledProviders returns a list of enabled provider names
func (c *Config) GetEnabledProviders() []string {
	var providers []string
	for _, name := range []string{ProviderEnv, ProviderAzure, ProviderHashicorp} {
		if c.IsProviderEnabled(name) {
			providers = append(providers, name)
		}
	}
	return providers
}
