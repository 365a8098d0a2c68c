package models

// Sandbox is a sandbox vault
type Sandbox struct {
	VaultID        int                  `json:"vault_id"`
	Name           string               `json:"name"`
	Type           string               `json:"type,omitempty"`
	Size           string               `json:"size,omitempty"`
	Status         string               `json:"status,omitempty"`
	DNS            string               `json:"dns,omitempty"`
	Domain         string               `json:"domain,omitempty"`
	SourceVaultID  int                  `json:"source_vault_id,omitempty"`
	CreatedDate    string               `json:"created_date,omitempty"`
	CreatedBy      int                  `json:"created_by,omitempty"`
	ModifiedDate   string               `json:"modified_date,omitempty"`
	ModifiedBy     int                  `json:"modified_by,omitempty"`
	ExpirationDate string               `json:"expiration_date,omitempty"`
	ReleaseType    string               `json:"release,omitempty"`
	SourceSnapshot string               `json:"source_snapshot,omitempty"`
	PoolSize       int                  `json:"pool_size,omitempty"`
	Entitlements   []SandboxEntitlement `json:"entitlements,omitempty"`
}

// SandboxEntitlement is a sandbox allowance for a size
type SandboxEntitlement struct {
	Size               string `json:"size"`
	Allowance          int    `json:"allowance"`
	TemporaryAllowance int    `json:"temporary_allowance,omitempty"`
	Available          int    `json:"available"`
}

// SandboxResponse lists sandboxes and entitlements of the vault
type SandboxResponse struct {
	VaultResponse
	Data *struct {
		Entitlements []SandboxEntitlement `json:"entitlements"`
		Active       []Sandbox            `json:"active"`
	} `json:"data,omitempty"`
}

// SandboxDetailsResponse describes a single sandbox
type SandboxDetailsResponse struct {
	VaultResponse
	Data *Sandbox `json:"data,omitempty"`
}

// SandboxEntitlementResponse is returned by entitlement and size changes
type SandboxEntitlementResponse struct {
	VaultResponse
	Data *struct {
		Entitlements []SandboxEntitlement `json:"entitlements"`
	} `json:"data,omitempty"`
}

// SandboxSnapshot is a snapshot of a sandbox
type SandboxSnapshot struct {
	Name            string `json:"name"`
	APIName         string `json:"api_name"`
	Description     string `json:"description,omitempty"`
	SourceSandbox   string `json:"source_sandbox,omitempty"`
	Status          string `json:"status,omitempty"`
	Type            string `json:"type,omitempty"`
	UpdateAvailable string `json:"update_available,omitempty"`
	UpgradeStatus   string `json:"upgrade_status,omitempty"`
	TotalDataSize   int64  `json:"total_data_size,omitempty"`
	CreatedDate     string `json:"created_date,omitempty"`
	ExpirationDate  string `json:"expiration_date,omitempty"`
	VaultVersion    string `json:"vault_version,omitempty"`
}

// SandboxSnapshotResponse lists sandbox snapshots
type SandboxSnapshotResponse struct {
	VaultResponse
	Data *struct {
		Available int               `json:"available"`
		Snapshots []SandboxSnapshot `json:"snapshots"`
	} `json:"data,omitempty"`
}
