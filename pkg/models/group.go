package models

// Group is a Vault group
type Group struct {
	ID                          int64    `json:"id"`
	Name                        string   `json:"name__v,omitempty"`
	Label                       string   `json:"label__v,omitempty"`
	Description                 string   `json:"group_description__v,omitempty"`
	Active                      bool     `json:"active__v,omitempty"`
	System                      bool     `json:"system_group__v,omitempty"`
	Type                        string   `json:"type__v,omitempty"`
	Members                     []int    `json:"members__v,omitempty"`
	ImpliedMembers              []int    `json:"implied_members__v,omitempty"`
	SecurityProfiles            []string `json:"security_profiles__v,omitempty"`
	AllowDelegationAmongMembers bool     `json:"allow_delegation_among_members__v,omitempty"`
}

// GroupResponse is returned by single group endpoints
type GroupResponse struct {
	VaultResponse
	ID     int64 `json:"id,omitempty"`
	Groups []struct {
		Group Group `json:"group"`
	} `json:"groups,omitempty"`
}

// GroupRetrieveResponse is returned when listing groups
type GroupRetrieveResponse struct {
	VaultResponse
	ResponseDetails *ResponseDetails `json:"responseDetails,omitempty"`
	Groups          []struct {
		Group Group `json:"group"`
	} `json:"groups,omitempty"`
}

// MetadataResponse is returned by metadata endpoints
type MetadataResponse struct {
	VaultResponse
	Properties []struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Required bool   `json:"required"`
		Editable bool   `json:"editable"`
		Label    string `json:"label,omitempty"`
	} `json:"properties,omitempty"`
}
