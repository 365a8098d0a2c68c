package models

import "strconv"

// SCIM schema URNs used by Vault.
const (
	ScimSchemaUser           = "urn:ietf:params:scim:schemas:core:2.0:User"
	ScimSchemaEnterpriseUser = "urn:ietf:params:scim:schemas:extension:enterprise:2.0:User"
	ScimSchemaVaultUser      = "urn:ietf:params:scim:schemas:extension:veevavault:2.0:User"
	ScimSchemaList           = "urn:ietf:params:scim:api:messages:2.0:ListResponse"
)

// ScimResponse is the base of SCIM responses. SCIM endpoints do not report a
// responseStatus, so failures are described by the SCIM error schema instead.
// The schemas array is left to the embedding resource type.
type ScimResponse struct {
	VaultResponse
	Detail   string `json:"detail,omitempty"`
	ScimType string `json:"scimType,omitempty"`
	Status   string `json:"status,omitempty"`
}

// FailureDetail returns the error entry described by a SCIM error payload.
func (r *ScimResponse) FailureDetail() (string, string, bool) {
	if r.Detail == "" && r.Status == "" {
		return "", "", false
	}

	errorType := r.ScimType
	if errorType == "" {
		if code, err := strconv.Atoi(r.Status); err == nil {
			errorType = "HTTP_" + strconv.Itoa(code)
		} else {
			errorType = ErrorTypeHTTPError
		}
	}
	return errorType, r.Detail, true
}

// ScimName is the name block of a SCIM user
type ScimName struct {
	Formatted  string `json:"formatted,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
	GivenName  string `json:"givenName,omitempty"`
}

// ScimValue is a typed multi-valued attribute entry
type ScimValue struct {
	Value   string `json:"value,omitempty"`
	Type    string `json:"type,omitempty"`
	Primary bool   `json:"primary,omitempty"`
	Display string `json:"display,omitempty"`
}

// ScimMeta is the meta block of SCIM resources
type ScimMeta struct {
	ResourceType string `json:"resourceType,omitempty"`
	Created      string `json:"created,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
	Location     string `json:"location,omitempty"`
}

// ScimUser is a SCIM user resource
type ScimUser struct {
	Schemas           []string       `json:"schemas,omitempty"`
	ID                string         `json:"id,omitempty"`
	ExternalID        string         `json:"externalId,omitempty"`
	UserName          string         `json:"userName,omitempty"`
	Name              *ScimName      `json:"name,omitempty"`
	DisplayName       string         `json:"displayName,omitempty"`
	Active            *bool          `json:"active,omitempty"`
	Emails            []ScimValue    `json:"emails,omitempty"`
	Locale            string         `json:"locale,omitempty"`
	PreferredLanguage string         `json:"preferredLanguage,omitempty"`
	Timezone          string         `json:"timezone,omitempty"`
	Groups            []ScimValue    `json:"groups,omitempty"`
	Meta              *ScimMeta      `json:"meta,omitempty"`
	Enterprise        map[string]any `json:"urn:ietf:params:scim:schemas:extension:enterprise:2.0:User,omitempty"`
	Vault             map[string]any `json:"urn:ietf:params:scim:schemas:extension:veevavault:2.0:User,omitempty"`
}

// ScimUserResponse is returned by single user SCIM endpoints
type ScimUserResponse struct {
	ScimResponse
	ScimUser
}

// ScimUserListResponse is returned when listing users through SCIM
type ScimUserListResponse struct {
	ScimResponse
	TotalResults int        `json:"totalResults,omitempty"`
	ItemsPerPage int        `json:"itemsPerPage,omitempty"`
	StartIndex   int        `json:"startIndex,omitempty"`
	Resources    []ScimUser `json:"Resources,omitempty"`
}

// ScimServiceProviderResponse describes the SCIM features supported by Vault
type ScimServiceProviderResponse struct {
	ScimResponse
	DocumentationURI string `json:"documentationUri,omitempty"`
	Patch            struct {
		Supported bool `json:"supported"`
	} `json:"patch"`
	Bulk struct {
		Supported      bool `json:"supported"`
		MaxOperations  int  `json:"maxOperations"`
		MaxPayloadSize int  `json:"maxPayloadSize"`
	} `json:"bulk"`
	Filter struct {
		Supported  bool `json:"supported"`
		MaxResults int  `json:"maxResults"`
	} `json:"filter"`
	Sort struct {
		Supported bool `json:"supported"`
	} `json:"sort"`
	AuthenticationSchemes []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"authenticationSchemes,omitempty"`
}

// ScimSchema describes a SCIM schema and its attributes
type ScimSchema struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Attributes  []map[string]any `json:"attributes,omitempty"`
	Meta        *ScimMeta        `json:"meta,omitempty"`
}

// ScimSchemaResponse is returned when reading a single schema
type ScimSchemaResponse struct {
	ScimResponse
	ScimSchema
}

// ScimSchemaListResponse lists all schemas
type ScimSchemaListResponse struct {
	ScimResponse
	TotalResults int          `json:"totalResults,omitempty"`
	Resources    []ScimSchema `json:"Resources,omitempty"`
}

// ScimResourceType describes a SCIM resource type
type ScimResourceType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Endpoint    string    `json:"endpoint"`
	Description string    `json:"description,omitempty"`
	Schema      string    `json:"schema"`
	Meta        *ScimMeta `json:"meta,omitempty"`
}

// ScimResourceTypeResponse is returned when reading a single resource type
type ScimResourceTypeResponse struct {
	ScimResponse
	ScimResourceType
}

// ScimResourceTypeListResponse lists all resource types
type ScimResourceTypeListResponse struct {
	ScimResponse
	TotalResults int                `json:"totalResults,omitempty"`
	Resources    []ScimResourceType `json:"Resources,omitempty"`
}

// ScimCreateResponse is returned after a user is created or updated
type ScimCreateResponse struct {
	ScimResponse
	ID string `json:"id,omitempty"`
}
