package models

// ObjectRecordResult is the per record outcome of a bulk object request
type ObjectRecordResult struct {
	ResponseStatus string `json:"responseStatus"`
	Data           *struct {
		ID  string `json:"id"`
		URL string `json:"url,omitempty"`
	} `json:"data,omitempty"`
	Errors   []VaultError   `json:"errors,omitempty"`
	Warnings []VaultWarning `json:"warnings,omitempty"`
}

// ObjectRecordBulkResponse is returned by bulk create, update and delete
type ObjectRecordBulkResponse struct {
	VaultResponse
	Data []ObjectRecordResult `json:"data,omitempty"`
}

// SucceededIDs returns the ids of records that were processed
func (r *ObjectRecordBulkResponse) SucceededIDs() []string {
	var ids []string
	for _, d := range r.Data {
		if d.ResponseStatus == StatusSuccess && d.Data != nil {
			ids = append(ids, d.Data.ID)
		}
	}
	return ids
}

// ObjectRecordResponse is returned when reading a single record
type ObjectRecordResponse struct {
	VaultResponse
	Data     map[string]any `json:"data,omitempty"`
	Manifest map[string]any `json:"manifest,omitempty"`
}

// ObjectCollectionResponse lists the objects configured in the vault
type ObjectCollectionResponse struct {
	VaultResponse
	Objects []struct {
		Name        string   `json:"name"`
		Label       string   `json:"label"`
		LabelPlural string   `json:"label_plural"`
		URL         string   `json:"url"`
		Status      []string `json:"status,omitempty"`
		InMenu      bool     `json:"in_menu,omitempty"`
	} `json:"objects,omitempty"`
}

// ObjectMetadataResponse describes an object and its fields
type ObjectMetadataResponse struct {
	VaultResponse
	Object *struct {
		Name        string           `json:"name"`
		Label       string           `json:"label"`
		LabelPlural string           `json:"label_plural"`
		Status      []string         `json:"status,omitempty"`
		Fields      []map[string]any `json:"fields,omitempty"`
	} `json:"object,omitempty"`
}

// AuditTypesResponse lists the audit trail types available for export
type AuditTypesResponse struct {
	VaultResponse
	AuditTrailTypes []struct {
		Name  string `json:"name"`
		Label string `json:"label"`
		URL   string `json:"url"`
	} `json:"audittrail,omitempty"`
}
