package models

import "encoding/json"

// Document holds the standard document fields. Custom fields land in Fields.
type Document struct {
	ID                 int            `json:"id"`
	Name               string         `json:"name__v,omitempty"`
	Title              string         `json:"title__v,omitempty"`
	Type               string         `json:"type__v,omitempty"`
	Subtype            string         `json:"subtype__v,omitempty"`
	Classification     string         `json:"classification__v,omitempty"`
	Lifecycle          string         `json:"lifecycle__v,omitempty"`
	Status             string         `json:"status__v,omitempty"`
	DocumentNumber     string         `json:"document_number__v,omitempty"`
	MajorVersionNumber int            `json:"major_version_number__v,omitempty"`
	MinorVersionNumber int            `json:"minor_version_number__v,omitempty"`
	Filename           string         `json:"filename__v,omitempty"`
	Fields             map[string]any `json:"-"`
}

// UnmarshalJSON keeps every field of the payload in Fields besides the typed ones.
func (d *Document) UnmarshalJSON(b []byte) error {
	type plain Document
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*d = Document(p)
	d.Fields = fields
	return nil
}

// DocumentVersion is an entry of the versions array
type DocumentVersion struct {
	Number string `json:"number"`
	Value  string `json:"value"`
}

// DocumentResponse is returned by single document endpoints
type DocumentResponse struct {
	VaultResponse
	ID         int               `json:"id,omitempty"`
	Document   *Document         `json:"document,omitempty"`
	Versions   []DocumentVersion `json:"versions,omitempty"`
	Renditions *struct {
		ViewableRendition string `json:"viewable_rendition__v,omitempty"`
	} `json:"renditions,omitempty"`
	MajorVersionNumber int `json:"major_version_number__v,omitempty"`
	MinorVersionNumber int `json:"minor_version_number__v,omitempty"`
}

// DocumentsResponse is returned when listing documents
type DocumentsResponse struct {
	VaultResponse
	Size      int    `json:"size,omitempty"`
	Start     int    `json:"start,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Sort      string `json:"sort,omitempty"`
	Documents []struct {
		Document Document `json:"document"`
	} `json:"documents,omitempty"`
}

// DocumentTypesResponse lists the document types configured in the vault
type DocumentTypesResponse struct {
	VaultResponse
	Types []struct {
		Label string `json:"label"`
		Value string `json:"value"`
	} `json:"types,omitempty"`
	Lock string `json:"lock,omitempty"`
}

// DocumentVersionsResponse lists the versions of a document
type DocumentVersionsResponse struct {
	VaultResponse
	Versions   []DocumentVersion `json:"versions,omitempty"`
	Renditions map[string]any    `json:"renditions,omitempty"`
}

// DocumentBulkResponse is returned by the CSV batch endpoints
type DocumentBulkResponse struct {
	VaultResponse
	Data []struct {
		ResponseStatus     string       `json:"responseStatus"`
		ID                 int          `json:"id,omitempty"`
		ExternalID         string       `json:"external_id__v,omitempty"`
		MajorVersionNumber int          `json:"major_version_number__v,omitempty"`
		MinorVersionNumber int          `json:"minor_version_number__v,omitempty"`
		Errors             []VaultError `json:"errors,omitempty"`
	} `json:"data,omitempty"`
}

// FailedCount returns how many rows of a batch were rejected
func (r *DocumentBulkResponse) FailedCount() int {
	n := 0
	for _, d := range r.Data {
		if d.ResponseStatus == StatusFailure {
			n++
		}
	}
	return n
}

// DocumentLockResponse is returned by document lock endpoints
type DocumentLockResponse struct {
	VaultResponse
	Lock *struct {
		LockedBy   int    `json:"locked_by__v"`
		LockedDate string `json:"locked_date__v"`
	} `json:"lock,omitempty"`
}
