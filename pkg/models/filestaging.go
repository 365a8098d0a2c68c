package models

// StagingItem is a file or folder on the file staging server
type StagingItem struct {
	Kind           string `json:"kind"`
	Path           string `json:"path"`
	Name           string `json:"name"`
	Size           int64  `json:"size,omitempty"`
	ModifiedDate   string `json:"modified_date,omitempty"`
	FileContentMD5 string `json:"file_content_md5,omitempty"`
}

// IsFolder reports whether the item is a folder
func (i StagingItem) IsFolder() bool {
	return i.Kind == "folder"
}

// FileStagingItemBulkResponse lists items at a staging path
type FileStagingItemBulkResponse struct {
	VaultResponse
	ResponseDetails *ResponseDetails `json:"responseDetails,omitempty"`
	Data            []StagingItem    `json:"data,omitempty"`
}

// FileStagingItemResponse is returned when an item is created or updated
type FileStagingItemResponse struct {
	VaultResponse
	Data *StagingItem `json:"data,omitempty"`
}

// FileStagingJobResponse is returned by asynchronous staging operations
type FileStagingJobResponse struct {
	VaultResponse
	Data *struct {
		JobID int    `json:"job_id"`
		URL   string `json:"url"`
	} `json:"data,omitempty"`
}

// UploadSession is a resumable upload session
type UploadSession struct {
	ID               string `json:"id"`
	Path             string `json:"path,omitempty"`
	Name             string `json:"name,omitempty"`
	Size             int64  `json:"size,omitempty"`
	Overwrite        bool   `json:"overwrite,omitempty"`
	UploadedParts    int    `json:"uploaded_parts,omitempty"`
	UploadedBytes    int64  `json:"uploaded,omitempty"`
	ExpirationDate   string `json:"expiration_date,omitempty"`
	CreatedDate      string `json:"created_date,omitempty"`
	LastUploadedDate string `json:"last_uploaded_date,omitempty"`
	Owner            int    `json:"owner,omitempty"`
}

// UploadSessionResponse is returned by single upload session endpoints
type UploadSessionResponse struct {
	VaultResponse
	Data *UploadSession `json:"data,omitempty"`
}

// UploadSessionBulkResponse lists upload sessions
type UploadSessionBulkResponse struct {
	VaultResponse
	ResponseDetails *ResponseDetails `json:"responseDetails,omitempty"`
	Data            []UploadSession  `json:"data,omitempty"`
}

// UploadedPart is a part stored in an upload session
type UploadedPart struct {
	PartNumber     int    `json:"part_number"`
	Size           int64  `json:"size"`
	PartContentMD5 string `json:"part_content_md5"`
}

// UploadSessionPartResponse is returned after a part upload
type UploadSessionPartResponse struct {
	VaultResponse
	Data *UploadedPart `json:"data,omitempty"`
}

// UploadSessionPartsResponse lists parts uploaded to a session
type UploadSessionPartsResponse struct {
	VaultResponse
	ResponseDetails *ResponseDetails `json:"responseDetails,omitempty"`
	Data            []UploadedPart   `json:"data,omitempty"`
}
