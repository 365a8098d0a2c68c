package request

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/spf13/afero"

	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/connector"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// Kinds of file staging items.
const (
	StagingKindFile   = "file"
	StagingKindFolder = "folder"
)

// FileStagingRequest covers the file staging server and resumable uploads
type FileStagingRequest struct {
	vaultRequest

	recursive  *bool
	limit      int
	formatCSV  bool
	overwrite  bool
	byteRange  string
	contentMD5 string
}

// NewFileStagingRequest creates a file staging builder
func NewFileStagingRequest(c *client.Client) *FileStagingRequest {
	return &FileStagingRequest{vaultRequest: newVaultRequest(c)}
}

// SetRecursive includes nested items when listing or deleting
func (r *FileStagingRequest) SetRecursive(recursive bool) *FileStagingRequest {
	r.recursive = boolPtr(recursive)
	return r
}

// SetLimit sets the page size when listing
func (r *FileStagingRequest) SetLimit(limit int) *FileStagingRequest {
	r.limit = limit
	return r
}

// SetFormatCSV returns listings as CSV, kept raw on the response
func (r *FileStagingRequest) SetFormatCSV(csv bool) *FileStagingRequest {
	r.formatCSV = csv
	return r
}

// SetOverwrite replaces an existing file on upload
func (r *FileStagingRequest) SetOverwrite(overwrite bool) *FileStagingRequest {
	r.overwrite = overwrite
	return r
}

// SetByteRange downloads part of a file, e.g. "bytes=0-1000"
func (r *FileStagingRequest) SetByteRange(byteRange string) *FileStagingRequest {
	r.byteRange = byteRange
	return r
}

// SetContentMD5 sets the checksum of an uploaded file or part. It is
// computed from the content when not set.
func (r *FileStagingRequest) SetContentMD5(checksum string) *FileStagingRequest {
	r.contentMD5 = checksum
	return r
}

// SetInputPath reads the uploaded content from path
func (r *FileStagingRequest) SetInputPath(path string) *FileStagingRequest {
	r.inputPath = path
	return r
}

// SetBinaryFile supplies the uploaded content in memory
func (r *FileStagingRequest) SetBinaryFile(fileName string, content []byte) *FileStagingRequest {
	r.binaryName = fileName
	r.binaryContent = content
	return r
}

// SetOutputPath streams downloads to path instead of memory
func (r *FileStagingRequest) SetOutputPath(path string) *FileStagingRequest {
	r.outputPath = path
	return r
}

// SetFs sets the filesystem for input and output paths
func (r *FileStagingRequest) SetFs(fs afero.Fs) *FileStagingRequest {
	r.fs = fs
	return r
}

func checksum(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// ListItemsAtPath lists files and folders under a staging path
func (r *FileStagingRequest) ListItemsAtPath(ctx context.Context, itemPath string) (*models.FileStagingItemBulkResponse, error) {
	call := client.NewCall(http.MethodGet, "/services/file_staging/items/"+escapePath(itemPath))
	setBool(call.Query, "recursive", r.recursive)
	setInt(call.Query, "limit", r.limit)
	if r.formatCSV {
		call.Query.Set("format_result", "csv")
	}

	resp := &models.FileStagingItemBulkResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DownloadItemContent downloads a staged file, to the output path when set
func (r *FileStagingRequest) DownloadItemContent(ctx context.Context, itemPath string) (*models.VaultResponse, error) {
	if err := validateRequired(map[string]string{"item": itemPath}); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodGet, "/services/file_staging/items/content/"+escapePath(itemPath))
	call.SetHeader(HeaderRange, r.byteRange)

	resp := &models.VaultResponse{}
	if err := r.sendBinary(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateFolderOrFile creates a folder, or uploads a file of up to 50 MB
func (r *FileStagingRequest) CreateFolderOrFile(ctx context.Context, kind, itemPath string) (*models.FileStagingItemResponse, error) {
	if err := validateRequired(map[string]string{"kind": kind, "path": itemPath}); err != nil {
		return nil, err
	}
	if kind != StagingKindFile && kind != StagingKindFolder {
		return nil, fmt.Errorf("kind must be %s or %s", StagingKindFile, StagingKindFolder)
	}

	call := client.NewCall(http.MethodPost, "/services/file_staging/items")
	call.Form.Set("kind", kind)
	call.Form.Set("path", itemPath)
	if r.overwrite {
		call.Form.Set("overwrite", "true")
	}

	if kind == StagingKindFile {
		data, name, err := r.readInput()
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = path.Base(itemPath)
		}
		md5sum := r.contentMD5
		if md5sum == "" {
			md5sum = checksum(data)
		}
		call.Headers.Set(HeaderContentMD5, md5sum)
		call.AddFile("file", name, bytes.NewReader(data))
	}

	resp := &models.FileStagingItemResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateFolderOrFile moves or renames a staged item
func (r *FileStagingRequest) UpdateFolderOrFile(ctx context.Context, itemPath, parent, name string) (*models.FileStagingJobResponse, error) {
	if err := validateRequired(map[string]string{"item": itemPath}); err != nil {
		return nil, err
	}
	if parent == "" && name == "" {
		return nil, fmt.Errorf("parent or name is required")
	}

	call := client.NewCall(http.MethodPut, "/services/file_staging/items/"+escapePath(itemPath))
	call.SetForm("parent", parent)
	call.SetForm("name", name)

	resp := &models.FileStagingJobResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteFileOrFolder deletes a staged item
func (r *FileStagingRequest) DeleteFileOrFolder(ctx context.Context, itemPath string) (*models.FileStagingJobResponse, error) {
	if err := validateRequired(map[string]string{"item": itemPath}); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodDelete, "/services/file_staging/items/"+escapePath(itemPath))
	setBool(call.Query, "recursive", r.recursive)

	resp := &models.FileStagingJobResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateResumableUploadSession starts a multi-part upload of size bytes
func (r *FileStagingRequest) CreateResumableUploadSession(ctx context.Context, itemPath string, size int64) (*models.UploadSessionResponse, error) {
	if err := validateRequired(map[string]string{"path": itemPath}); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("size must be positive")
	}

	call := client.NewCall(http.MethodPost, "/services/file_staging/upload")
	call.Form.Set("path", itemPath)
	call.Form.Set("size", strconv.FormatInt(size, 10))
	if r.overwrite {
		call.Form.Set("overwrite", "true")
	}

	resp := &models.UploadSessionResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UploadToSession uploads one part of a resumable upload
func (r *FileStagingRequest) UploadToSession(ctx context.Context, sessionID string, partNumber int) (*models.UploadSessionPartResponse, error) {
	if err := validateRequired(map[string]string{"upload_session_id": sessionID}); err != nil {
		return nil, err
	}
	if err := validateID("part_number", partNumber); err != nil {
		return nil, err
	}

	data, _, err := r.readInput()
	if err != nil {
		return nil, err
	}
	md5sum := r.contentMD5
	if md5sum == "" {
		md5sum = checksum(data)
	}

	call := client.NewCall(http.MethodPut, "/services/file_staging/upload/"+escapePath(sessionID))
	call.Body = data
	call.ContentType = connector.ContentTypeOctetStream
	call.Headers.Set(HeaderFilePartNumber, strconv.Itoa(partNumber))
	call.Headers.Set(HeaderContentMD5, md5sum)

	resp := &models.UploadSessionPartResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CommitUploadSession assembles the uploaded parts into the staged file
func (r *FileStagingRequest) CommitUploadSession(ctx context.Context, sessionID string) (*models.FileStagingJobResponse, error) {
	if err := validateRequired(map[string]string{"upload_session_id": sessionID}); err != nil {
		return nil, err
	}

	resp := &models.FileStagingJobResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodPost, "/services/file_staging/upload/"+escapePath(sessionID)), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListUploadSessions lists the active upload sessions
func (r *FileStagingRequest) ListUploadSessions(ctx context.Context) (*models.UploadSessionBulkResponse, error) {
	resp := &models.UploadSessionBulkResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, "/services/file_staging/upload"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetUploadSessionDetails reads an upload session
func (r *FileStagingRequest) GetUploadSessionDetails(ctx context.Context, sessionID string) (*models.UploadSessionResponse, error) {
	if err := validateRequired(map[string]string{"upload_session_id": sessionID}); err != nil {
		return nil, err
	}

	resp := &models.UploadSessionResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, "/services/file_staging/upload/"+escapePath(sessionID)), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListFilePartsUploadedToSession lists the parts uploaded so far
func (r *FileStagingRequest) ListFilePartsUploadedToSession(ctx context.Context, sessionID string) (*models.UploadSessionPartsResponse, error) {
	if err := validateRequired(map[string]string{"upload_session_id": sessionID}); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodGet, "/services/file_staging/upload/"+escapePath(sessionID)+"/parts")
	setInt(call.Query, "limit", r.limit)

	resp := &models.UploadSessionPartsResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AbortUploadSession discards an upload session and its parts
func (r *FileStagingRequest) AbortUploadSession(ctx context.Context, sessionID string) (*models.VaultResponse, error) {
	if err := validateRequired(map[string]string{"upload_session_id": sessionID}); err != nil {
		return nil, err
	}

	resp := &models.VaultResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodDelete, "/services/file_staging/upload/"+escapePath(sessionID)), resp); err != nil {
		return nil, err
	}
	return resp, nil
}
