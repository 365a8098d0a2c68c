package request

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/afero"

	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/connector"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// ObjectRecordRequest covers Vault object metadata and records
type ObjectRecordRequest struct {
	vaultRequest

	records       []map[string]any
	contentType   string
	idParam       string
	migrationMode bool
	noTriggers    bool
	acceptCSV     bool
	loc           bool
}

// NewObjectRecordRequest creates an object record builder
func NewObjectRecordRequest(c *client.Client) *ObjectRecordRequest {
	return &ObjectRecordRequest{vaultRequest: newVaultRequest(c)}
}

// SetRecords sends the records as a JSON body
func (r *ObjectRecordRequest) SetRecords(records []map[string]any) *ObjectRecordRequest {
	r.records = records
	return r
}

// SetContentTypeCSV sends the input path or request string as CSV. JSON is
// assumed otherwise.
func (r *ObjectRecordRequest) SetContentTypeCSV(csv bool) *ObjectRecordRequest {
	if csv {
		r.contentType = connector.ContentTypeCSV
	} else {
		r.contentType = connector.ContentTypeJSON
	}
	return r
}

// SetInputPath reads the body from path
func (r *ObjectRecordRequest) SetInputPath(path string) *ObjectRecordRequest {
	r.inputPath = path
	return r
}

// SetRequestString supplies the body as a string
func (r *ObjectRecordRequest) SetRequestString(body string) *ObjectRecordRequest {
	r.requestString = body
	return r
}

// SetFs sets the filesystem for the input path
func (r *ObjectRecordRequest) SetFs(fs afero.Fs) *ObjectRecordRequest {
	r.fs = fs
	return r
}

// SetIDParam identifies records by a unique field instead of id, e.g. external_id__v
func (r *ObjectRecordRequest) SetIDParam(field string) *ObjectRecordRequest {
	r.idParam = field
	return r
}

// SetMigrationMode enables record migration mode
func (r *ObjectRecordRequest) SetMigrationMode(enabled bool) *ObjectRecordRequest {
	r.migrationMode = enabled
	return r
}

// SetNoTriggers skips system triggers
func (r *ObjectRecordRequest) SetNoTriggers(enabled bool) *ObjectRecordRequest {
	r.noTriggers = enabled
	return r
}

// SetAcceptCSV requests CSV results, kept raw on the response
func (r *ObjectRecordRequest) SetAcceptCSV(csv bool) *ObjectRecordRequest {
	r.acceptCSV = csv
	return r
}

// SetLoc requests localized metadata labels
func (r *ObjectRecordRequest) SetLoc(loc bool) *ObjectRecordRequest {
	r.loc = loc
	return r
}

func objectPath(objectName string) string {
	return "/vobjects/" + url.PathEscape(objectName)
}

// RetrieveObjectCollection lists the objects of the vault
func (r *ObjectRecordRequest) RetrieveObjectCollection(ctx context.Context) (*models.ObjectCollectionResponse, error) {
	call := client.NewCall(http.MethodGet, "/metadata/vobjects")
	if r.loc {
		call.Query.Set("loc", "true")
	}

	resp := &models.ObjectCollectionResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveObjectMetadata describes an object and its fields
func (r *ObjectRecordRequest) RetrieveObjectMetadata(ctx context.Context, objectName string) (*models.ObjectMetadataResponse, error) {
	if err := validateRequired(map[string]string{"object_name": objectName}); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodGet, "/metadata"+objectPath(objectName))
	if r.loc {
		call.Query.Set("loc", "true")
	}

	resp := &models.ObjectMetadataResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveObjectRecord reads a record
func (r *ObjectRecordRequest) RetrieveObjectRecord(ctx context.Context, objectName, recordID string) (*models.ObjectRecordResponse, error) {
	if err := validateRequired(map[string]string{"object_name": objectName, "record_id": recordID}); err != nil {
		return nil, err
	}

	resp := &models.ObjectRecordResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, objectPath(objectName)+"/"+url.PathEscape(recordID)), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateObjectRecords creates up to 500 records
func (r *ObjectRecordRequest) CreateObjectRecords(ctx context.Context, objectName string) (*models.ObjectRecordBulkResponse, error) {
	return r.bulk(ctx, http.MethodPost, objectName)
}

// UpdateObjectRecords updates up to 500 records
func (r *ObjectRecordRequest) UpdateObjectRecords(ctx context.Context, objectName string) (*models.ObjectRecordBulkResponse, error) {
	return r.bulk(ctx, http.MethodPut, objectName)
}

// DeleteObjectRecords deletes up to 500 records
func (r *ObjectRecordRequest) DeleteObjectRecords(ctx context.Context, objectName string) (*models.ObjectRecordBulkResponse, error) {
	return r.bulk(ctx, http.MethodDelete, objectName)
}

func (r *ObjectRecordRequest) bulk(ctx context.Context, method, objectName string) (*models.ObjectRecordBulkResponse, error) {
	if err := validateRequired(map[string]string{"object_name": objectName}); err != nil {
		return nil, err
	}

	call := client.NewCall(method, objectPath(objectName))
	switch {
	case r.records != nil:
		call.JSON = r.records
	case r.hasInput():
		contentType := r.contentType
		if contentType == "" {
			contentType = connector.ContentTypeJSON
		}
		if err := r.attachBody(call, contentType); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("records or an input body are required")
	}

	call.SetQuery("idParam", r.idParam)
	if r.migrationMode {
		call.Headers.Set(HeaderMigrationMode, "true")
	}
	if r.noTriggers {
		call.Headers.Set(HeaderNoTriggers, "true")
	}
	if r.acceptCSV {
		call.Accept = connector.ContentTypeCSV
	}

	resp := &models.ObjectRecordBulkResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
