package request

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/afero"

	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/connector"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// Values of the document scope parameter.
const (
	DocumentScopeContents = "contents"
	DocumentScopeAll      = "all"
)

// DocumentRequest covers document retrieval, creation and file download
type DocumentRequest struct {
	vaultRequest

	namedFilter  string
	scope        string
	versionScope string
	search       string
	sort         string
	limit        int
	start        int

	lockDocument  bool
	migrationMode bool
	noTriggers    bool
	acceptCSV     bool
}

// NewDocumentRequest creates a document builder
func NewDocumentRequest(c *client.Client) *DocumentRequest {
	return &DocumentRequest{vaultRequest: newVaultRequest(c)}
}

// SetNamedFilter filters documents, e.g. "My Documents"
func (r *DocumentRequest) SetNamedFilter(filter string) *DocumentRequest {
	r.namedFilter = filter
	return r
}

// SetScope limits the search to contents or all
func (r *DocumentRequest) SetScope(scope string) *DocumentRequest {
	r.scope = scope
	return r
}

// SetVersionScope selects all versions or the latest one
func (r *DocumentRequest) SetVersionScope(scope string) *DocumentRequest {
	r.versionScope = scope
	return r
}

// SetSearch sets a keyword search
func (r *DocumentRequest) SetSearch(keyword string) *DocumentRequest {
	r.search = keyword
	return r
}

// SetSort sets the sort field and order, e.g. "name__v DESC"
func (r *DocumentRequest) SetSort(sort string) *DocumentRequest {
	r.sort = sort
	return r
}

// SetLimit sets the page size
func (r *DocumentRequest) SetLimit(limit int) *DocumentRequest {
	r.limit = limit
	return r
}

// SetStart sets the offset of the first document
func (r *DocumentRequest) SetStart(start int) *DocumentRequest {
	r.start = start
	return r
}

// SetLockDocument checks the document out when downloading its file
func (r *DocumentRequest) SetLockDocument(lock bool) *DocumentRequest {
	r.lockDocument = lock
	return r
}

// SetMigrationMode enables document migration mode on batch calls
func (r *DocumentRequest) SetMigrationMode(enabled bool) *DocumentRequest {
	r.migrationMode = enabled
	return r
}

// SetNoTriggers skips system triggers on batch calls
func (r *DocumentRequest) SetNoTriggers(enabled bool) *DocumentRequest {
	r.noTriggers = enabled
	return r
}

// SetAcceptCSV requests CSV results from batch calls
func (r *DocumentRequest) SetAcceptCSV(csv bool) *DocumentRequest {
	r.acceptCSV = csv
	return r
}

// SetInputPath reads the file or CSV body from path
func (r *DocumentRequest) SetInputPath(path string) *DocumentRequest {
	r.inputPath = path
	return r
}

// SetBinaryFile supplies the document content in memory
func (r *DocumentRequest) SetBinaryFile(fileName string, content []byte) *DocumentRequest {
	r.binaryName = fileName
	r.binaryContent = content
	return r
}

// SetRequestString supplies a CSV body for batch calls
func (r *DocumentRequest) SetRequestString(body string) *DocumentRequest {
	r.requestString = body
	return r
}

// SetOutputPath streams downloads to path instead of memory
func (r *DocumentRequest) SetOutputPath(path string) *DocumentRequest {
	r.outputPath = path
	return r
}

// SetFs sets the filesystem for input and output paths
func (r *DocumentRequest) SetFs(fs afero.Fs) *DocumentRequest {
	r.fs = fs
	return r
}

func documentPath(docID int, suffix string) string {
	return "/objects/documents/" + strconv.Itoa(docID) + suffix
}

// RetrieveDocumentTypes lists the document types of the vault
func (r *DocumentRequest) RetrieveDocumentTypes(ctx context.Context) (*models.DocumentTypesResponse, error) {
	resp := &models.DocumentTypesResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, "/metadata/objects/documents/types"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveAllDocuments lists the latest version of documents the user can see
func (r *DocumentRequest) RetrieveAllDocuments(ctx context.Context) (*models.DocumentsResponse, error) {
	call := client.NewCall(http.MethodGet, "/objects/documents")
	call.SetQuery("named_filter", r.namedFilter)
	call.SetQuery("scope", r.scope)
	call.SetQuery("versionscope", r.versionScope)
	call.SetQuery("search", r.search)
	call.SetQuery("sort", r.sort)
	setInt(call.Query, "limit", r.limit)
	setInt(call.Query, "start", r.start)

	resp := &models.DocumentsResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveDocument reads the latest version of a document
func (r *DocumentRequest) RetrieveDocument(ctx context.Context, docID int) (*models.DocumentResponse, error) {
	if err := validateID("doc_id", docID); err != nil {
		return nil, err
	}

	resp := &models.DocumentResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, documentPath(docID, "")), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveDocumentVersions lists the versions of a document
func (r *DocumentRequest) RetrieveDocumentVersions(ctx context.Context, docID int) (*models.DocumentVersionsResponse, error) {
	if err := validateID("doc_id", docID); err != nil {
		return nil, err
	}

	resp := &models.DocumentVersionsResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, documentPath(docID, "/versions")), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DownloadDocumentFile downloads the source file of the latest version,
// to the output path when set.
func (r *DocumentRequest) DownloadDocumentFile(ctx context.Context, docID int) (*models.VaultResponse, error) {
	if err := validateID("doc_id", docID); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodGet, documentPath(docID, "/file"))
	if r.lockDocument {
		call.Query.Set("lockDocument", "true")
	}

	resp := &models.VaultResponse{}
	if err := r.sendBinary(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateSingleDocument creates a document from the supplied file and field
// values. Without a file the fields are sent as a form, which creates
// placeholders and documents from templates.
func (r *DocumentRequest) CreateSingleDocument(ctx context.Context, fields map[string]string) (*models.DocumentResponse, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("document fields are required")
	}

	call := client.NewCall(http.MethodPost, "/objects/documents")
	setFields(call, fields)
	if r.inputPath != "" || r.binaryContent != nil {
		if err := r.attachFile(call); err != nil {
			return nil, err
		}
	}

	resp := &models.DocumentResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateSingleDocument updates field values of a document
func (r *DocumentRequest) UpdateSingleDocument(ctx context.Context, docID int, fields map[string]string) (*models.DocumentResponse, error) {
	if err := validateID("doc_id", docID); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodPut, documentPath(docID, ""))
	setFields(call, fields)

	resp := &models.DocumentResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteSingleDocument deletes all versions of a document
func (r *DocumentRequest) DeleteSingleDocument(ctx context.Context, docID int) (*models.DocumentResponse, error) {
	if err := validateID("doc_id", docID); err != nil {
		return nil, err
	}

	resp := &models.DocumentResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodDelete, documentPath(docID, "")), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateMultipleDocuments creates documents from a CSV body
func (r *DocumentRequest) CreateMultipleDocuments(ctx context.Context) (*models.DocumentBulkResponse, error) {
	return r.batch(ctx, http.MethodPost)
}

// UpdateMultipleDocuments updates documents from a CSV body
func (r *DocumentRequest) UpdateMultipleDocuments(ctx context.Context) (*models.DocumentBulkResponse, error) {
	return r.batch(ctx, http.MethodPut)
}

func (r *DocumentRequest) batch(ctx context.Context, method string) (*models.DocumentBulkResponse, error) {
	if !r.hasInput() {
		return nil, fmt.Errorf("a CSV input is required")
	}

	call := client.NewCall(method, "/objects/documents/batch")
	if err := r.attachBody(call, connector.ContentTypeCSV); err != nil {
		return nil, err
	}
	if r.migrationMode {
		call.Headers.Set(HeaderMigrationMode, "true")
	}
	if r.noTriggers {
		call.Headers.Set(HeaderNoTriggers, "true")
	}
	if r.acceptCSV {
		call.Accept = connector.ContentTypeCSV
	}

	resp := &models.DocumentBulkResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateDocumentLock checks out a document
func (r *DocumentRequest) CreateDocumentLock(ctx context.Context, docID int) (*models.DocumentLockResponse, error) {
	return r.lock(ctx, http.MethodPost, docID)
}

// DeleteDocumentLock undoes a checkout
func (r *DocumentRequest) DeleteDocumentLock(ctx context.Context, docID int) (*models.DocumentLockResponse, error) {
	return r.lock(ctx, http.MethodDelete, docID)
}

func (r *DocumentRequest) lock(ctx context.Context, method string, docID int) (*models.DocumentLockResponse, error) {
	if err := validateID("doc_id", docID); err != nil {
		return nil, err
	}

	resp := &models.DocumentLockResponse{}
	if err := r.send(ctx, client.NewCall(method, documentPath(docID, "/lock")), resp); err != nil {
		return nil, err
	}
	return resp, nil
}
