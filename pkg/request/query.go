package request

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/connector"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// Values of the record properties header.
const (
	RecordPropertiesAll      = "all"
	RecordPropertiesHidden   = "hidden"
	RecordPropertiesRedacted = "redacted"
	RecordPropertiesWeblink  = "weblink"
)

// QueryRequest runs VQL queries
type QueryRequest struct {
	vaultRequest
	describeQuery    bool
	recordProperties string
	acceptCSV        bool
	maxPages         int
}

// NewQueryRequest creates a query builder
func NewQueryRequest(c *client.Client) *QueryRequest {
	return &QueryRequest{vaultRequest: newVaultRequest(c)}
}

// SetDescribeQuery includes field metadata in the response
func (r *QueryRequest) SetDescribeQuery(describe bool) *QueryRequest {
	r.describeQuery = describe
	return r
}

// SetRecordProperties requests record level properties
func (r *QueryRequest) SetRecordProperties(properties string) *QueryRequest {
	r.recordProperties = properties
	return r
}

// SetAcceptCSV requests CSV results, kept raw on the response
func (r *QueryRequest) SetAcceptCSV(csv bool) *QueryRequest {
	r.acceptCSV = csv
	return r
}

// SetMaxPages bounds QueryAll. Zero means no limit.
func (r *QueryRequest) SetMaxPages(n int) *QueryRequest {
	r.maxPages = n
	return r
}

func (r *QueryRequest) newCall(path string) *client.Call {
	call := client.NewCall(http.MethodPost, path)
	if r.describeQuery {
		call.Headers.Set(HeaderDescribeQuery, "true")
	}
	call.SetHeader(HeaderRecordProperties, r.recordProperties)
	if r.acceptCSV {
		call.Accept = connector.ContentTypeCSV
	}
	return call
}

// Query runs a VQL statement
func (r *QueryRequest) Query(ctx context.Context, vql string) (*models.QueryResponse, error) {
	if err := validateRequired(map[string]string{"q": vql}); err != nil {
		return nil, err
	}

	call := r.newCall("/query")
	call.Form.Set("q", vql)

	resp := &models.QueryResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// QueryByPage requests a next_page or previous_page URL of an earlier query
func (r *QueryRequest) QueryByPage(ctx context.Context, pageURL string) (*models.QueryResponse, error) {
	if err := validateRequired(map[string]string{"page_url": pageURL}); err != nil {
		return nil, err
	}

	resp := &models.QueryResponse{}
	if err := r.send(ctx, r.newCall(pageURL), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// QueryAll runs a query and follows next_page until every row is collected.
// The rows of all pages are returned on the first response. A failing page
// is returned as is.
func (r *QueryRequest) QueryAll(ctx context.Context, vql string) (*models.QueryResponse, error) {
	if r.acceptCSV {
		return nil, fmt.Errorf("paging is not supported for CSV results")
	}

	first, err := r.Query(ctx, vql)
	if err != nil || !first.IsSuccessful() {
		return first, err
	}

	pages := 1
	page := first
	for page.ResponseDetails.HasNextPage() {
		if r.maxPages > 0 && pages >= r.maxPages {
			break
		}
		next := page.ResponseDetails.NextPage

		page, err = r.QueryByPage(ctx, next)
		if err != nil {
			return nil, err
		}
		if !page.IsSuccessful() {
			return page, nil
		}
		first.Data = append(first.Data, page.Data...)
		pages++
	}

	remaining := ""
	if page.ResponseDetails != nil {
		remaining = page.ResponseDetails.NextPage
	}
	if first.ResponseDetails != nil {
		first.ResponseDetails.Size = len(first.Data)
		first.ResponseDetails.NextPage = remaining
	}
	return first, nil
}
