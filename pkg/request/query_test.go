package request_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylchen07/go-vapil/internal/vaulttest"
	"github.com/ylchen07/go-vapil/pkg/request"
)

func TestQueryRequest_Query(t *testing.T) {
	srv := vaulttest.New(t)
	srv.Handle(http.MethodPost, "/api/{version}/query", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "SELECT id FROM documents", r.PostForm.Get("q"))
		assert.Equal(t, "true", r.Header.Get(request.HeaderDescribeQuery))
		assert.Equal(t, request.RecordPropertiesAll, r.Header.Get(request.HeaderRecordProperties))
		vaulttest.WriteJSON(w, http.StatusOK, vaulttest.Success(map[string]any{
			"responseDetails": map[string]any{"pagesize": 1000, "pageoffset": 0, "size": 1, "total": 1},
			"queryDescribe":   map[string]any{"object": map[string]any{"name": "documents"}},
			"data":            []map[string]any{{"id": 5}},
		}))
	})

	resp, err := request.NewQueryRequest(srv.NewClient(t)).
		SetDescribeQuery(true).
		SetRecordProperties(request.RecordPropertiesAll).
		Query(context.Background(), "SELECT id FROM documents")
	require.NoError(t, err)
	assert.True(t, resp.IsSuccessful())
	require.NotNil(t, resp.QueryDescribe)
	assert.Equal(t, "documents", resp.QueryDescribe.Object.Name)
	assert.Len(t, resp.Data, 1)
}

func TestQueryRequest_CSV(t *testing.T) {
	srv := vaulttest.New(t)
	srv.Handle(http.MethodPost, "/api/{version}/query", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/csv", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/csv;charset=UTF-8")
		_, _ = io.WriteString(w, "id\n5\n")
	})

	resp, err := request.NewQueryRequest(srv.NewClient(t)).
		SetAcceptCSV(true).
		Query(context.Background(), "SELECT id FROM documents")
	require.NoError(t, err)
	assert.True(t, resp.IsSuccessful())
	assert.Equal(t, "id\n5\n", string(resp.Raw))
}

func TestQueryRequest_QueryAll(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodPost, "/api/{version}/query", http.StatusOK, vaulttest.Success(map[string]any{
		"responseDetails": map[string]any{"pagesize": 2, "size": 2, "total": 5, "next_page": "/api/v25.1/query/q1?pagesize=2&pageoffset=2"},
		"data":            []map[string]any{{"id": 1}, {"id": 2}},
	}))
	srv.Handle(http.MethodPost, "/api/{version}/query/{queryID}", func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("pageoffset")
		details := map[string]any{"pagesize": 2, "size": 2, "total": 5}
		data := []map[string]any{{"id": 3}, {"id": 4}}
		if offset == "2" {
			details["next_page"] = "/api/v25.1/query/q1?pagesize=2&pageoffset=4"
		} else {
			details["size"] = 1
			data = []map[string]any{{"id": 5}}
		}
		vaulttest.WriteJSON(w, http.StatusOK, vaulttest.Success(map[string]any{"responseDetails": details, "data": data}))
	})

	resp, err := request.NewQueryRequest(srv.NewClient(t)).QueryAll(context.Background(), "SELECT id FROM documents")
	require.NoError(t, err)
	require.True(t, resp.IsSuccessful())
	assert.Len(t, resp.Data, 5)
	assert.Equal(t, 5, resp.ResponseDetails.Size)
	assert.False(t, resp.ResponseDetails.HasNextPage())
	assert.Len(t, srv.Requests(), 3)

	type row struct {
		ID int `json:"id"`
	}
	var rows []row
	require.NoError(t, resp.DecodeData(&rows))
	for i, r := range rows {
		assert.Equal(t, i+1, r.ID, "row %d", i)
	}
}

func TestQueryRequest_QueryAllMaxPages(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodPost, "/api/{version}/query", http.StatusOK, vaulttest.Success(map[string]any{
		"responseDetails": map[string]any{"size": 1, "next_page": "/api/v25.1/query/q1?pageoffset=1"},
		"data":            []map[string]any{{"id": 1}},
	}))

	resp, err := request.NewQueryRequest(srv.NewClient(t)).SetMaxPages(1).QueryAll(context.Background(), "SELECT id FROM documents")
	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.True(t, resp.ResponseDetails.HasNextPage())
}

func TestQueryRequest_QueryAllStopsOnFailedPage(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodPost, "/api/{version}/query", http.StatusOK, vaulttest.Success(map[string]any{
		"responseDetails": map[string]any{"next_page": "/api/v25.1/query/q1?pageoffset=1"},
		"data":            []map[string]any{{"id": 1}},
	}))
	srv.HandleJSON(http.MethodPost, "/api/{version}/query/{queryID}", http.StatusOK,
		vaulttest.Failure("MALFORMED_URL", "The specified page does not exist"))

	resp, err := request.NewQueryRequest(srv.NewClient(t)).QueryAll(context.Background(), "SELECT id FROM documents")
	require.NoError(t, err)
	assert.False(t, resp.IsSuccessful())
	assert.True(t, resp.HasErrorType("MALFORMED_URL"))
}

func TestQueryRequest_RequiresVQL(t *testing.T) {
	srv := vaulttest.New(t)
	_, err := request.NewQueryRequest(srv.NewClient(t)).Query(context.Background(), "")
	require.Error(t, err)
	assert.Empty(t, srv.Requests())

	_, err = request.NewQueryRequest(srv.NewClient(t)).SetAcceptCSV(true).QueryAll(context.Background(), "SELECT id FROM documents")
	assert.Error(t, err)
}
