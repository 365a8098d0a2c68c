package request_test

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"net/http"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylchen07/go-vapil/internal/vaulttest"
	"github.com/ylchen07/go-vapil/pkg/request"
)

func TestFileStagingRequest_ListItemsAtPath(t *testing.T) {
	srv := vaulttest.New(t)
	srv.Handle(http.MethodGet, "/api/{version}/services/file_staging/items/{path:.*}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v25.1/services/file_staging/items/u1/my%20folder", r.URL.EscapedPath())
		assert.Equal(t, "true", r.URL.Query().Get("recursive"))
		vaulttest.WriteJSON(w, http.StatusOK, vaulttest.Success(map[string]any{
			"data": []map[string]any{
				{"kind": "folder", "path": "/u1/my folder/sub", "name": "sub"},
				{"kind": "file", "path": "/u1/my folder/a.txt", "name": "a.txt", "size": 3},
			},
		}))
	})

	resp, err := request.NewFileStagingRequest(srv.NewClient(t)).
		SetRecursive(true).
		ListItemsAtPath(context.Background(), "u1/my folder")
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.True(t, resp.Data[0].IsFolder())
	assert.False(t, resp.Data[1].IsFolder())
}

func TestFileStagingRequest_DownloadItemContentRange(t *testing.T) {
	srv := vaulttest.New(t)
	srv.Handle(http.MethodGet, "/api/{version}/services/file_staging/items/content/{path:.*}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bytes=0-3", r.Header.Get("Range"))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = io.WriteString(w, "abcd")
	})

	fs := afero.NewMemMapFs()
	resp, err := request.NewFileStagingRequest(srv.NewClient(t)).
		SetByteRange("bytes=0-3").
		SetFs(fs).
		SetOutputPath("part.bin").
		DownloadItemContent(context.Background(), "u1/big.bin")
	require.NoError(t, err)
	assert.True(t, resp.IsSuccessful())
	assert.Equal(t, http.StatusPartialContent, resp.HTTPStatusCode)

	data, err := afero.ReadFile(fs, "part.bin")
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(data))
}

func TestFileStagingRequest_CreateFile(t *testing.T) {
	content := []byte("hello staging")
	sum := md5.Sum(content)

	srv := vaulttest.New(t)
	srv.Handle(http.MethodPost, "/api/{version}/services/file_staging/items", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, hex.EncodeToString(sum[:]), r.Header.Get("Content-MD5"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "file", r.FormValue("kind"))
		assert.Equal(t, "u1/hello.txt", r.FormValue("path"))
		assert.Equal(t, "true", r.FormValue("overwrite"))
		vaulttest.WriteJSON(w, http.StatusOK, vaulttest.Success(map[string]any{
			"data": map[string]any{"kind": "file", "path": "/u1/hello.txt", "name": "hello.txt", "size": len(content)},
		}))
	})

	resp, err := request.NewFileStagingRequest(srv.NewClient(t)).
		SetOverwrite(true).
		SetBinaryFile("hello.txt", content).
		CreateFolderOrFile(context.Background(), request.StagingKindFile, "u1/hello.txt")
	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "hello.txt", resp.Data.Name)
}

func TestFileStagingRequest_CreateFolderRejectsBadKind(t *testing.T) {
	srv := vaulttest.New(t)
	_, err := request.NewFileStagingRequest(srv.NewClient(t)).CreateFolderOrFile(context.Background(), "link", "u1/x")
	assert.Error(t, err)
}

func TestFileStagingRequest_ResumableUpload(t *testing.T) {
	srv := vaulttest.New(t)
	srv.Handle(http.MethodPost, "/api/{version}/services/file_staging/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "10", r.PostForm.Get("size"))
		vaulttest.WriteJSON(w, http.StatusOK, vaulttest.Success(map[string]any{
			"data": map[string]any{"id": "sess-1", "path": "/u1/big.bin", "size": 10},
		}))
	})
	srv.Handle(http.MethodPut, "/api/{version}/services/file_staging/upload/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.Header.Get(request.HeaderFilePartNumber))
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Len(t, body, 10)
		vaulttest.WriteJSON(w, http.StatusOK, vaulttest.Success(map[string]any{
			"data": map[string]any{"part_number": 1, "size": 10},
		}))
	})
	srv.HandleJSON(http.MethodPost, "/api/{version}/services/file_staging/upload/{id}", http.StatusOK, vaulttest.Success(map[string]any{
		"data": map[string]any{"job_id": 77, "url": "/api/v25.1/services/jobs/77"},
	}))

	c := srv.NewClient(t)
	staging := request.NewFileStagingRequest(c)

	session, err := staging.CreateResumableUploadSession(context.Background(), "u1/big.bin", 10)
	require.NoError(t, err)
	require.NotNil(t, session.Data)

	part, err := request.NewFileStagingRequest(c).
		SetBinaryFile("big.bin", []byte("0123456789")).
		UploadToSession(context.Background(), session.Data.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, part.Data.PartNumber)

	commit, err := staging.CommitUploadSession(context.Background(), session.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, 77, commit.Data.JobID)

	_, err = staging.UploadToSession(context.Background(), session.Data.ID, 0)
	assert.Error(t, err)
}
