package client_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/ylchen07/go-vapil/internal/vaulttest"
	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/models"
)

func TestAuthenticate_Basic(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleAuth("new-session")

	c, err := client.New(srv.Settings())
	require.NoError(t, err)

	resp, err := c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.IsSuccessful())
	assert.Equal(t, "new-session", c.SessionID())
	assert.True(t, c.IsAuthenticated())
	assert.Same(t, resp, c.AuthenticationResponse())

	req := srv.LastRequest(t)
	assert.Equal(t, "/api/v25.1/auth", req.Path)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Equal(t, vaulttest.ClientID, req.Header.Get("X-VaultAPI-ClientID"))
	assert.Contains(t, string(req.Body), "vaultDNS=test.veevavault.com")
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleAuth("new-session")

	settings := srv.Settings()
	settings.Password = "wrong"
	c, err := client.New(settings)
	require.NoError(t, err)

	resp, err := c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.IsSuccessful())
	assert.True(t, resp.HasErrorType("USERNAME_OR_PASSWORD_INCORRECT"))
	assert.False(t, c.IsAuthenticated())
}

func TestAuthenticate_DNSMismatch(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodPost, "/api/{version}/auth", http.StatusOK,
		vaulttest.AuthSuccess("other-session", "https://other.veevavault.com"))

	c, err := client.New(srv.Settings())
	require.NoError(t, err)

	resp, err := c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.IsSuccessful())
	assert.True(t, resp.HasErrorType(models.ErrorTypeInvalidDNS))
	assert.Empty(t, resp.SessionID)
	assert.False(t, c.IsAuthenticated())
}

func TestAuthenticate_OAuth(t *testing.T) {
	srv := vaulttest.New(t)
	srv.Handle(http.MethodPost, "/auth/oauth/session/{profile}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, vaulttest.ClientID, r.PostForm.Get("client_id"))
		assert.Equal(t, vaulttest.VaultDNS, r.PostForm.Get("vaultDNS"))
		vaulttest.WriteJSON(w, http.StatusOK, vaulttest.AuthSuccess("oauth-session", "https://"+vaulttest.VaultDNS))
	})

	settings := srv.Settings()
	settings.AuthType = client.AuthTypeOAuthAccessToken
	settings.OAuthProfileID = "0oa1"
	settings.TokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "token-123"})

	c, err := client.New(settings)
	require.NoError(t, err)

	resp, err := c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.IsSuccessful())
	assert.Equal(t, "oauth-session", c.SessionID())
	assert.Equal(t, "/auth/oauth/session/0oa1", srv.LastRequest(t).Path)
}

func TestAuthenticate_SessionIDWithValidation(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodGet, "/api/{version}/objects/users/me", http.StatusOK, vaulttest.Success(map[string]any{
		"users": []map[string]any{{"user": map[string]any{"id": 42, "user_name__v": "alice@test.com"}}},
	}))

	settings := srv.Settings()
	settings.AuthType = client.AuthTypeSessionID
	settings.SessionID = "existing"
	settings.ValidateSession = true

	c, err := client.New(settings)
	require.NoError(t, err)

	resp, err := c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.IsSuccessful())
	assert.Equal(t, 42, resp.UserID)
	assert.Equal(t, "existing", srv.LastRequest(t).Header.Get("Authorization"))
}

func TestSend_InjectsHeaders(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodGet, "/api/{version}/objects/documents", http.StatusOK, vaulttest.Success(nil))

	c := srv.NewClient(t)
	ctx := client.ContextWithReferenceID(context.Background(), "ref-1")

	resp := &models.DocumentsResponse{}
	require.NoError(t, c.Send(ctx, client.NewCall(http.MethodGet, "/objects/documents"), resp))
	assert.True(t, resp.IsSuccessful())

	req := srv.LastRequest(t)
	assert.Equal(t, vaulttest.SessionID, req.Header.Get("Authorization"))
	assert.Equal(t, vaulttest.ClientID, req.Header.Get("X-VaultAPI-ClientID"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "ref-1", req.Header.Get("X-VaultAPI-ReferenceId"))
}

func TestSend_GeneratesReferenceID(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodGet, "/api/{version}/objects/documents", http.StatusOK, vaulttest.Success(nil))

	settings := srv.Settings()
	settings.GenerateReferenceID = true
	c, err := client.New(settings)
	require.NoError(t, err)

	require.NoError(t, c.Send(context.Background(), client.NewCall(http.MethodGet, "/objects/documents"), &models.DocumentsResponse{}))
	assert.Len(t, srv.LastRequest(t).Header.Get("X-VaultAPI-ReferenceId"), 36)
}

func TestSend_Classification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantStatus  string
		wantError   string
		wantRaw     string
	}{
		{
			name:        "success payload",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"responseStatus":"SUCCESS"}`,
			wantStatus:  models.StatusSuccess,
		},
		{
			name:        "warning counts as success",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"responseStatus":"WARNING","warnings":[{"type":"W","message":"m"}]}`,
			wantStatus:  models.StatusWarning,
		},
		{
			name:        "failure payload",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"responseStatus":"FAILURE","errors":[{"type":"INVALID_DATA","message":"bad"}]}`,
			wantStatus:  models.StatusFailure,
			wantError:   models.ErrorTypeInvalidData,
		},
		{
			name:        "unparseable json",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"responseStatus":`,
			wantStatus:  models.StatusFailure,
			wantError:   models.ErrorTypeParseError,
		},
		{
			name:        "csv kept raw",
			status:      http.StatusOK,
			contentType: "text/csv",
			body:        "id,name__v\n1,foo\n",
			wantStatus:  models.StatusSuccess,
			wantRaw:     "id,name__v\n1,foo\n",
		},
		{
			name:        "no status on error code",
			status:      http.StatusInternalServerError,
			contentType: "text/html",
			body:        "<html>oops</html>",
			wantStatus:  models.StatusFailure,
			wantError:   models.ErrorTypeHTTPError,
			wantRaw:     "<html>oops</html>",
		},
		{
			name:        "success body on error code",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"responseStatus":"SUCCESS"}`,
			wantStatus:  models.StatusFailure,
			wantError:   models.ErrorTypeHTTPError,
		},
		{
			name:       "empty body",
			status:     http.StatusNoContent,
			wantStatus: models.StatusSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := vaulttest.New(t)
			srv.Handle(http.MethodGet, "/api/{version}/test", func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.Header().Set("X-VaultAPI-BurstLimitRemaining", "1999")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			resp := &models.QueryResponse{}
			err := srv.NewClient(t).Send(context.Background(), client.NewCall(http.MethodGet, "/test"), resp)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.ResponseStatus)
			assert.Equal(t, tt.status, resp.HTTPStatusCode)
			assert.Equal(t, 1999, resp.BurstLimitRemaining())
			if tt.wantError != "" {
				assert.True(t, resp.HasErrorType(tt.wantError), "errors: %v", resp.Errors)
				assert.Error(t, resp.Err())
			} else {
				assert.NoError(t, resp.Err())
			}
			if tt.wantRaw != "" {
				assert.Equal(t, tt.wantRaw, string(resp.Raw))
			}
		})
	}
}

func TestSend_HTTPErrorMessage(t *testing.T) {
	srv := vaulttest.New(t)
	srv.Handle(http.MethodGet, "/api/{version}/test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	resp := &models.VaultResponse{}
	require.NoError(t, srv.NewClient(t).Send(context.Background(), client.NewCall(http.MethodGet, "/test"), resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "HTTP 404: Not Found", resp.Errors[0].Message)
}

func TestSend_SCIMFailure(t *testing.T) {
	srv := vaulttest.New(t)
	srv.Handle(http.MethodGet, "/api/{version}/scim/v2/Users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/scim+json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"schemas":["urn:ietf:params:scim:api:messages:2.0:Error"],"detail":"User not found","status":"404"}`)
	})

	resp := &models.ScimUserResponse{}
	require.NoError(t, srv.NewClient(t).Send(context.Background(), client.NewCall(http.MethodGet, "/scim/v2/Users/99"), resp))
	assert.False(t, resp.IsSuccessful())
	assert.True(t, resp.HasErrorType("HTTP_404"))
	assert.Len(t, resp.Errors, 1)
}

func TestSend_ReauthenticatesOnInvalidSession(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleAuth("fresh-session")

	var calls int32
	srv.Handle(http.MethodPost, "/api/{version}/objects/documents", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Header.Get("Authorization") != "fresh-session" {
			vaulttest.WriteJSON(w, http.StatusOK, vaulttest.Failure(models.ErrorTypeInvalidSessionID, "Invalid or expired session ID."))
			return
		}
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "content", string(data))
		vaulttest.WriteJSON(w, http.StatusOK, vaulttest.Success(map[string]any{"id": 7}))
	})

	settings := srv.Settings()
	settings.ReauthenticateOnInvalidSession = true
	c, err := client.New(settings)
	require.NoError(t, err)
	c.SetSessionID("stale")

	call := client.NewCall(http.MethodPost, "/objects/documents")
	call.AddFile("file", "a.txt", strings.NewReader("content"))

	resp := &models.DocumentResponse{}
	require.NoError(t, c.Send(context.Background(), call, resp))
	assert.True(t, resp.IsSuccessful(), "errors: %v", resp.Errors)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, "fresh-session", c.SessionID())
}

func TestSend_NoReauthenticationByDefault(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodGet, "/api/{version}/objects/documents", http.StatusOK,
		vaulttest.Failure(models.ErrorTypeInvalidSessionID, "Invalid or expired session ID."))

	resp := &models.DocumentsResponse{}
	require.NoError(t, srv.NewClient(t).Send(context.Background(), client.NewCall(http.MethodGet, "/objects/documents"), resp))
	assert.True(t, resp.HasErrorType(models.ErrorTypeInvalidSessionID))
	assert.Len(t, srv.Requests(), 1)
}

func TestSendReturnBinary(t *testing.T) {
	srv := vaulttest.New(t)
	srv.Handle(http.MethodGet, "/api/{version}/objects/documents/{id}/file", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment;filename="protocol.pdf"`)
		_, _ = io.WriteString(w, "%PDF-1.4")
	})

	resp := &models.VaultResponse{}
	require.NoError(t, srv.NewClient(t).SendReturnBinary(context.Background(), client.NewCall(http.MethodGet, "/objects/documents/1/file"), resp))
	assert.True(t, resp.IsSuccessful())
	assert.Equal(t, []byte("%PDF-1.4"), resp.BinaryContent)
	assert.Equal(t, "protocol.pdf", resp.FileName)
}

func TestSendReturnBinary_JSONError(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodGet, "/api/{version}/objects/documents/{id}/file", http.StatusOK,
		vaulttest.Failure(models.ErrorTypeInvalidData, "Invalid document id"))

	resp := &models.VaultResponse{}
	require.NoError(t, srv.NewClient(t).SendReturnBinary(context.Background(), client.NewCall(http.MethodGet, "/objects/documents/1/file"), resp))
	assert.False(t, resp.IsSuccessful())
	assert.Empty(t, resp.BinaryContent)
	assert.True(t, resp.HasErrorType(models.ErrorTypeInvalidData))
}

func TestSendToFile(t *testing.T) {
	srv := vaulttest.New(t)
	srv.Handle(http.MethodGet, "/api/{version}/services/file_staging/items/content/{path:.*}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.WriteString(w, "staged bytes")
	})

	fs := afero.NewMemMapFs()
	resp := &models.VaultResponse{}
	call := client.NewCall(http.MethodGet, "/services/file_staging/items/content/u1/file.txt")
	require.NoError(t, srv.NewClient(t).SendToFile(context.Background(), call, fs, "out/file.txt", resp))

	assert.True(t, resp.IsSuccessful())
	assert.Equal(t, "out/file.txt", resp.OutputFilePath)
	assert.Equal(t, int64(12), resp.BytesWritten)

	data, err := afero.ReadFile(fs, "out/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "staged bytes", string(data))
}

func TestSendToFile_JSONErrorWritesNothing(t *testing.T) {
	srv := vaulttest.New(t)
	srv.HandleJSON(http.MethodGet, "/api/{version}/logs/api_usage", http.StatusOK,
		vaulttest.Failure(models.ErrorTypeInvalidData, "Invalid date"))

	fs := afero.NewMemMapFs()
	resp := &models.VaultResponse{}
	require.NoError(t, srv.NewClient(t).SendToFile(context.Background(), client.NewCall(http.MethodGet, "/logs/api_usage"), fs, "usage.zip", resp))

	assert.False(t, resp.IsSuccessful())
	exists, err := afero.Exists(fs, "usage.zip")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSend_NilResponse(t *testing.T) {
	srv := vaulttest.New(t)
	var resp *models.VaultResponse
	err := srv.NewClient(t).Send(context.Background(), client.NewCall(http.MethodGet, "/x"), resp)
	assert.Error(t, err)
}
