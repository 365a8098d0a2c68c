package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylchen07/go-vapil/internal/vaulttest"
)

func writeConfig(t *testing.T, srv *vaulttest.Server) string {
	t.Helper()
	content := fmt.Sprintf(`
defaults:
  log_level: error
vaults:
  - name: test
    dns: %s
    client_id: %s
    credentials: env
    secret_ref: cli
    base_url: %s
    login_url: %s
  - name: other
    dns: other.veevavault.com
    auth_type: SESSION_ID
    session_id: abc
`, vaulttest.VaultDNS, vaulttest.ClientID, srv.URL, srv.URL)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setupVault(t *testing.T) (*vaulttest.Server, string) {
	t.Helper()
	t.Setenv("VAPIL_CLI_USERNAME", vaulttest.Username)
	t.Setenv("VAPIL_CLI_PASSWORD", vaulttest.Password)

	srv := vaulttest.New(t)
	srv.HandleAuth("session-cli")
	return srv, writeConfig(t, srv)
}

func TestListVaults(t *testing.T) {
	_, cfg := setupVault(t)

	out, err := run(t, "--config", cfg, "list-vaults")
	require.NoError(t, err)
	assert.Equal(t, "name\tdns\tauth_type\tcredentials\tdefault\n"+
		"test\ttest.veevavault.com\t\tenv\tfalse\n"+
		"other\tother.veevavault.com\tSESSION_ID\t\tfalse\n", out)
}

func TestListProviders(t *testing.T) {
	_, cfg := setupVault(t)

	out, err := run(t, "--config", cfg, "-o", "json", "list-providers")
	require.NoError(t, err)
	assert.JSONEq(t, `["env"]`, out)
}

func TestLogin(t *testing.T) {
	srv, cfg := setupVault(t)

	out, err := run(t, "--config", cfg, "login")
	require.NoError(t, err)
	assert.Equal(t, "session-cli\n", out)

	req := srv.LastRequest(t)
	assert.Equal(t, "/api/v25.1/auth", req.Path)
	assert.Equal(t, vaulttest.ClientID, req.Header.Get("X-VaultAPI-ClientID"))
}

func TestLoginBadCredentials(t *testing.T) {
	_, cfg := setupVault(t)
	t.Setenv("VAPIL_CLI_PASSWORD", "wrong")

	_, err := run(t, "--config", cfg, "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication to vault 'test' failed")
	assert.Contains(t, err.Error(), "USERNAME_OR_PASSWORD_INCORRECT")
}

func TestLoginMissingCredentials(t *testing.T) {
	_, cfg := setupVault(t)
	t.Setenv("VAPIL_CLI_USERNAME", "")
	t.Setenv("VAPIL_CLI_PASSWORD", "")

	_, err := run(t, "--config", cfg, "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read credentials for vault 'test' from env")
}

func TestQuery(t *testing.T) {
	srv, cfg := setupVault(t)
	srv.Handle(http.MethodPost, "/api/{version}/query", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "session-cli", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "SELECT id, name__v FROM documents", r.PostForm.Get("q"))
		vaulttest.WriteJSON(w, http.StatusOK, vaulttest.Success(map[string]any{
			"responseDetails": map[string]any{"size": 2, "total": 2},
			"data": []map[string]any{
				{"id": 1, "name__v": "Protocol"},
				{"id": 2, "name__v": "Label"},
			},
		}))
	})

	out, err := run(t, "--config", cfg, "query", "SELECT id, name__v FROM documents")
	require.NoError(t, err)
	assert.Equal(t, "id\tname__v\n1\tProtocol\n2\tLabel\n", out)

	out, err = run(t, "--config", cfg, "-o", "json", "query", "SELECT id, name__v FROM documents")
	require.NoError(t, err)
	assert.Contains(t, out, `"name__v": "Protocol"`)
	assert.Contains(t, out, `"responseStatus": "SUCCESS"`)
}

func TestQueryFailure(t *testing.T) {
	srv, cfg := setupVault(t)
	srv.HandleJSON(http.MethodPost, "/api/{version}/query", http.StatusOK,
		vaulttest.Failure("MALFORMED_URL", "The resource [documentz] does not exist"))

	out, err := run(t, "--config", cfg, "query", "SELECT id FROM documentz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MALFORMED_URL")
	assert.Contains(t, out, "FAILURE\nerror MALFORMED_URL")
}

func TestDocumentDownload(t *testing.T) {
	srv, cfg := setupVault(t)
	srv.Handle(http.MethodGet, "/api/{version}/objects/documents/{id}/file", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment;filename="protocol.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.7"))
	})

	out, err := run(t, "--config", cfg, "document", "download", "12")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", out)

	file := filepath.Join(t.TempDir(), "docs", "protocol.pdf")
	out, err = run(t, "--config", cfg, "document", "download", "12", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "saved 8 bytes to "+file)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))

	_, err = run(t, "--config", cfg, "document", "download", "abc")
	assert.EqualError(t, err, `invalid id "abc"`)
}

func TestJobStatusYAML(t *testing.T) {
	srv, cfg := setupVault(t)
	srv.HandleJSON(http.MethodGet, "/api/{version}/services/jobs/{id}", http.StatusOK, vaulttest.Success(map[string]any{
		"data": map[string]any{"id": 77, "status": "RUNNING"},
	}))

	out, err := run(t, "--config", cfg, "-o", "yaml", "job", "status", "77")
	require.NoError(t, err)
	assert.Equal(t, "responseStatus: SUCCESS\ndata:\n    id: 77\n    status: RUNNING\n", out)
}

func TestUnknownVault(t *testing.T) {
	_, cfg := setupVault(t)

	_, err := run(t, "--config", cfg, "--vault", "prod", "user", "me")
	assert.EqualError(t, err, "vault 'prod' not found")
}
