// Package vaulttest provides a fake Vault REST API for tests.
package vaulttest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/ylchen07/go-vapil/pkg/client"
)

// Default values used by Settings.
const (
	VaultDNS  = "test.veevavault.com"
	ClientID  = "vapil-test"
	Username  = "alice@test.com"
	Password  = "secret"
	SessionID = "session-1"
	VaultID   = 1001
)

// Recorded is a request received by the server
type Recorded struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Server is an httptest server routed by gorilla/mux
type Server struct {
	*httptest.Server
	Router *mux.Router

	mu       sync.Mutex
	requests []Recorded
}

// New starts a server that is closed when the test ends
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{Router: mux.NewRouter()}
	s.Router.Use(s.record)
	s.Server = httptest.NewServer(s.Router)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// Handle registers a handler for method and path. Paths use mux syntax.
func (s *Server) Handle(method, path string, h http.HandlerFunc) {
	s.Router.HandleFunc(path, h).Methods(method)
}

// HandleJSON registers a handler answering with a fixed JSON payload
func (s *Server) HandleJSON(method, path string, status int, payload any) {
	s.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, payload)
	})
}

// HandleAuth registers the username/password login endpoint. It accepts
// Username and Password and returns sessionID for VaultDNS.
func (s *Server) HandleAuth(sessionID string) {
	s.Handle(http.MethodPost, "/api/{version}/auth", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			WriteJSON(w, http.StatusBadRequest, Failure("INVALID_DATA", err.Error()))
			return
		}
		if r.PostForm.Get("username") != Username || r.PostForm.Get("password") != Password {
			WriteJSON(w, http.StatusOK, Failure("USERNAME_OR_PASSWORD_INCORRECT", "Authentication failed for user"))
			return
		}
		WriteJSON(w, http.StatusOK, AuthSuccess(sessionID, "https://"+VaultDNS))
	})
}

// Requests returns the recorded requests
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// LastRequest returns the most recent request
func (s *Server) LastRequest(t testing.TB) Recorded {
	t.Helper()
	reqs := s.Requests()
	require.NotEmpty(t, reqs, "no request recorded")
	return reqs[len(reqs)-1]
}

// Settings returns BASIC auth settings pointing at the server
func (s *Server) Settings() client.Settings {
	return client.Settings{
		VaultDNS: VaultDNS,
		ClientID: ClientID,
		AuthType: client.AuthTypeBasic,
		Username: Username,
		Password: Password,
		BaseURL:  s.URL,
		LoginURL: s.URL,
	}
}

// NewClient creates a client for the server holding sessionID
func (s *Server) NewClient(t testing.TB, opts ...client.Option) *client.Client {
	t.Helper()
	c, err := client.New(s.Settings(), opts...)
	require.NoError(t, err)
	c.SetSessionID(SessionID)
	return c
}

// WriteJSON writes payload with the Vault JSON content type
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Success returns a SUCCESS payload with extra fields merged in
func Success(fields map[string]any) map[string]any {
	out := map[string]any{"responseStatus": "SUCCESS"}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// Failure returns a FAILURE payload with one error entry
func Failure(errorType, message string) map[string]any {
	return map[string]any{
		"responseStatus": "FAILURE",
		"errors": []map[string]string{
			{"type": errorType, "message": message},
		},
	}
}

// AuthSuccess returns a login payload for a vault at vaultURL
func AuthSuccess(sessionID, vaultURL string) map[string]any {
	return Success(map[string]any{
		"sessionId": sessionID,
		"userId":    61603,
		"vaultId":   VaultID,
		"vaultIds": []map[string]any{
			{"id": VaultID, "name": "Test Vault", "url": vaultURL},
		},
	})
}
