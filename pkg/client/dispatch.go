package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"reflect"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/ylchen07/go-vapil/pkg/connector"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// failureDescriber is implemented by responses whose payload describes its
// own failure instead of using responseStatus.
type failureDescriber interface {
	FailureDetail() (errorType, message string, failed bool)
}

// Send performs the call and decodes a JSON body into out. Non-JSON bodies,
// such as CSV results, are kept in out.Base().Raw.
func (c *Client) Send(ctx context.Context, call *Call, out models.Response) error {
	return c.dispatch(ctx, call, out, func() error {
		req, err := c.buildRequest(ctx, call)
		if err != nil {
			return err
		}
		resp, err := c.connector.Do(ctx, req)
		if err != nil {
			return err
		}
		c.classify(resp.StatusCode, resp.Header, resp.Body, out)
		return nil
	})
}

// SendReturnBinary performs the call and keeps a binary body in
// out.Base().BinaryContent. A JSON body is decoded into out.
func (c *Client) SendReturnBinary(ctx context.Context, call *Call, out models.Response) error {
	return c.dispatch(ctx, call, out, func() error {
		req, err := c.buildRequest(ctx, call)
		if err != nil {
			return err
		}
		resp, err := c.connector.Do(ctx, req)
		if err != nil {
			return err
		}

		mediaType := connector.MediaType(resp.Header)
		if connector.IsJSON(mediaType) || !resp.IsSuccess() {
			c.classify(resp.StatusCode, resp.Header, resp.Body, out)
			return nil
		}

		base := out.Base()
		c.recordTransport(base, resp.StatusCode, resp.Header)
		base.BinaryContent = resp.Body
		base.FileName = connector.FileName(resp.Header)
		c.finalize(out, resp.StatusCode)
		return nil
	})
}

// SendToFile performs the call and streams a binary body to path on fs. When
// fs is nil the client filesystem is used. A JSON body is decoded into out
// and no file is written.
func (c *Client) SendToFile(ctx context.Context, call *Call, fs afero.Fs, path string, out models.Response) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	if fs == nil {
		fs = c.fs
	}

	return c.dispatch(ctx, call, out, func() error {
		req, err := c.buildRequest(ctx, call)
		if err != nil {
			return err
		}
		resp, err := c.connector.Stream(ctx, req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		success := resp.StatusCode >= 200 && resp.StatusCode < 300
		if connector.IsJSON(connector.MediaType(resp.Header)) || !success {
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}
			c.classify(resp.StatusCode, resp.Header, body, out)
			return nil
		}

		n, err := writeFile(fs, path, resp.Body)
		if err != nil {
			return err
		}

		base := out.Base()
		c.recordTransport(base, resp.StatusCode, resp.Header)
		base.FileName = connector.FileName(resp.Header)
		base.OutputFilePath = path
		base.BytesWritten = n
		c.finalize(out, resp.StatusCode)
		return nil
	})
}

func writeFile(fs afero.Fs, path string, r io.Reader) (int64, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	f, err := fs.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file %s: %w", path, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// partial downloads are not kept
		_ = fs.Remove(path)
		return n, fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return n, nil
}

// dispatch runs send and, when the session turned out to be invalid and
// re-authentication is enabled, logs in again and replays the call once.
func (c *Client) dispatch(ctx context.Context, call *Call, out models.Response, send func() error) error {
	if call == nil {
		return fmt.Errorf("call is required")
	}
	if out == nil || reflect.ValueOf(out).IsNil() {
		return fmt.Errorf("response is required")
	}
	if err := call.bufferFiles(); err != nil {
		return err
	}

	if err := send(); err != nil {
		return err
	}

	if call.SkipSession || !c.canReauthenticate() || !out.Base().HasErrorType(models.ErrorTypeInvalidSessionID) {
		return nil
	}

	c.logger.Info("session is no longer valid, re-authenticating", "method", call.Method, "path", call.Path)
	auth, err := c.Authenticate(ctx)
	if err != nil {
		return err
	}
	if !auth.IsSuccessful() {
		c.logger.Warn("re-authentication failed", "error", auth.Err())
		return nil
	}

	resetResponse(out)
	return send()
}

func (c *Client) canReauthenticate() bool {
	if !c.settings.ReauthenticateOnInvalidSession {
		return false
	}
	switch c.settings.AuthType {
	case AuthTypeBasic, AuthTypeOAuthAccessToken:
		return true
	default:
		return false
	}
}

// resetResponse zeroes the value out points to
func resetResponse(out models.Response) {
	v := reflect.ValueOf(out)
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		v.Elem().Set(reflect.Zero(v.Elem().Type()))
	}
}

func (c *Client) buildRequest(ctx context.Context, call *Call) (*connector.Request, error) {
	if call.Method == "" {
		return nil, fmt.Errorf("call method is required")
	}

	req := connector.NewRequest(call.Method, c.resolveURL(call.Path))
	for k, vs := range call.Headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range call.Query {
		req.Query[k] = append([]string(nil), vs...)
	}

	if !call.SkipSession && req.Header.Get(HeaderAuth) == "" {
		if sessionID := c.SessionID(); sessionID != "" {
			req.Header.Set(HeaderAuth, sessionID)
		}
	}
	req.Header.Set(HeaderClientID, c.settings.ClientID)

	accept := call.Accept
	if accept == "" {
		accept = connector.ContentTypeJSON
	}
	req.Header.Set(HeaderAccept, accept)

	if referenceID, ok := ReferenceIDFromContext(ctx); ok {
		req.Header.Set(HeaderReferenceID, referenceID)
	} else if c.settings.GenerateReferenceID {
		req.Header.Set(HeaderReferenceID, uuid.NewString())
	}

	req.Form = call.Form
	req.Files = call.fileParts()
	req.JSON = call.JSON
	req.Body = call.Body
	req.ContentType = call.ContentType
	return req, nil
}

// classify decodes body into out and settles the response status
func (c *Client) classify(status int, header http.Header, body []byte, out models.Response) {
	base := out.Base()
	c.recordTransport(base, status, header)

	if len(bytes.TrimSpace(body)) > 0 {
		if isJSONBody(base.ContentType, body) {
			if err := json.Unmarshal(body, out); err != nil {
				c.logger.Debug("failed to parse response", "status", status, "error", err)
				base.Raw = body
				base.Fail(models.ErrorTypeParseError, fmt.Sprintf("failed to parse response: %v", err))
				return
			}
		} else {
			base.Raw = body
		}
	}

	c.finalize(out, status)
}

func isJSONBody(mediaType string, body []byte) bool {
	if connector.IsJSON(mediaType) {
		return true
	}
	if mediaType != "" {
		return false
	}
	trimmed := bytes.TrimSpace(body)
	return trimmed[0] == '{' || trimmed[0] == '['
}

func (c *Client) recordTransport(base *models.VaultResponse, status int, header http.Header) {
	base.HTTPStatusCode = status
	base.Headers = header
	base.ContentType = connector.MediaType(header)
}

// finalize applies the status rules once the payload has been decoded
func (c *Client) finalize(out models.Response, status int) {
	base := out.Base()

	if fd, ok := out.(failureDescriber); ok {
		if errorType, message, failed := fd.FailureDetail(); failed {
			base.Fail(errorType, message)
		}
	}

	success := status >= 200 && status < 300
	httpError := fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))

	switch {
	case base.ResponseStatus == "" && success:
		base.ResponseStatus = models.StatusSuccess
	case base.ResponseStatus == "":
		base.Fail(models.ErrorTypeHTTPError, httpError)
	case !success && base.IsSuccessful():
		base.Fail(models.ErrorTypeHTTPError, httpError)
	}
}
