package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/afero"

	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// Headers understood by several endpoint groups.
const (
	HeaderMigrationMode    = "X-VaultAPI-MigrationMode"
	HeaderNoTriggers       = "X-VaultAPI-NoTriggers"
	HeaderDescribeQuery    = "X-VaultAPI-DescribeQuery"
	HeaderRecordProperties = "X-VaultAPI-RecordProperties"
	HeaderFilePartNumber   = "X-VaultAPI-FilePartNumber"
	HeaderContentMD5       = "Content-MD5"
	HeaderRange            = "Range"
)

// vaultRequest holds what every builder needs: the client and the optional
// input and output locations.
type vaultRequest struct {
	client *client.Client
	fs     afero.Fs

	inputPath     string
	requestString string
	binaryName    string
	binaryContent []byte

	outputPath string
}

func newVaultRequest(c *client.Client) vaultRequest {
	return vaultRequest{client: c}
}

func (r *vaultRequest) filesystem() afero.Fs {
	if r.fs != nil {
		return r.fs
	}
	return r.client.Fs()
}

// errNoClient is returned by builders created without a client
var errNoClient = errors.New("client is required")

func (r *vaultRequest) send(ctx context.Context, call *client.Call, out models.Response) error {
	if r.client == nil {
		return errNoClient
	}
	return r.client.Send(ctx, call, out)
}

// sendBinary writes to the output path when one is set and keeps the
// content in memory otherwise.
func (r *vaultRequest) sendBinary(ctx context.Context, call *client.Call, out models.Response) error {
	if r.client == nil {
		return errNoClient
	}
	if r.outputPath == "" {
		return r.client.SendReturnBinary(ctx, call, out)
	}
	return r.client.SendToFile(ctx, call, r.filesystem(), r.outputPath, out)
}

// hasInput reports whether a file, binary or string body was supplied
func (r *vaultRequest) hasInput() bool {
	return r.inputPath != "" || r.binaryContent != nil || r.requestString != ""
}

// readInput returns the supplied body and its file name
func (r *vaultRequest) readInput() ([]byte, string, error) {
	switch {
	case r.inputPath != "":
		data, err := afero.ReadFile(r.filesystem(), r.inputPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read input %s: %w", r.inputPath, err)
		}
		return data, filepath.Base(r.inputPath), nil
	case r.binaryContent != nil:
		return r.binaryContent, r.binaryName, nil
	case r.requestString != "":
		return []byte(r.requestString), "", nil
	default:
		return nil, "", fmt.Errorf("no input supplied")
	}
}

// attachFile adds the supplied input as the multipart "file" part
func (r *vaultRequest) attachFile(call *client.Call) error {
	data, name, err := r.readInput()
	if err != nil {
		return err
	}
	if name == "" {
		name = "file"
	}
	call.AddFile("file", name, bytes.NewReader(data))
	return nil
}

// attachBody sets the supplied input as the raw request body
func (r *vaultRequest) attachBody(call *client.Call, contentType string) error {
	data, _, err := r.readInput()
	if err != nil {
		return err
	}
	call.Body = data
	call.ContentType = contentType
	return nil
}

func setFields(call *client.Call, fields map[string]string) {
	for k, v := range fields {
		call.Form.Set(k, v)
	}
}

func setInt(values url.Values, key string, v int) {
	if v > 0 {
		values.Set(key, strconv.Itoa(v))
	}
}

func setBool(values url.Values, key string, v *bool) {
	if v != nil {
		values.Set(key, strconv.FormatBool(*v))
	}
}

func boolPtr(v bool) *bool {
	return &v
}

// escapePath escapes each segment of a slash separated path
func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// validateID checks that a numeric identifier is set
func validateID(name string, id int) error {
	return validation.Errors{
		name: validation.Validate(id, validation.Required, validation.Min(1)),
	}.Filter()
}

// validateRequired checks that each named string argument is set
func validateRequired(args map[string]string) error {
	errs := validation.Errors{}
	for name, v := range args {
		errs[name] = validation.Validate(v, validation.Required)
	}
	return errs.Filter()
}
