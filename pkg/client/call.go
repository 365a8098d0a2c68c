package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ylchen07/go-vapil/pkg/connector"
)

// Call describes one Vault API call made through the dispatcher
type Call struct {
	Method string
	// Path is relative to /api/{version} unless it already starts with /api/
	// or is an absolute URL.
	Path string
	// SkipSession omits the Authorization session header (login and discovery calls).
	SkipSession bool
	Accept      string

	Headers http.Header
	Query   url.Values

	// Body kinds, see connector.Request.
	Form        url.Values
	Files       []connector.FilePart
	JSON        any
	Body        []byte
	ContentType string

	fileData [][]byte
}

// NewCall creates a call with empty header, query and form maps
func NewCall(method, path string) *Call {
	return &Call{
		Method:  method,
		Path:    path,
		Headers: make(http.Header),
		Query:   make(url.Values),
		Form:    make(url.Values),
	}
}

// SetQuery sets a query parameter when value is not empty
func (c *Call) SetQuery(key, value string) *Call {
	if value != "" {
		c.Query.Set(key, value)
	}
	return c
}

// SetForm sets a form field when value is not empty
func (c *Call) SetForm(key, value string) *Call {
	if value != "" {
		c.Form.Set(key, value)
	}
	return c
}

// SetHeader sets a header when value is not empty
func (c *Call) SetHeader(key, value string) *Call {
	if value != "" {
		c.Headers.Set(key, value)
	}
	return c
}

// AddFile attaches a file part, switching the body to multipart
func (c *Call) AddFile(fieldName, fileName string, content io.Reader) *Call {
	c.Files = append(c.Files, connector.FilePart{FieldName: fieldName, FileName: fileName, Content: content})
	return c
}

// bufferFiles reads file parts once so the call can be replayed
func (c *Call) bufferFiles() error {
	if len(c.fileData) == len(c.Files) {
		return nil
	}
	c.fileData = make([][]byte, len(c.Files))
	for i, f := range c.Files {
		if f.Content == nil {
			return fmt.Errorf("file part %s has no content", f.FieldName)
		}
		data, err := io.ReadAll(f.Content)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", f.FileName, err)
		}
		c.fileData[i] = data
	}
	return nil
}

func (c *Call) fileParts() []connector.FilePart {
	if len(c.Files) == 0 {
		return nil
	}
	parts := make([]connector.FilePart, len(c.Files))
	for i, f := range c.Files {
		parts[i] = connector.FilePart{
			FieldName: f.FieldName,
			FileName:  f.FileName,
			Content:   bytes.NewReader(c.fileData[i]),
		}
	}
	return parts
}
