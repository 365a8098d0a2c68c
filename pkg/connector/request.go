package connector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// Content types understood by Vault.
const (
	ContentTypeJSON        = "application/json"
	ContentTypeCSV         = "text/csv"
	ContentTypeForm        = "application/x-www-form-urlencoded"
	ContentTypeMultipart   = "multipart/form-data"
	ContentTypeOctetStream = "application/octet-stream"
	ContentTypeSCIM        = "application/scim+json"
)

// FilePart is a file attached to a multipart body
type FilePart struct {
	FieldName string
	FileName  string
	Content   io.Reader
}

// Request describes a single HTTP call.
//
// Exactly one body kind is used, checked in this order: Files (multipart,
// Form entries become text fields), JSON, Body, Form.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Query  url.Values

	Form  url.Values
	Files []FilePart
	JSON  any
	// Body is sent as is with ContentType (octet-stream when empty).
	Body        []byte
	ContentType string
}

// NewRequest creates a request with empty header and query maps
func NewRequest(method, rawURL string) *Request {
	return &Request{
		Method: method,
		URL:    rawURL,
		Header: make(http.Header),
		Query:  make(url.Values),
	}
}

// FullURL returns the URL with the query parameters applied
func (r *Request) FullURL() (string, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", r.URL, err)
	}
	if len(r.Query) > 0 {
		q := u.Query()
		for k, vs := range r.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// encodeBody renders the body and returns it with its content type
func (r *Request) encodeBody() ([]byte, string, error) {
	switch {
	case len(r.Files) > 0:
		return r.encodeMultipart()

	case r.JSON != nil:
		data, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		contentType := r.ContentType
		if contentType == "" {
			contentType = ContentTypeJSON
		}
		return data, contentType, nil

	case r.Body != nil:
		contentType := r.ContentType
		if contentType == "" {
			contentType = ContentTypeOctetStream
		}
		return r.Body, contentType, nil

	case len(r.Form) > 0:
		return []byte(r.Form.Encode()), ContentTypeForm, nil

	default:
		return nil, "", nil
	}
}

func (r *Request) encodeMultipart() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, vs := range r.Form {
		for _, v := range vs {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", fmt.Errorf("failed to write multipart field %s: %w", k, err)
			}
		}
	}

	for _, f := range r.Files {
		if f.Content == nil {
			return nil, "", fmt.Errorf("file part %s has no content", f.FieldName)
		}
		part, err := w.CreateFormFile(f.FieldName, f.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create multipart file %s: %w", f.FileName, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("failed to copy file %s: %w", f.FileName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ContentType returns the media type of the response without parameters
func (r *Response) ContentType() string {
	return MediaType(r.Header)
}

// IsSuccess reports whether the status code is 2xx
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// MediaType returns the lower-cased media type of the Content-Type header
func MediaType(h http.Header) string {
	ct := h.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	}
	return mt
}

// IsJSON reports whether the media type carries a JSON document
func IsJSON(mediaType string) bool {
	return mediaType == ContentTypeJSON || mediaType == ContentTypeSCIM || strings.HasSuffix(mediaType, "+json")
}

// FileName returns the file name announced by Content-Disposition, if any
func FileName(h http.Header) string {
	cd := h.Get("Content-Disposition")
	if cd == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	return params["filename"]
}
