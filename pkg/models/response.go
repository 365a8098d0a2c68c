// Package models holds the typed responses returned by Vault REST API calls.
//
// Every response embeds VaultResponse, which carries the status, errors and
// warnings that Vault reports alongside the endpoint specific payload.
package models

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/hashicorp/go-multierror"
)

// Response status values reported by Vault.
const (
	StatusSuccess   = "SUCCESS"
	StatusWarning   = "WARNING"
	StatusFailure   = "FAILURE"
	StatusException = "EXCEPTION"
)

// Error types produced by Vault or by the client itself.
const (
	ErrorTypeInvalidSessionID  = "INVALID_SESSION_ID"
	ErrorTypeInvalidData       = "INVALID_DATA"
	ErrorTypeParameterRequired = "PARAMETER_REQUIRED"
	ErrorTypeInvalidDNS        = "INVALID_DNS"
	ErrorTypeParseError        = "PARSE_ERROR"
	ErrorTypeHTTPError         = "HTTP_ERROR"
)

// Rate limit headers copied from every Vault response.
const (
	HeaderBurstLimit          = "X-VaultAPI-BurstLimit"
	HeaderBurstLimitRemaining = "X-VaultAPI-BurstLimitRemaining"
	HeaderDailyLimit          = "X-VaultAPI-DailyLimit"
	HeaderDailyLimitRemaining = "X-VaultAPI-DailyLimitRemaining"
)

// Response is implemented by every typed response through VaultResponse.
type Response interface {
	Base() *VaultResponse
}

// VaultError is a single entry of the errors array.
type VaultError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e VaultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// VaultWarning is a single entry of the warnings array.
type VaultWarning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// VaultResponse is the part of the payload shared by all Vault responses,
// plus transport details recorded by the client.
type VaultResponse struct {
	ResponseStatus  string         `json:"responseStatus,omitempty"`
	ResponseMessage string         `json:"responseMessage,omitempty"`
	ErrorType       string         `json:"errorType,omitempty"`
	Errors          []VaultError   `json:"errors,omitempty"`
	Warnings        []VaultWarning `json:"warnings,omitempty"`

	HTTPStatusCode int         `json:"-"`
	Headers        http.Header `json:"-"`
	ContentType    string      `json:"-"`
	// Raw holds the body of non-JSON responses such as CSV results.
	Raw []byte `json:"-"`
	// BinaryContent holds file content returned by binary endpoints.
	BinaryContent []byte `json:"-"`
	// FileName is taken from Content-Disposition on binary responses.
	FileName string `json:"-"`
	// OutputFilePath is set when a binary response was streamed to a file.
	OutputFilePath string `json:"-"`
	BytesWritten   int64  `json:"-"`
}

// Base returns the shared response part.
func (r *VaultResponse) Base() *VaultResponse {
	return r
}

// IsSuccessful reports whether Vault accepted the request. WARNING counts as success.
func (r *VaultResponse) IsSuccessful() bool {
	return r.ResponseStatus == StatusSuccess || r.ResponseStatus == StatusWarning
}

// HasErrors reports whether the errors array is populated.
func (r *VaultResponse) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasErrorType reports whether any error carries the given type.
func (r *VaultResponse) HasErrorType(errorType string) bool {
	for _, e := range r.Errors {
		if e.Type == errorType {
			return true
		}
	}
	return r.ErrorType == errorType
}

// AddError appends an error entry.
func (r *VaultResponse) AddError(errorType, message string) {
	r.Errors = append(r.Errors, VaultError{Type: errorType, Message: message})
}

// Fail marks the response as failed with a single error entry.
func (r *VaultResponse) Fail(errorType, message string) {
	r.ResponseStatus = StatusFailure
	r.AddError(errorType, message)
}

// Err folds the reported errors into a single error. It returns nil for
// successful responses.
func (r *VaultResponse) Err() error {
	if r.IsSuccessful() {
		return nil
	}

	var result *multierror.Error
	for _, e := range r.Errors {
		result = multierror.Append(result, e)
	}
	if result == nil {
		msg := r.ResponseMessage
		if msg == "" {
			msg = "request failed"
		}
		return fmt.Errorf("vault responded %s: %s", r.ResponseStatus, msg)
	}
	return result.ErrorOrNil()
}

// BurstLimit returns the burst limit of the vault, or -1 when unknown.
func (r *VaultResponse) BurstLimit() int {
	return r.headerInt(HeaderBurstLimit)
}

// BurstLimitRemaining returns the remaining burst limit, or -1 when unknown.
func (r *VaultResponse) BurstLimitRemaining() int {
	return r.headerInt(HeaderBurstLimitRemaining)
}

// DailyLimit returns the daily limit of the vault, or -1 when unknown.
func (r *VaultResponse) DailyLimit() int {
	return r.headerInt(HeaderDailyLimit)
}

// DailyLimitRemaining returns the remaining daily limit, or -1 when unknown.
func (r *VaultResponse) DailyLimitRemaining() int {
	return r.headerInt(HeaderDailyLimitRemaining)
}

func (r *VaultResponse) headerInt(key string) int {
	if r.Headers == nil {
		return -1
	}
	v, err := strconv.Atoi(r.Headers.Get(key))
	if err != nil {
		return -1
	}
	return v
}

// ResponseDetails is the paging block returned by list and query endpoints.
type ResponseDetails struct {
	PageSize     int    `json:"pagesize,omitempty"`
	PageOffset   int    `json:"pageoffset,omitempty"`
	Size         int    `json:"size,omitempty"`
	Total        int    `json:"total,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
	NextPage     string `json:"next_page,omitempty"`
	PreviousPage string `json:"previous_page,omitempty"`
	URL          string `json:"url,omitempty"`
	Object       *struct {
		Name  string `json:"name,omitempty"`
		Label string `json:"label,omitempty"`
	} `json:"object,omitempty"`
}

// HasNextPage reports whether another page can be requested.
func (d *ResponseDetails) HasNextPage() bool {
	return d != nil && d.NextPage != ""
}

// HasPreviousPage reports whether a previous page can be requested.
func (d *ResponseDetails) HasPreviousPage() bool {
	return d != nil && d.PreviousPage != ""
}

// Link is an href entry returned by job and workflow endpoints.
type Link struct {
	Rel    string `json:"rel"`
	Href   string `json:"href"`
	Method string `json:"method"`
	Accept string `json:"accept,omitempty"`
}

// JobCreateResponse is returned by endpoints that start an asynchronous job.
type JobCreateResponse struct {
	VaultResponse
	JobID int    `json:"job_id,omitempty"`
	URL   string `json:"url,omitempty"`
}
