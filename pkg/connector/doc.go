// Package connector performs the HTTP calls behind every Vault request.
//
// A Request describes the call: method, URL, headers, query parameters and one
// body kind (form fields, multipart with file parts, JSON, CSV or raw bytes).
// The connector encodes the body, sends it and hands back either a buffered
// Response (Do) or the open *http.Response for streaming (Stream).
//
// Retries are off by default. When a RetryPolicy is configured, transport
// errors and the statuses 429, 502, 503 and 504 are retried with exponential
// backoff until the policy or the context gives up.
package connector
