// Package client holds the Vault session and the dispatcher every request
// builder sends through.
//
// A Client is created from Settings, authenticates with one of the supported
// auth types and injects the session, client ID and reference ID headers into
// each call. Responses are classified into the typed models: Vault failures
// are recorded on the response, while transport and encoding failures are
// returned as errors.
package client
