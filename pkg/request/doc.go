// Package request contains one builder per group of Vault API endpoints.
//
// A builder is created from an authenticated client, configured with fluent
// setters and executed with a context:
//
//	resp, err := request.NewDocumentRequest(c).
//		SetOutputPath("protocol.pdf").
//		DownloadDocumentFile(ctx, 101)
//
// Required identifiers are validated before any I/O and reported as errors.
// Vault failures are reported on the returned response.
package request
