package output

import (
	"github.com/ylchen07/go-vapil/pkg/models"
)

// Format represents the output format type
type Format string

const (
	// FormatPlain is plain text format (one item per line)
	FormatPlain Format = "plain"
	// FormatJSON is JSON format
	FormatJSON Format = "json"
	// FormatYAML is YAML format
	FormatYAML Format = "yaml"
)

// Formatter formats command results for output
type Formatter interface {
	// FormatProviders formats credential provider names
	FormatProviders(providers []string) (string, error)
	// FormatRows formats tabular results such as query rows
	FormatRows(columns []string, rows []map[string]any) (string, error)
	// FormatResponse formats a complete Vault response
	FormatResponse(resp models.Response) (string, error)
}
