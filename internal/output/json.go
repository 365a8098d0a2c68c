package output

import (
	"encoding/json"

	"github.com/ylchen07/go-vapil/pkg/models"
)

// JSONFormatter outputs JSON format
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatProviders formats provider names as JSON
func (f *JSONFormatter) FormatProviders(providers []string) (string, error) {
	return marshalIndent(providers)
}

// FormatRows formats rows as a JSON array
func (f *JSONFormatter) FormatRows(_ []string, rows []map[string]any) (string, error) {
	if rows == nil {
		rows = []map[string]any{}
	}
	return marshalIndent(rows)
}

// FormatResponse formats the response payload as JSON
func (f *JSONFormatter) FormatResponse(resp models.Response) (string, error) {
	return marshalIndent(resp)
}

func marshalIndent(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
