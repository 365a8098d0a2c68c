package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ylchen07/go-vapil/pkg/models"
)

// PlainFormatter outputs plain text (one item per line)
type PlainFormatter struct{}

// NewPlainFormatter creates a new plain text formatter
func NewPlainFormatter() *PlainFormatter {
	return &PlainFormatter{}
}

// FormatProviders formats provider names as plain text (one per line)
func (f *PlainFormatter) FormatProviders(providers []string) (string, error) {
	if len(providers) == 0 {
		return "", nil
	}

	return strings.Join(providers, "\n"), nil
}

// FormatRows formats rows as tab separated lines under a header. Without
// columns, the sorted keys of the first row are used.
func (f *PlainFormatter) FormatRows(columns []string, rows []map[string]any) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	if len(columns) == 0 {
		for k := range rows[0] {
			columns = append(columns, k)
		}
		sort.Strings(columns)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(columns, "\t"))
	for _, row := range rows {
		values := make([]string, len(columns))
		for i, c := range columns {
			if v, ok := row[c]; ok && v != nil {
				values[i] = fmt.Sprintf("%v", v)
			}
		}
		lines = append(lines, strings.Join(values, "\t"))
	}

	return strings.Join(lines, "\n"), nil
}

// FormatResponse prints the status line followed by any errors and warnings
func (f *PlainFormatter) FormatResponse(resp models.Response) (string, error) {
	base := resp.Base()

	lines := []string{base.ResponseStatus}
	if base.ResponseMessage != "" {
		lines[0] += ": " + base.ResponseMessage
	}
	for _, e := range base.Errors {
		lines = append(lines, fmt.Sprintf("error %s: %s", e.Type, e.Message))
	}
	for _, w := range base.Warnings {
		lines = append(lines, fmt.Sprintf("warning %s: %s", w.Type, w.Message))
	}
	if base.OutputFilePath != "" {
		lines = append(lines, fmt.Sprintf("saved %d bytes to %s", base.BytesWritten, base.OutputFilePath))
	}

	return strings.Join(lines, "\n"), nil
}
