package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ylchen07/go-vapil/pkg/models"
)

// YAMLFormatter outputs YAML format. Values go through their JSON encoding
// first so field names and omitted fields match the JSON output.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// FormatProviders formats provider names as a YAML list
func (f *YAMLFormatter) FormatProviders(providers []string) (string, error) {
	return toYAML(providers)
}

// FormatRows formats rows as a YAML list
func (f *YAMLFormatter) FormatRows(_ []string, rows []map[string]any) (string, error) {
	if rows == nil {
		rows = []map[string]any{}
	}
	return toYAML(rows)
}

// FormatResponse formats the response payload as YAML
func (f *YAMLFormatter) FormatResponse(resp models.Response) (string, error) {
	return toYAML(resp)
}

func toYAML(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	// Decoding into a node keeps the key order of the JSON document
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return "", fmt.Errorf("failed to convert to yaml: %w", err)
	}
	blockStyle(&node)

	out, err := yaml.Marshal(&node)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

// blockStyle drops the flow and quoting styles inherited from JSON
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
