package models

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// QueryResponse is returned by VQL queries. Rows are dynamic, so Data keeps
// them as maps; DecodeData maps them onto caller defined structs.
type QueryResponse struct {
	VaultResponse
	ResponseDetails *ResponseDetails `json:"responseDetails,omitempty"`
	QueryDescribe   *QueryDescribe   `json:"queryDescribe,omitempty"`
	Data            []map[string]any `json:"data,omitempty"`
}

// QueryDescribe is returned when the describe query header is set
type QueryDescribe struct {
	Object struct {
		Name        string `json:"name"`
		Label       string `json:"label"`
		LabelPlural string `json:"label_plural"`
	} `json:"object"`
	Fields []struct {
		Type     string `json:"type"`
		Required bool   `json:"required"`
		Name     string `json:"name"`
	} `json:"fields"`
}

// DecodeData decodes the result rows into out, which must be a pointer to a
// slice. Struct fields are matched using their json tags.
func (r *QueryResponse) DecodeData(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(r.Data); err != nil {
		return fmt.Errorf("failed to decode query data: %w", err)
	}
	return nil
}
