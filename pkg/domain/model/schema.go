package model

import "github.com/secmon-lab/segmentor/pkg/domain/types"

// SchemaField is an attribute that can be attached to a segment
type SchemaField struct {
	Value types.SchemaFieldID `json:"value"`
	Label string              `json:"label"`
}

// SchemaOption is a catalog entry as offered by a selector. Disabled entries
// are already used by another row of the selection.
type SchemaOption struct {
	SchemaField
	Disabled bool `json:"disabled"`
}

var catalog = [...]SchemaField{
	{Value: "first_name", Label: "First Name"},
	{Value: "last_name", Label: "Last Name"},
	{Value: "gender", Label: "Gender"},
	{Value: "age", Label: "Age"},
	{Value: "account_name", Label: "Account Name"},
	{Value: "city", Label: "City"},
	{Value: "state", Label: "State"},
}

// Catalog returns every schema field that can be attached to a segment, in display order.
// The returned slice is a copy.
func Catalog() []SchemaField {
	out := make([]SchemaField, len(catalog))
	copy(out, catalog[:])
	return out
}

// LookupSchema finds a catalog entry by its value
func LookupSchema(value types.SchemaFieldID) (SchemaField, bool) {
	for _, s := range catalog {
		if s.Value == value {
			return s, true
		}
	}
	return SchemaField{}, false
}

// AvailableSchemas returns the catalog entries not present in selection, preserving catalog order
func AvailableSchemas(selection []SchemaField) []SchemaField {
	out := make([]SchemaField, 0, len(catalog))
	for _, s := range catalog {
		if !containsSchema(selection, s.Value) {
			out = append(out, s)
		}
	}
	return out
}

func containsSchema(list []SchemaField, value types.SchemaFieldID) bool {
	for _, s := range list {
		if s.Value == value {
			return true
		}
	}
	return false
}
