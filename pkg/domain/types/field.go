package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

var schemaFieldIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// SchemaFieldID is the stable key of a schema field (e.g. "first_name").
// It is the key used in the submitted schema mapping.
type SchemaFieldID string

// Validate checks if the SchemaFieldID is well formed
func (id SchemaFieldID) Validate() error {
	if id == "" {
		return goerr.New("schema field ID cannot be empty")
	}
	if !schemaFieldIDPattern.MatchString(string(id)) {
		return goerr.New("schema field ID must be lowercase alphanumeric with underscores", goerr.V("id", id))
	}
	return nil
}

// String returns the string representation of the schema field ID
func (id SchemaFieldID) String() string {
	return string(id)
}
