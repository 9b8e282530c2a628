package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
)

// SegmentForm holds the editable state of one editor: the segment name, the
// schema field picked in the "add schema" selector and the ordered selection.
//
// Invariants:
//   - selection never contains two fields with the same value
//   - pending, when set, is not present in selection
//
// SegmentForm is not safe for concurrent use; Editor serializes access.
type SegmentForm struct {
	name      string
	nameError string
	pending   *SchemaField
	selection []SchemaField
}

// NewSegmentForm returns an empty form
func NewSegmentForm() *SegmentForm {
	return &SegmentForm{
		selection: []SchemaField{},
	}
}

// Name returns the segment name as entered
func (f *SegmentForm) Name() string {
	return f.name
}

// SetName replaces the segment name and clears a previous validation message
func (f *SegmentForm) SetName(name string) {
	f.name = name
	f.nameError = ""
}

// NameError returns the validation message for the name field, empty if none
func (f *SegmentForm) NameError() string {
	return f.nameError
}

// Pending returns the schema field selected for addition, if any
func (f *SegmentForm) Pending() (SchemaField, bool) {
	if f.pending == nil {
		return SchemaField{}, false
	}
	return *f.pending, true
}

// SelectPending picks a catalog entry for the next add. An empty value clears
// the pending selection. Fields already in the selection cannot be picked.
func (f *SegmentForm) SelectPending(value types.SchemaFieldID) error {
	if value == "" {
		f.pending = nil
		return nil
	}

	field, ok := LookupSchema(value)
	if !ok {
		return goerr.Wrap(ErrUnknownSchema, "cannot select schema", goerr.V(SchemaValueKey, value))
	}
	if containsSchema(f.selection, value) {
		return goerr.Wrap(ErrSchemaAlreadySelected, "cannot select schema", goerr.V(SchemaValueKey, value))
	}

	f.pending = &field
	return nil
}

// AddPending appends the pending field to the selection and clears it.
// It returns false without changing anything when nothing is pending or the
// field is already selected.
func (f *SegmentForm) AddPending() bool {
	if f.pending == nil || containsSchema(f.selection, f.pending.Value) {
		return false
	}

	f.selection = append(f.selection, *f.pending)
	f.pending = nil
	return true
}

// ChangeAt replaces the field at index. Uniqueness is not re-checked here:
// callers offer only the options returned by OptionsAt.
func (f *SegmentForm) ChangeAt(index int, field SchemaField) error {
	if index < 0 || index >= len(f.selection) {
		return goerr.Wrap(ErrIndexOutOfRange, "cannot change schema",
			goerr.V(IndexKey, index),
			goerr.V(LengthKey, len(f.selection)))
	}

	f.selection[index] = field
	if f.pending != nil && f.pending.Value == field.Value {
		f.pending = nil
	}
	return nil
}

// Selection returns a copy of the selected fields in insertion order
func (f *SegmentForm) Selection() []SchemaField {
	out := make([]SchemaField, len(f.selection))
	copy(out, f.selection)
	return out
}

// Available returns the catalog entries that can still be added
func (f *SegmentForm) Available() []SchemaField {
	return AvailableSchemas(f.selection)
}

// OptionsAt returns the full catalog for the selector of row index, with the
// entries used by other rows disabled.
func (f *SegmentForm) OptionsAt(index int) ([]SchemaOption, error) {
	if index < 0 || index >= len(f.selection) {
		return nil, goerr.Wrap(ErrIndexOutOfRange, "cannot list schema options",
			goerr.V(IndexKey, index),
			goerr.V(LengthKey, len(f.selection)))
	}

	options := make([]SchemaOption, len(catalog))
	for i, s := range catalog {
		disabled := false
		for j, selected := range f.selection {
			if j != index && selected.Value == s.Value {
				disabled = true
				break
			}
		}
		options[i] = SchemaOption{SchemaField: s, Disabled: disabled}
	}
	return options, nil
}

// Validate checks the form before submission. Whitespace-only names are
// rejected. On failure the message is kept for NameError.
func (f *SegmentForm) Validate() error {
	if strings.TrimSpace(f.name) == "" {
		f.nameError = NameRequiredMessage
		return ErrEmptySegmentName
	}
	f.nameError = ""
	return nil
}

// Payload derives the submission body from the current state
func (f *SegmentForm) Payload() *SegmentPayload {
	return NewSegmentPayload(strings.TrimSpace(f.name), f.selection)
}

// Reset discards all entered state
func (f *SegmentForm) Reset() {
	f.name = ""
	f.nameError = ""
	f.pending = nil
	f.selection = []SchemaField{}
}
