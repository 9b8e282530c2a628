package model

// SegmentPayload is the request body sent to the segment endpoint
type SegmentPayload struct {
	SegmentName string            `json:"segment_name"`
	Schema      map[string]string `json:"schema"`
}

// NewSegmentPayload reduces the selection into a value-to-label mapping.
// Schema is never nil so that an empty selection encodes as {}.
func NewSegmentPayload(name string, selection []SchemaField) *SegmentPayload {
	schema := make(map[string]string, len(selection))
	for _, s := range selection {
		schema[s.Value.String()] = s.Label
	}

	return &SegmentPayload{
		SegmentName: name,
		Schema:      schema,
	}
}
