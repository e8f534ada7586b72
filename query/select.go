package query

import (
	"fmt"

	"github.com/kbukum/modelgraph/graph"
)

// Document is a schemaless filter or record representation.
type Document map[string]any

// OutputScope names one upstream predictor's persisted output location
// joined into a selection.
type OutputScope struct {
	// Key is the data key the upstream predictor wrote outputs for.
	Key string `json:"key"`
	// Identifier is the upstream predictor's identifier.
	Identifier string `json:"identifier"`
}

// Location returns the canonical storage location of the scoped output.
// An unkeyed scope (the pass carried no original data) omits the key
// segment.
func (o OutputScope) Location() string {
	if o.Key == "" {
		return fmt.Sprintf("_outputs.%s", o.Identifier)
	}
	return fmt.Sprintf("_outputs.%s.%s", o.Key, o.Identifier)
}

// Select is an immutable description of a stored-data selection.
type Select struct {
	// Collection is the stored collection the selection reads from.
	Collection string `json:"collection"`
	// Filter restricts the selected documents.
	Filter Document `json:"filter,omitempty"`
	// Fields optionally projects the returned documents.
	Fields []string `json:"fields,omitempty"`
	// Scopes lists the upstream outputs joined into this selection, in
	// the order they were applied.
	Scopes []OutputScope `json:"scopes,omitempty"`
}

// NewSelect creates a selection over a collection.
func NewSelect(collection string) Select {
	return Select{Collection: collection}
}

// WithFilter returns a copy of the selection with the filter fields
// merged in. The receiver is unchanged.
func (s Select) WithFilter(filter Document) Select {
	merged := make(Document, len(s.Filter)+len(filter))
	for k, v := range s.Filter {
		merged[k] = v
	}
	for k, v := range filter {
		merged[k] = v
	}
	s.Filter = merged
	return s
}

// WithFields returns a copy of the selection projecting the given
// fields.
func (s Select) WithFields(fields ...string) Select {
	s.Fields = append([]string(nil), fields...)
	return s
}

// ScopeToOutput returns a new selection additionally scoped to the
// persisted outputs of the named upstream predictor. The receiver is
// never mutated, so the same base selection can be scoped repeatedly
// for different nodes. It satisfies graph.Selection.
func (s Select) ScopeToOutput(data any, identifier string) graph.Selection {
	scopes := make([]OutputScope, len(s.Scopes), len(s.Scopes)+1)
	copy(scopes, s.Scopes)
	s.Scopes = append(scopes, OutputScope{
		Key:        keyOf(data),
		Identifier: identifier,
	})
	return s
}

// String renders the selection for logs and error messages.
func (s Select) String() string {
	out := s.Collection
	for _, scope := range s.Scopes {
		out += " + " + scope.Location()
	}
	return out
}

// keyOf derives the output key from the data argument. String batches
// name their key directly; anything else is formatted. Nil data yields
// an unkeyed scope, which Location renders without a key segment.
func keyOf(data any) string {
	switch v := data.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
