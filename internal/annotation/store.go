// Package annotation maintains the human/AI-authored annotation layer over a
// catalog snapshot: per-relation and per-column descriptions, value-mapping
// notes, and a free-text global context. The persisted document round-trips
// loss-free, including entries for objects that no longer exist in the
// current snapshot (schema drift is preserved, never pruned).
package annotation

import (
	"encoding/json"
	"fmt"

	"github.com/fbschema/fbschema/internal/schema"
)

// Document keys recognized by the store. Anything else is carried verbatim
// in the Extra bags.
const (
	keyTables            = "TABLES"
	keyViews             = "VIEWS"
	keyGlobalContext     = "_GLOBAL_CONTEXT"
	keyDescription       = "description"
	keyColumns           = "COLUMNS"
	keyValueMappingNotes = "value_mapping_notes"
)

// kindsInOrder fixes the deterministic scan order over the two object kinds.
var kindsInOrder = []schema.Kind{schema.KindTable, schema.KindView}

// ColumnAnnotation holds the annotations of one column.
type ColumnAnnotation struct {
	Description       string
	ValueMappingNotes string
	Extra             map[string]json.RawMessage
}

// ObjectAnnotation holds the annotations of one table or view.
type ObjectAnnotation struct {
	Description string
	Columns     map[string]*ColumnAnnotation
	Extra       map[string]json.RawMessage
}

// Store is the in-memory annotation document. One instance per session; the
// core never shares a store between sessions.
type Store struct {
	Tables        map[string]*ObjectAnnotation
	Views         map[string]*ObjectAnnotation
	GlobalContext string
	Extra         map[string]json.RawMessage
}

// NewStore returns an empty, well-formed store.
func NewStore() *Store {
	return &Store{
		Tables: make(map[string]*ObjectAnnotation),
		Views:  make(map[string]*ObjectAnnotation),
	}
}

// Load parses a persisted annotation document. Missing or unparsable input
// is never fatal: the returned store is always usable, and the error only
// signals a warning the caller should surface.
func Load(data []byte) (*Store, error) {
	store := NewStore()
	if len(data) == 0 {
		return store, fmt.Errorf("annotation document is empty, starting with a fresh store")
	}
	if err := json.Unmarshal(data, store); err != nil {
		return NewStore(), fmt.Errorf("annotation document is not valid JSON, starting with a fresh store: %w", err)
	}
	return store, nil
}

// Save serializes the entire store. Every field recognized by the document
// shape and every unknown extra field loaded earlier is written back; keys
// are emitted in sorted order so saves are deterministic.
func (s *Store) Save() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize annotation store: %w", err)
	}
	return data, nil
}

// Kind returns the object map for the given relation kind.
func (s *Store) Kind(kind schema.Kind) map[string]*ObjectAnnotation {
	if kind == schema.KindView {
		return s.Views
	}
	return s.Tables
}

// Object returns the annotation entry for a relation, if present.
func (s *Store) Object(kind schema.Kind, relation string) (*ObjectAnnotation, bool) {
	obj, ok := s.Kind(kind)[relation]
	return obj, ok
}

// ColumnDescription returns the stored description of a column, or "" when
// the relation, column, or description is absent. A miss is a legitimate
// "nothing stored" outcome, not an error.
func (s *Store) ColumnDescription(kind schema.Kind, relation, column string) string {
	obj, ok := s.Object(kind, relation)
	if !ok {
		return ""
	}
	col, ok := obj.Columns[column]
	if !ok {
		return ""
	}
	return col.Description
}

// Ensure returns the annotation entry for a relation, creating it if needed.
func (s *Store) Ensure(kind schema.Kind, relation string) *ObjectAnnotation {
	objects := s.Kind(kind)
	obj, ok := objects[relation]
	if !ok {
		obj = &ObjectAnnotation{Columns: make(map[string]*ColumnAnnotation)}
		objects[relation] = obj
	}
	return obj
}

// EnsureColumn returns the annotation entry for a column, creating it if
// needed.
func (o *ObjectAnnotation) EnsureColumn(column string) *ColumnAnnotation {
	if o.Columns == nil {
		o.Columns = make(map[string]*ColumnAnnotation)
	}
	col, ok := o.Columns[column]
	if !ok {
		col = &ColumnAnnotation{}
		o.Columns[column] = col
	}
	return col
}

func (s *Store) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Tables = make(map[string]*ObjectAnnotation)
	s.Views = make(map[string]*ObjectAnnotation)
	if err := takeField(raw, keyTables, &s.Tables); err != nil {
		return err
	}
	if err := takeField(raw, keyViews, &s.Views); err != nil {
		return err
	}
	if err := takeField(raw, keyGlobalContext, &s.GlobalContext); err != nil {
		return err
	}
	s.Extra = remainder(raw)
	return nil
}

func (s *Store) MarshalJSON() ([]byte, error) {
	out := mergeExtra(s.Extra, 3)
	if err := putField(out, keyTables, s.Tables); err != nil {
		return nil, err
	}
	if err := putField(out, keyViews, s.Views); err != nil {
		return nil, err
	}
	if err := putField(out, keyGlobalContext, s.GlobalContext); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func (o *ObjectAnnotation) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	o.Columns = make(map[string]*ColumnAnnotation)
	if err := takeField(raw, keyDescription, &o.Description); err != nil {
		return err
	}
	if err := takeField(raw, keyColumns, &o.Columns); err != nil {
		return err
	}
	o.Extra = remainder(raw)
	return nil
}

func (o *ObjectAnnotation) MarshalJSON() ([]byte, error) {
	out := mergeExtra(o.Extra, 2)
	if err := putField(out, keyDescription, o.Description); err != nil {
		return nil, err
	}
	columns := o.Columns
	if columns == nil {
		columns = map[string]*ColumnAnnotation{}
	}
	if err := putField(out, keyColumns, columns); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func (c *ColumnAnnotation) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if err := takeField(raw, keyDescription, &c.Description); err != nil {
		return err
	}
	if err := takeField(raw, keyValueMappingNotes, &c.ValueMappingNotes); err != nil {
		return err
	}
	c.Extra = remainder(raw)
	return nil
}

func (c *ColumnAnnotation) MarshalJSON() ([]byte, error) {
	out := mergeExtra(c.Extra, 2)
	if err := putField(out, keyDescription, c.Description); err != nil {
		return nil, err
	}
	if err := putField(out, keyValueMappingNotes, c.ValueMappingNotes); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func takeField(raw map[string]json.RawMessage, key string, dst any) error {
	value, ok := raw[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("invalid %q field: %w", key, err)
	}
	delete(raw, key)
	return nil
}

func putField(out map[string]json.RawMessage, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize %q field: %w", key, err)
	}
	out[key] = data
	return nil
}

func mergeExtra(extra map[string]json.RawMessage, knownFields int) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(extra)+knownFields)
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func remainder(raw map[string]json.RawMessage) map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
