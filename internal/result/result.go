// Package result models persisted experiment result records and the
// schema-flexible documents solvers print on stdout.
package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"mapfbench/internal/mapinfo"
)

// Document is a decoded solver output. Solvers report different stat sets,
// so fields are accessed by name through accessors that fail explicitly on
// absence or type mismatch instead of returning zero values.
type Document map[string]any

// FieldError reports a missing or mis-typed document field.
type FieldError struct {
	Field string
	Want  string
	Got   any
}

func (e *FieldError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("field %q not present", e.Field)
	}
	return fmt.Sprintf("field %q is %T, want %s", e.Field, e.Got, e.Want)
}

// Float returns a numeric field.
func (d Document) Float(name string) (float64, error) {
	v, ok := d[name]
	if !ok {
		return 0, &FieldError{Field: name, Want: "number"}
	}
	f, ok := v.(float64)
	if !ok {
		return 0, &FieldError{Field: name, Want: "number", Got: v}
	}
	return f, nil
}

// Bool returns a boolean field.
func (d Document) Bool(name string) (bool, error) {
	v, ok := d[name]
	if !ok {
		return false, &FieldError{Field: name, Want: "bool"}
	}
	b, ok := v.(bool)
	if !ok {
		return false, &FieldError{Field: name, Want: "bool", Got: v}
	}
	return b, nil
}

// String returns a string field.
func (d Document) String(name string) (string, error) {
	v, ok := d[name]
	if !ok {
		return "", &FieldError{Field: name, Want: "string"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &FieldError{Field: name, Want: "string", Got: v}
	}
	return s, nil
}

// Decode parses solver stdout into a Document. The output must be a
// single JSON object.
func Decode(b []byte) (Document, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, fmt.Errorf("empty solver output")
	}
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse solver output: %w", err)
	}
	return d, nil
}

// Record is the persisted outcome of one job. Completed is false exactly
// when the solver was killed on timeout or its output was undecodable; the
// map metadata survives either way.
type Record struct {
	MapInfo   mapinfo.Info `json:"map_info"`
	Result    Document     `json:"result"`
	Completed bool         `json:"completed"`
}

// MarshalJSON keeps Result as {} rather than null when empty, matching the
// on-disk format consumed by the aggregator.
func (r Record) MarshalJSON() ([]byte, error) {
	type alias Record
	a := alias(r)
	if a.Result == nil {
		a.Result = Document{}
	}
	return json.Marshal(a)
}

// WriteFile persists a record with a single write.
func WriteFile(path string, r Record) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write result record: %w", err)
	}
	return nil
}

// ReadFile loads a persisted record.
func ReadFile(path string) (Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return Record{}, fmt.Errorf("parse result record %s: %w", path, err)
	}
	return r, nil
}
