// Package schema maps loosely-typed device output (attribute name to string
// value) into fixed, typed records. Each target schema is a declarative field
// table: candidate source attributes, a coercion, a default, and a required
// flag. Keeping the mapping in tables rather than ad hoc parsing at call
// sites is what makes the normalization auditable and testable without a
// transport.
package schema

import (
	"time"

	"github.com/newtron-network/rosdriver/pkg/util"
)

// Field declares how one normalized field is derived from device output.
type Field struct {
	// Attrs lists candidate source attribute names, tried in order. Device
	// model and firmware variants report the same value under different
	// names; the first present attribute wins.
	Attrs []string

	// Coerce converts the raw string. Nil passes the string through.
	Coerce Coercer

	// Default is used when every candidate attribute is absent, or when
	// coercion fails on a non-required field. It must already have the
	// field's target type.
	Default interface{}

	// Required rejects the whole record when the field is absent or
	// malformed. Sibling records are unaffected.
	Required bool
}

// Schema is one named field table.
type Schema struct {
	Name   string
	Fields map[string]Field
}

// Record is one normalized record. Every schema field is present with a value
// of its declared type; raw device strings and nils never leak through.
type Record map[string]interface{}

// Problem records one non-fatal coercion failure (the field fell back to its
// default) for diagnostic surfacing.
type Problem struct {
	Index int // source record index within the reply
	Field string
	Attr  string
	Value string
	Err   error
}

// Result is the outcome of normalizing one reply's record set.
type Result struct {
	// Records holds the normalized records in device reply order. Rejected
	// records are absent.
	Records []Record

	// Problems lists the defaulted-field diagnostics.
	Problems []Problem

	// Rejected lists one NormalizationError per rejected record.
	Rejected []error
}

// Normalize maps rows through the schema. Ordering is preserved; a rejected
// row never aborts its siblings.
func (s *Schema) Normalize(rows []map[string]string) *Result {
	res := &Result{}

	for i, row := range rows {
		rec := make(Record, len(s.Fields))
		rejected := false

		for name, field := range s.Fields {
			attr, raw, present := lookup(row, field.Attrs)
			if !present {
				if field.Required {
					res.Rejected = append(res.Rejected, &util.NormalizationError{
						Schema: s.Name,
						Field:  name,
						Attr:   candidateList(field.Attrs),
						Reason: "attribute absent",
					})
					rejected = true
					break
				}
				rec[name] = field.Default
				continue
			}

			value, err := coerce(field, raw)
			if err != nil {
				if field.Required {
					res.Rejected = append(res.Rejected, &util.NormalizationError{
						Schema: s.Name,
						Field:  name,
						Attr:   attr,
						Value:  raw,
						Reason: err.Error(),
					})
					rejected = true
					break
				}
				res.Problems = append(res.Problems, Problem{
					Index: i, Field: name, Attr: attr, Value: raw, Err: err,
				})
				rec[name] = field.Default
				continue
			}
			rec[name] = value
		}

		if !rejected {
			res.Records = append(res.Records, rec)
		}
	}

	return res
}

func lookup(row map[string]string, attrs []string) (string, string, bool) {
	for _, a := range attrs {
		if v, ok := row[a]; ok {
			return a, v, true
		}
	}
	return "", "", false
}

func coerce(f Field, raw string) (interface{}, error) {
	if f.Coerce == nil {
		return raw, nil
	}
	return f.Coerce(raw)
}

func candidateList(attrs []string) string {
	if len(attrs) == 0 {
		return ""
	}
	out := attrs[0]
	for _, a := range attrs[1:] {
		out += "|" + a
	}
	return out
}

// Typed accessors. A missing field or a type mismatch yields the zero value;
// schemas guarantee the declared type, so mismatches indicate a schema bug,
// not device variance.

// String returns a string field.
func (r Record) String(field string) string {
	v, _ := r[field].(string)
	return v
}

// Int returns an integer field.
func (r Record) Int(field string) int64 {
	v, _ := r[field].(int64)
	return v
}

// Uint returns an unsigned integer field.
func (r Record) Uint(field string) uint64 {
	v, _ := r[field].(uint64)
	return v
}

// Bool returns a boolean field.
func (r Record) Bool(field string) bool {
	v, _ := r[field].(bool)
	return v
}

// Float returns a float field.
func (r Record) Float(field string) float64 {
	v, _ := r[field].(float64)
	return v
}

// Duration returns a duration field.
func (r Record) Duration(field string) time.Duration {
	v, _ := r[field].(time.Duration)
	return v
}

// Strings returns a string list field.
func (r Record) Strings(field string) []string {
	v, _ := r[field].([]string)
	return v
}
