package features

import (
	"fmt"
	"strings"

	"CustomerChurnPrediction/internal/models"
)

// Schema is the ordered list of columns a trained model expects.
type Schema []string

// Validate checks that the schema is a non-empty sequence of unique, non-blank names.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return &SchemaMismatchError{Reason: "schema is empty"}
	}
	seen := make(map[string]int, len(s))
	for i, name := range s {
		if strings.TrimSpace(name) == "" {
			return &SchemaMismatchError{Reason: fmt.Sprintf("column %d has a blank name", i)}
		}
		if j, dup := seen[name]; dup {
			return &SchemaMismatchError{Reason: fmt.Sprintf("column %q appears at positions %d and %d", name, j, i)}
		}
		seen[name] = i
	}
	return nil
}

// Equal reports whether two schemas hold the same names in the same order.
func (s Schema) Equal(other []string) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// AlignedRecord is a record whose columns match a schema exactly.
type AlignedRecord struct {
	columns []string
	values  []float64
}

// NewAlignedRecord builds a row from parallel column and value slices.
// It copies both slices.
func NewAlignedRecord(columns []string, values []float64) (AlignedRecord, error) {
	if len(columns) != len(values) {
		return AlignedRecord{}, fmt.Errorf("row has %d columns but %d values", len(columns), len(values))
	}
	return AlignedRecord{
		columns: append([]string(nil), columns...),
		values:  append([]float64(nil), values...),
	}, nil
}

func (r AlignedRecord) Len() int { return len(r.columns) }

// Columns returns a copy of the column names.
func (r AlignedRecord) Columns() []string { return append([]string(nil), r.columns...) }

// Values returns a copy of the values, in column order.
func (r AlignedRecord) Values() []float64 { return append([]float64(nil), r.values...) }

func (r AlignedRecord) Lookup(name string) (float64, bool) {
	for i, c := range r.columns {
		if c == name {
			return r.values[i], true
		}
	}
	return 0, false
}

// Keep returns the row restricted to the named columns, in the row's own order.
func (r AlignedRecord) Keep(names []string) AlignedRecord {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	out := AlignedRecord{}
	for i, c := range r.columns {
		if _, ok := want[c]; ok {
			out.columns = append(out.columns, c)
			out.values = append(out.values, r.values[i])
		}
	}
	return out
}

// Map returns the row as an EncodedRecord.
func (r AlignedRecord) Map() EncodedRecord {
	m := make(EncodedRecord, len(r.columns))
	for i, c := range r.columns {
		m[c] = r.values[i]
	}
	return m
}

// Align reshapes rec to match schema: every schema column in schema order,
// 0 for columns rec does not hold. Columns of rec that the schema does not
// name are dropped without error, so the form may collect a subset or a
// superset of what a given model was trained on.
func Align(rec Record, schema Schema) (AlignedRecord, error) {
	if err := schema.Validate(); err != nil {
		return AlignedRecord{}, err
	}
	out := AlignedRecord{
		columns: make([]string, len(schema)),
		values:  make([]float64, len(schema)),
	}
	copy(out.columns, schema)
	for i, name := range schema {
		if v, ok := rec.Lookup(name); ok {
			out.values[i] = v
		}
	}
	return out, nil
}

// Build encodes the profile and aligns it to schema.
func Build(p models.CustomerProfile, schema Schema) (AlignedRecord, error) {
	rec, err := Encode(p)
	if err != nil {
		return AlignedRecord{}, err
	}
	return Align(rec, schema)
}

// BuildUnaligned encodes the profile and returns it in canonical column order.
func BuildUnaligned(p models.CustomerProfile) (AlignedRecord, error) {
	rec, err := Encode(p)
	if err != nil {
		return AlignedRecord{}, err
	}
	return rec.Row(), nil
}

// SchemaCoverage describes how the form's features relate to a schema.
type SchemaCoverage struct {
	Defaulted []string // in the schema but never produced by Encode
	Dropped   []string // produced by Encode but not in the schema
}

// Coverage compares schema against the features Encode can produce.
func Coverage(schema Schema) SchemaCoverage {
	produced := make(map[string]bool, len(CanonicalOrder))
	for _, name := range CanonicalOrder {
		produced[name] = true
	}
	inSchema := make(map[string]bool, len(schema))
	var cov SchemaCoverage
	for _, name := range schema {
		inSchema[name] = true
		if !produced[name] {
			cov.Defaulted = append(cov.Defaulted, name)
		}
	}
	for _, name := range CanonicalOrder {
		if !inSchema[name] {
			cov.Dropped = append(cov.Dropped, name)
		}
	}
	return cov
}
