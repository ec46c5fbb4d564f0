package features

import (
	"fmt"

	"CustomerChurnPrediction/internal/models"
)

// InvalidCategoryError is returned when a categorical field holds a value
// outside its encoding table.
type InvalidCategoryError = models.InvalidCategoryError

// OutOfRangeError is returned when a numeric field is outside its documented bounds.
type OutOfRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64 // +Inf when unbounded above
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("value %v for field %s is outside [%v, %v]", e.Value, e.Field, e.Min, e.Max)
}

// SchemaMismatchError is a configuration fault: the feature schema is empty,
// malformed, or disagrees with the model it is meant to serve.
type SchemaMismatchError struct {
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	return "feature schema mismatch: " + e.Reason
}
