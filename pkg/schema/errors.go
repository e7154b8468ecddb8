// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"fmt"
)

// ErrInvalidProperty is returned when a property of a model can't be turned
// into a valid field. Cause is one of the sentinel errors below.
type ErrInvalidProperty struct {
	Model    string
	Property string
	Type     string
	Cause    error
	Detail   string
}

func (e ErrInvalidProperty) Error() string {
	msg := fmt.Sprintf("model %s: property %q of type %s: %v", e.Model, e.Property, e.Type, e.Cause)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e ErrInvalidProperty) Unwrap() error {
	return e.Cause
}

type ErrModelAlreadyRegistered struct {
	Name string
}

func (e ErrModelAlreadyRegistered) Error() string {
	return fmt.Sprintf("model [%s] already registered", e.Name)
}

var (
	ErrModelNotFound    = errors.New("model not found")
	ErrModelNameMissing = errors.New("model name is required")
	ErrMaxDepthExceeded = errors.New("model graph is too deep, review the model for unbounded nesting")

	ErrMultiDimensionalCollection = errors.New("only single-dimensional collections are supported")
	ErrAnalyzerConflict           = errors.New("specify either analyzer or both searchAnalyzer and indexAnalyzer")
	ErrInvalidAnnotation          = errors.New("annotation is not valid for the data type")
	ErrUnsupportedType            = errors.New("unsupported property type")
	ErrDuplicateField             = errors.New("duplicate field name")
	ErrDuplicateKey               = errors.New("only one key field is allowed per model")
	ErrInvalidKeyType             = errors.New("key field must be of type Edm.String")
)
