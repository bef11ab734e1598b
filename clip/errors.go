package clip

import (
	"errors"
	"fmt"
)

// Error kinds returned by Compile. Match them with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrType          = errors.New("type error")
)

// CompileError locates a rejected declaration.
type CompileError struct {
	Kind    error
	Object  string
	Field   string
	Time    float64
	HasTime bool
	Detail  string
}

func (e *CompileError) Error() string {
	where := fmt.Sprintf("object %q field %q", e.Object, e.Field)
	if e.HasTime {
		where = fmt.Sprintf("%s at t=%g", where, e.Time)
	} else {
		where += " (base state)"
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, where, e.Detail)
}

func (e *CompileError) Unwrap() error {
	return e.Kind
}

func configError(object, field string, t float64, hasTime bool, format string, args ...interface{}) error {
	return &CompileError{
		Kind:    ErrConfiguration,
		Object:  object,
		Field:   field,
		Time:    t,
		HasTime: hasTime,
		Detail:  fmt.Sprintf(format, args...),
	}
}

func typeError(object, field string, t float64, hasTime bool, ft FieldType, v Value) error {
	return &CompileError{
		Kind:    ErrType,
		Object:  object,
		Field:   field,
		Time:    t,
		HasTime: hasTime,
		Detail:  fmt.Sprintf("%T is not a %s value", v, ft.Name()),
	}
}
