// Package form owns the in-memory CV document and is the only sanctioned
// way to mutate it.
package form

import "fmt"

// IndexError is returned when an operation addresses an element that does
// not exist. Callers are expected never to produce one.
type IndexError struct {
	Collection string
	Index      int
	Len        int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for %s (len %d)", e.Index, e.Collection, e.Len)
}

// UnknownPaletteError is returned when a palette name is not in the registry
type UnknownPaletteError struct {
	Name string
}

func (e *UnknownPaletteError) Error() string {
	return fmt.Sprintf("unknown palette: %s", e.Name)
}

// UnknownFieldError is returned when a scalar field name is not settable
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field: %s", e.Field)
}

// FloorError is returned when an edit would leave a collection below its
// floor. Unlike a *validation.FieldError the edit is not applied.
type FloorError struct {
	Collection string
	Floor      int
}

func (e *FloorError) Error() string {
	return fmt.Sprintf("%s must have at least %d entry", e.Collection, e.Floor)
}
