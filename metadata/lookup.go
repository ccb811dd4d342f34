package metadata

import (
	"errors"
	"reflect"
)

// ErrMetadataUnavailable reports that metadata for a type could not be resolved
var ErrMetadataUnavailable = errors.New("metadata unavailable")

// Lookup represents metadata lookup service keyed by type and property name
type Lookup interface {
	//Properties returns declared properties of supplied type, nil for non struct types
	Properties(t reflect.Type) ([]string, error)
	//IsExposed returns true if property takes part in transformation
	IsExposed(t reflect.Type, property string) bool
	//OutputName returns plain record key for property
	OutputName(t reflect.Type, property string) string
	//DeclaredShape returns property value shape
	DeclaredShape(t reflect.Type, property string) Shape
}

// PropertyLookup is implemented by lookups that expose full property descriptors
type PropertyLookup interface {
	Property(t reflect.Type, property string) *Property
}

// MarkerLookup is implemented by lookups that expose presence markers
type MarkerLookup interface {
	Marker(t reflect.Type) *Marker
}
