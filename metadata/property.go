package metadata

import (
	"github.com/viant/xunsafe"
	"reflect"
	"unsafe"
)

// ValueFunc converts a property value
type ValueFunc func(value interface{}) (interface{}, error)

// Property represents struct field metadata
type Property struct {
	//Name go field name
	Name string
	//OutputName plain record key
	OutputName string
	Exposed    bool
	OmitEmpty  bool
	//TimeLayout layout used to format/parse time values
	TimeLayout string
	Shape      Shape
	//ToPlain optional value converter applied in typed to plain direction
	ToPlain ValueFunc
	//ToInstance optional value converter applied in plain to typed direction
	ToInstance ValueFunc
	Field      *xunsafe.Field
}

// Addr returns addressable field value for supplied struct pointer
func (p *Property) Addr(holder unsafe.Pointer) reflect.Value {
	return reflect.NewAt(p.Field.Type, p.Field.Pointer(holder)).Elem()
}

// IsZero returns true if field holds zero value
func (p *Property) IsZero(holder unsafe.Pointer) bool {
	value := p.Addr(holder)
	switch value.Kind() {
	case reflect.Slice, reflect.Map:
		return value.Len() == 0
	}
	return value.IsZero()
}

func newProperty(field reflect.StructField, offset uintptr) *Property {
	field.Offset += offset
	return &Property{
		Name:    field.Name,
		Exposed: true,
		Shape:   ShapeOf(field.Type),
		Field:   xunsafe.NewField(field),
	}
}
