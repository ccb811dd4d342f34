package metadata

import (
	"reflect"
	"time"
)

// ShapeKind defines declared value shape
type ShapeKind int

const (
	//ShapePrimitive number, string, bool, time and pointers to them
	ShapePrimitive ShapeKind = iota
	//ShapeArray slice or array
	ShapeArray
	//ShapeObject struct or pointer to struct
	ShapeObject
	//ShapeMap keyed record
	ShapeMap
	//ShapeAny interface value without declared type, shape is known at runtime only
	ShapeAny
)

func (k ShapeKind) String() string {
	switch k {
	case ShapePrimitive:
		return "primitive"
	case ShapeArray:
		return "array"
	case ShapeObject:
		return "object"
	case ShapeMap:
		return "map"
	}
	return "any"
}

// Shape represents declared property shape
type Shape struct {
	Kind ShapeKind
	//Type declared property type
	Type reflect.Type
	//Elem nested target type: array/map element or object type
	Elem reflect.Type
}

var (
	timeType  = reflect.TypeOf(time.Time{})
	bytesType = reflect.TypeOf([]byte{})
)

// IsPrimitiveType returns true for types transformed as a whole
func IsPrimitiveType(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		return t == timeType
	case reflect.Slice:
		return t == bytesType
	case reflect.Map, reflect.Array, reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	}
	return true
}

// ShapeOf returns shape of supplied type
func ShapeOf(t reflect.Type) Shape {
	if t == nil {
		return Shape{Kind: ShapeAny}
	}
	if IsPrimitiveType(t) {
		return Shape{Kind: ShapePrimitive, Type: t, Elem: t}
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return Shape{Kind: ShapeArray, Type: t, Elem: t.Elem()}
	case reflect.Map:
		return Shape{Kind: ShapeMap, Type: t, Elem: t.Elem()}
	case reflect.Struct:
		return Shape{Kind: ShapeObject, Type: t, Elem: t}
	case reflect.Ptr:
		shape := ShapeOf(t.Elem())
		shape.Type = t
		if shape.Kind == ShapeObject {
			shape.Elem = t
		}
		return shape
	}
	return Shape{Kind: ShapeAny, Type: t}
}

// declaredShape returns shape of field type narrowed with declared nested type
func declaredShape(fieldType, nested reflect.Type) Shape {
	shape := ShapeOf(fieldType)
	if nested == nil {
		return shape
	}
	switch shape.Kind {
	case ShapeArray, ShapeMap:
		shape.Elem = nested
	case ShapeAny:
		shape = ShapeOf(nested)
		shape.Type = fieldType
	default:
		shape.Elem = nested
	}
	return shape
}
