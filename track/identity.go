package track

import (
	"reflect"
	"unsafe"
)

// Identity represents reference identity of a graph node
type Identity struct {
	Ptr  unsafe.Pointer
	Type reflect.Type
}

// IdentityOf returns identity of pointer or map value, other kinds do not carry reference identity
func IdentityOf(value reflect.Value) (Identity, bool) {
	switch value.Kind() {
	case reflect.Ptr, reflect.Map:
		if value.IsNil() {
			return Identity{}, false
		}
		return Identity{Ptr: value.UnsafePointer(), Type: value.Type()}, true
	}
	return Identity{}, false
}

// Of returns identity of supplied value
func Of(value interface{}) (Identity, bool) {
	if value == nil {
		return Identity{}, false
	}
	return IdentityOf(reflect.ValueOf(value))
}
