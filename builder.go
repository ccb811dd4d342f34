package structgraph

import "reflect"

func newRecord(size int) map[string]interface{} {
	return make(map[string]interface{}, size)
}

func newSequence(size int) []interface{} {
	return make([]interface{}, 0, size)
}

// newInstance allocates empty instance of t and returns pointer to it, fields are populated after the pointer is registered
func newInstance(t reflect.Type) reflect.Value {
	return reflect.New(t)
}

func newMap(t reflect.Type, size int) reflect.Value {
	return reflect.MakeMapWithSize(t, size)
}

func newSlice(t reflect.Type, size int) reflect.Value {
	return reflect.MakeSlice(t, size, size)
}

func zeroOf(t reflect.Type) reflect.Value {
	return reflect.Zero(t)
}
