package structgraph

import (
	"errors"
	"fmt"
	"github.com/viant/structgraph/metadata"
	"reflect"
	"strings"
	"unsafe"
)

type (
	//plan represents exposed properties of a struct type resolved for a single call
	plan struct {
		rType    reflect.Type
		fields   []*field
		byName   map[string]*field
		byOutput map[string]*field
		marker   *metadata.Marker
	}

	field struct {
		name       string
		output     string
		shape      metadata.Shape
		fieldType  reflect.Type
		omitEmpty  bool
		timeLayout string
		toPlain    metadata.ValueFunc
		toInstance metadata.ValueFunc
		addr       func(holder unsafe.Pointer) reflect.Value
	}
)

// target returns type to build, interface fields take declared nested type
func (f *field) target() reflect.Type {
	if f.fieldType.Kind() != reflect.Interface || f.shape.Elem == nil {
		return f.fieldType
	}
	var ret reflect.Type
	switch f.shape.Kind {
	case metadata.ShapeArray:
		ret = reflect.SliceOf(f.shape.Elem)
	case metadata.ShapeMap:
		ret = reflect.MapOf(reflect.TypeOf(""), f.shape.Elem)
	default:
		ret = f.shape.Elem
	}
	if !ret.AssignableTo(f.fieldType) {
		return f.fieldType
	}
	return ret
}

// elem returns declared element type of array or map field
func (f *field) elem() reflect.Type {
	switch f.shape.Kind {
	case metadata.ShapeArray, metadata.ShapeMap:
		return f.shape.Elem
	}
	return nil
}

// isEmpty returns true for zero values and empty containers
func isEmpty(value reflect.Value) bool {
	if !value.IsValid() {
		return true
	}
	switch value.Kind() {
	case reflect.Slice, reflect.Map, reflect.String, reflect.Array:
		return value.Len() == 0
	}
	return value.IsZero()
}

// lookupSource returns field matching plain record key, case-insensitive match is the last resort
func (p *plan) lookupSource(key string) *field {
	if ret, ok := p.byOutput[key]; ok {
		return ret
	}
	if ret, ok := p.byName[key]; ok {
		return ret
	}
	for _, candidate := range p.fields {
		if strings.EqualFold(candidate.output, key) || strings.EqualFold(candidate.name, key) {
			return candidate
		}
	}
	return nil
}

func (s *session) plan(t reflect.Type) (*plan, error) {
	if ret, ok := s.plans[t]; ok {
		return ret, nil
	}
	lookup := s.options.lookup
	names, err := lookup.Properties(t)
	if err != nil {
		if !errors.Is(err, metadata.ErrMetadataUnavailable) {
			err = fmt.Errorf("%w: %w", metadata.ErrMetadataUnavailable, err)
		}
		return nil, fmt.Errorf("failed to resolve %v properties: %w", t, err)
	}
	ret := &plan{
		rType:    t,
		byName:   make(map[string]*field, len(names)),
		byOutput: make(map[string]*field, len(names)),
	}
	if markers, ok := lookup.(metadata.MarkerLookup); ok {
		ret.marker = markers.Marker(t)
	}
	properties, _ := lookup.(metadata.PropertyLookup)
	for _, name := range names {
		if !lookup.IsExposed(t, name) {
			continue
		}
		aField := &field{name: name, output: lookup.OutputName(t, name), shape: lookup.DeclaredShape(t, name)}
		if properties != nil {
			if prop := properties.Property(t, name); prop != nil && prop.Field != nil {
				aField.fieldType = prop.Field.Type
				aField.addr = prop.Addr
				aField.omitEmpty = prop.OmitEmpty
				aField.timeLayout = prop.TimeLayout
				aField.toPlain = prop.ToPlain
				aField.toInstance = prop.ToInstance
			}
		}
		if aField.addr == nil && !reflectAccessor(t, aField) {
			continue
		}
		ret.fields = append(ret.fields, aField)
		ret.byName[name] = aField
		ret.byOutput[aField.output] = aField
	}
	s.plans[t] = ret
	return ret, nil
}

// reflectAccessor resolves field access for lookups without property descriptors
func reflectAccessor(t reflect.Type, aField *field) bool {
	structField, ok := t.FieldByName(aField.name)
	if !ok || !structField.IsExported() {
		return false
	}
	index := structField.Index
	aField.fieldType = structField.Type
	aField.addr = func(holder unsafe.Pointer) reflect.Value {
		value, err := reflect.NewAt(t, holder).Elem().FieldByIndexErr(index)
		if err != nil {
			return reflect.Value{}
		}
		return value
	}
	return true
}
