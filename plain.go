package structgraph

import (
	"fmt"
	"github.com/viant/structgraph/metadata"
	"github.com/viant/structgraph/track"
	"go.uber.org/zap"
	"reflect"
	"time"
	"unsafe"
)

var timeType = reflect.TypeOf(time.Time{})

// toPlain returns plain representation of value, ok is false when value re-enters an object open on the current path
func (s *session) toPlain(value reflect.Value, layout string) (ret interface{}, ok bool, err error) {
	if !value.IsValid() {
		return nil, true, nil
	}
	if err = s.enterDepth(); err != nil {
		return nil, false, err
	}
	defer s.leaveDepth()

	switch value.Kind() {
	case reflect.Interface:
		if value.IsNil() {
			return nil, true, nil
		}
		return s.toPlain(value.Elem(), layout)
	case reflect.Ptr:
		if value.IsNil() {
			return nil, true, nil
		}
		if metadata.IsPrimitiveType(value.Type()) {
			return s.toPlain(value.Elem(), layout)
		}
		id, _ := track.IdentityOf(value)
		if !s.path.Enter(id) {
			return nil, false, nil
		}
		defer s.path.Leave(id)
		if value.Elem().Kind() != reflect.Struct {
			return s.toPlain(value.Elem(), layout)
		}
		return s.structToPlain(value.Elem().Type(), value.UnsafePointer())
	case reflect.Struct:
		if value.Type() == timeType {
			return s.timeToPlain(value, layout), true, nil
		}
		if !value.CanAddr() {
			holder := newInstance(value.Type())
			holder.Elem().Set(value)
			value = holder.Elem()
		}
		return s.structToPlain(value.Type(), unsafe.Pointer(value.UnsafeAddr()))
	case reflect.Slice:
		if value.IsNil() {
			if s.options.nilSliceAsEmpty {
				return newSequence(0), true, nil
			}
			return nil, true, nil
		}
		if metadata.IsPrimitiveType(value.Type()) {
			return value.Interface(), true, nil
		}
		return s.sequenceToPlain(value, layout)
	case reflect.Array:
		return s.sequenceToPlain(value, layout)
	case reflect.Map:
		if value.IsNil() {
			return nil, true, nil
		}
		id, _ := track.IdentityOf(value)
		if !s.path.Enter(id) {
			return nil, false, nil
		}
		defer s.path.Leave(id)
		return s.mapToPlain(value, layout)
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil, true, nil
	}
	return value.Interface(), true, nil
}

// sequenceToPlain walks each element, elements re-entering an open ancestor are dropped
func (s *session) sequenceToPlain(value reflect.Value, layout string) (interface{}, bool, error) {
	ret := newSequence(value.Len())
	for i := 0; i < value.Len(); i++ {
		item, ok, err := s.toPlain(value.Index(i), layout)
		if err != nil {
			return nil, false, fmt.Errorf("[%d]: %w", i, err)
		}
		if !ok {
			s.options.logger.Debug("dropped circular sequence element", zap.Stringer("type", value.Type()), zap.Int("index", i))
			continue
		}
		ret = append(ret, item)
	}
	return ret, true, nil
}

func (s *session) mapToPlain(value reflect.Value, layout string) (interface{}, bool, error) {
	ret := newRecord(value.Len())
	iter := value.MapRange()
	for iter.Next() {
		key, err := s.recordKey(iter.Key())
		if err != nil {
			return nil, false, err
		}
		item, ok, err := s.toPlain(iter.Value(), layout)
		if err != nil {
			return nil, false, fmt.Errorf("%v: %w", key, err)
		}
		if !ok {
			s.options.logger.Debug("omitted circular map entry", zap.Stringer("type", value.Type()), zap.String("key", key))
			continue
		}
		ret[key] = item
	}
	return ret, true, nil
}

func (s *session) structToPlain(t reflect.Type, holder unsafe.Pointer) (interface{}, bool, error) {
	aPlan, err := s.plan(t)
	if err != nil {
		return nil, false, err
	}
	ret := newRecord(len(aPlan.fields))
	for _, aField := range aPlan.fields {
		if aPlan.marker != nil && !aPlan.marker.IsSet(holder, aField.name) {
			continue
		}
		value := aField.addr(holder)
		if !value.IsValid() || (aField.omitEmpty && isEmpty(value)) {
			continue
		}
		if aField.toPlain != nil {
			converted, err := aField.toPlain(value.Interface())
			if err != nil {
				return nil, false, fmt.Errorf("%v.%v: %w", t.Name(), aField.name, err)
			}
			ret[aField.output] = converted
			continue
		}
		layout := aField.timeLayout
		if layout == "" {
			layout = s.options.timeLayout
		}
		item, ok, err := s.toPlain(value, layout)
		if err != nil {
			return nil, false, fmt.Errorf("%v.%v: %w", t.Name(), aField.name, err)
		}
		if ok {
			ret[aField.output] = item
			continue
		}
		s.options.logger.Debug("truncated circular reference", zap.Stringer("type", t), zap.String("property", aField.name))
		if isSequenceShaped(aField.shape, value) {
			ret[aField.output] = newSequence(0)
		}
	}
	return ret, true, nil
}

// isSequenceShaped returns true if truncated property placeholder is an empty sequence
func isSequenceShaped(shape metadata.Shape, value reflect.Value) bool {
	switch shape.Kind {
	case metadata.ShapeArray:
		return true
	case metadata.ShapeAny:
		for value.Kind() == reflect.Interface && !value.IsNil() {
			value = value.Elem()
		}
		return value.Kind() == reflect.Slice || value.Kind() == reflect.Array
	}
	return false
}

func (s *session) timeToPlain(value reflect.Value, layout string) interface{} {
	ts := value.Interface().(time.Time)
	if layout == "" {
		return ts
	}
	return s.options.converter.FormatTime(ts, layout)
}

func (s *session) recordKey(key reflect.Value) (string, error) {
	for key.Kind() == reflect.Interface && !key.IsNil() {
		key = key.Elem()
	}
	if key.Kind() == reflect.String {
		return key.String(), nil
	}
	ret := ""
	if err := s.options.converter.Convert(key.Interface(), &ret); err != nil {
		return "", fmt.Errorf("unsupported record key %v: %w", key.Type(), err)
	}
	return ret, nil
}
