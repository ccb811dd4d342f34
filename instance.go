package structgraph

import (
	"errors"
	"fmt"
	"github.com/viant/structgraph/conv"
	"github.com/viant/structgraph/metadata"
	"github.com/viant/structgraph/track"
	"go.uber.org/zap"
	"reflect"
	"unsafe"
)

// build returns value of target type built from src, invalid value means src could not be represented and the destination stays untouched.
// elem is optional declared element type used where target element is an interface.
func (s *session) build(src reflect.Value, target reflect.Type, elem reflect.Type, layout string) (reflect.Value, error) {
	for src.IsValid() && src.Kind() == reflect.Interface {
		src = src.Elem()
	}
	if !src.IsValid() || isNil(src) {
		return zeroOf(target), nil
	}
	if err := s.enterDepth(); err != nil {
		return reflect.Value{}, err
	}
	defer s.leaveDepth()

	if metadata.IsPrimitiveType(target) {
		if target.Kind() == reflect.Ptr {
			return s.buildPointer(src, target, elem, layout)
		}
		return s.primitive(src, target, layout), nil
	}
	switch target.Kind() {
	case reflect.Interface:
		concrete := src.Type()
		if elem != nil && elem.Implements(target) {
			concrete = elem
		}
		if !concrete.Implements(target) {
			return s.passthrough(src, target), nil
		}
		return s.build(src, concrete, nil, layout)
	case reflect.Ptr:
		return s.buildPointer(src, target, elem, layout)
	case reflect.Struct:
		return s.buildStruct(src, target, layout)
	case reflect.Map:
		return s.buildMap(src, target, elem, layout)
	case reflect.Slice, reflect.Array:
		return s.buildSequence(src, target, elem, layout)
	}
	return s.passthrough(src, target), nil
}

// buildPointer registers the new instance before it is populated, so back references resolve to it
func (s *session) buildPointer(src reflect.Value, target reflect.Type, elem reflect.Type, layout string) (reflect.Value, error) {
	id, hasIdentity := track.IdentityOf(src)
	if hasIdentity {
		if built, ok := s.processed.Lookup(id, target); ok {
			s.options.logger.Debug("reused built instance", zap.Stringer("type", target))
			return built, nil
		}
	}
	if target.Elem().Kind() != reflect.Struct || metadata.IsPrimitiveType(target.Elem()) {
		ret := newInstance(target.Elem())
		if hasIdentity {
			s.processed.Register(id, target, ret)
		}
		value, err := s.build(indirect(src), target.Elem(), elem, layout)
		if err != nil || !value.IsValid() {
			return value, err
		}
		ret.Elem().Set(value)
		return ret, nil
	}
	if !isRecord(src) {
		return s.passthrough(src, target), nil
	}
	ret := newInstance(target.Elem())
	if hasIdentity {
		s.processed.Register(id, target, ret)
	}
	if err := s.populate(ret.Elem(), src, layout); err != nil {
		return reflect.Value{}, err
	}
	return ret, nil
}

// buildStruct builds struct value, values can not share identity so re-entered sources are truncated to zero value
func (s *session) buildStruct(src reflect.Value, target reflect.Type, layout string) (reflect.Value, error) {
	if !isRecord(src) {
		return s.passthrough(src, target), nil
	}
	if id, ok := track.IdentityOf(src); ok {
		if !s.path.Enter(id) {
			s.options.logger.Debug("truncated circular reference", zap.Stringer("type", target))
			return zeroOf(target), nil
		}
		defer s.path.Leave(id)
	}
	ret := newInstance(target).Elem()
	if err := s.populate(ret, src, layout); err != nil {
		return reflect.Value{}, err
	}
	return ret, nil
}

// populate sets dest struct properties from plain record or typed struct
func (s *session) populate(dest reflect.Value, src reflect.Value, layout string) error {
	destPlan, err := s.plan(dest.Type())
	if err != nil {
		return err
	}
	holder := unsafe.Pointer(dest.UnsafeAddr())
	src = indirect(src)
	switch src.Kind() {
	case reflect.Map:
		iter := src.MapRange()
		for iter.Next() {
			key, err := s.recordKey(iter.Key())
			if err != nil {
				return err
			}
			aField := destPlan.lookupSource(key)
			if aField == nil {
				continue
			}
			if err = s.assign(destPlan, aField, holder, iter.Value(), layout, true); err != nil {
				return err
			}
		}
	case reflect.Struct:
		if !src.CanAddr() {
			copied := newInstance(src.Type())
			copied.Elem().Set(src)
			src = copied.Elem()
		}
		srcPlan, err := s.plan(src.Type())
		if err != nil {
			return err
		}
		srcHolder := unsafe.Pointer(src.UnsafeAddr())
		tracked := srcPlan.marker != nil && srcPlan.marker.IsTracked(srcHolder)
		for _, srcField := range srcPlan.fields {
			if tracked && !srcPlan.marker.IsSet(srcHolder, srcField.name) {
				continue
			}
			aField, ok := destPlan.byName[srcField.name]
			if !ok {
				if aField, ok = destPlan.byOutput[srcField.output]; !ok {
					continue
				}
			}
			value := srcField.addr(srcHolder)
			if !value.IsValid() {
				continue
			}
			if err = s.assign(destPlan, aField, holder, value, layout, tracked); err != nil {
				return err
			}
		}
	}
	return nil
}

// assign builds value into dest property, mark flags property presence on dest marker
func (s *session) assign(destPlan *plan, aField *field, holder unsafe.Pointer, value reflect.Value, layout string, mark bool) error {
	if aField.toInstance != nil {
		converted, err := aField.toInstance(interfaceOf(value))
		if err != nil {
			return fmt.Errorf("%v.%v: %w", destPlan.rType.Name(), aField.name, err)
		}
		value = reflect.ValueOf(converted)
	}
	if aField.timeLayout != "" {
		layout = aField.timeLayout
	}
	built, err := s.build(value, aField.target(), aField.elem(), layout)
	if err != nil {
		return fmt.Errorf("%v.%v: %w", destPlan.rType.Name(), aField.name, err)
	}
	if !built.IsValid() {
		return nil
	}
	dest := aField.addr(holder)
	if !dest.IsValid() || !built.Type().AssignableTo(dest.Type()) {
		return nil
	}
	dest.Set(built)
	if mark && destPlan.marker != nil {
		destPlan.marker.Set(holder, aField.name, true)
	}
	return nil
}

func (s *session) buildMap(src reflect.Value, target reflect.Type, elem reflect.Type, layout string) (reflect.Value, error) {
	id, hasIdentity := track.IdentityOf(src)
	if hasIdentity {
		if built, ok := s.processed.Lookup(id, target); ok {
			return built, nil
		}
	}
	valueType := target.Elem()
	if valueType.Kind() != reflect.Interface || elem == nil {
		elem = nil
	}
	src = indirect(src)
	switch src.Kind() {
	case reflect.Map:
		ret := newMap(target, src.Len())
		if hasIdentity {
			s.processed.Register(id, target, ret)
		}
		iter := src.MapRange()
		for iter.Next() {
			key := s.primitive(iter.Key(), target.Key(), "")
			if !key.IsValid() {
				continue
			}
			value, err := s.build(iter.Value(), valueType, elem, layout)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%v: %w", interfaceOf(iter.Key()), err)
			}
			if value.IsValid() {
				ret.SetMapIndex(key, value)
			}
		}
		return ret, nil
	case reflect.Struct:
		if src.Type() == timeType || target.Key().Kind() != reflect.String {
			return s.passthrough(src, target), nil
		}
		if !src.CanAddr() {
			copied := newInstance(src.Type())
			copied.Elem().Set(src)
			src = copied.Elem()
		}
		srcPlan, err := s.plan(src.Type())
		if err != nil {
			return reflect.Value{}, err
		}
		ret := newMap(target, len(srcPlan.fields))
		if hasIdentity {
			s.processed.Register(id, target, ret)
		}
		srcHolder := unsafe.Pointer(src.UnsafeAddr())
		for _, srcField := range srcPlan.fields {
			value := srcField.addr(srcHolder)
			if !value.IsValid() || (srcField.omitEmpty && isEmpty(value)) {
				continue
			}
			built, err := s.build(value, valueType, elem, layout)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%v: %w", srcField.name, err)
			}
			if built.IsValid() {
				ret.SetMapIndex(reflect.ValueOf(srcField.output).Convert(target.Key()), built)
			}
		}
		return ret, nil
	}
	return s.passthrough(src, target), nil
}

func (s *session) buildSequence(src reflect.Value, target reflect.Type, elem reflect.Type, layout string) (reflect.Value, error) {
	src = indirect(src)
	if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
		return s.passthrough(src, target), nil
	}
	itemType := target.Elem()
	if itemType.Kind() != reflect.Interface || elem == nil {
		elem = nil
	}
	var ret reflect.Value
	if target.Kind() == reflect.Array {
		ret = newInstance(target).Elem()
	} else {
		ret = newSlice(target, src.Len())
	}
	for i := 0; i < src.Len() && i < ret.Len(); i++ {
		item, err := s.build(src.Index(i), itemType, elem, layout)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("[%d]: %w", i, err)
		}
		if item.IsValid() {
			ret.Index(i).Set(item)
		}
	}
	return ret, nil
}

// primitive coerces src into primitive target, conversion failures leave destination untouched
func (s *session) primitive(src reflect.Value, target reflect.Type, layout string) reflect.Value {
	for src.IsValid() && src.Kind() == reflect.Interface {
		src = src.Elem()
	}
	if !src.IsValid() {
		return zeroOf(target)
	}
	if src.Type().AssignableTo(target) {
		return src
	}
	if layout != "" && target == timeType && src.Kind() == reflect.String {
		if ts, err := s.options.converter.ParseTime(src.String(), layout); err == nil {
			return reflect.ValueOf(ts)
		}
	}
	value, err := s.options.converter.ConvertTo(interfaceOf(src), target)
	if err != nil {
		s.options.logger.Debug("skipped value conversion", zap.Stringer("source", src.Type()), zap.Stringer("target", target), zap.Error(err))
		return reflect.Value{}
	}
	return value
}

// passthrough keeps value unchanged when shapes disagree and value still fits target
func (s *session) passthrough(src reflect.Value, target reflect.Type) reflect.Value {
	if src = indirectInterface(src); !src.IsValid() {
		return reflect.Value{}
	}
	if src.Type().AssignableTo(target) {
		return src
	}
	value, err := s.options.converter.ConvertTo(interfaceOf(src), target)
	if err != nil {
		message := "skipped value conversion"
		if errors.Is(err, conv.ErrUnsupported) {
			message = "skipped shape mismatch"
		}
		s.options.logger.Debug(message, zap.Stringer("source", src.Type()), zap.Stringer("target", target), zap.Error(err))
		return reflect.Value{}
	}
	return value
}

// isRecord returns true if value can populate struct properties
func isRecord(value reflect.Value) bool {
	value = indirect(value)
	switch value.Kind() {
	case reflect.Map:
		return true
	case reflect.Struct:
		return value.Type() != timeType
	}
	return false
}

func interfaceOf(value reflect.Value) interface{} {
	if !value.IsValid() {
		return nil
	}
	return value.Interface()
}

func indirectInterface(value reflect.Value) reflect.Value {
	for value.IsValid() && value.Kind() == reflect.Interface {
		value = value.Elem()
	}
	return value
}

func isNil(value reflect.Value) bool {
	switch value.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return value.IsNil()
	}
	return false
}

func indirect(value reflect.Value) reflect.Value {
	for value.IsValid() && (value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface) {
		if value.IsNil() {
			return reflect.Value{}
		}
		value = value.Elem()
	}
	return value
}
