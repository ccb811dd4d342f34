package metadata

import (
	"fmt"
	"github.com/viant/tagly/format/text"
	"reflect"
	"sync"
)

type (
	//Registry represents type metadata registry
	Registry struct {
		mux        sync.RWMutex
		tagName    string
		caseFormat text.CaseFormat
		strict     bool
		builders   map[reflect.Type]*TypeBuilder
		types      map[reflect.Type]*Type
	}

	//Type represents struct type metadata
	Type struct {
		rType      reflect.Type
		Properties []*Property
		Marker     *Marker
		byName     map[string]*Property
	}

	//RegistryOption represents registry option
	RegistryOption func(r *Registry)
)

// Type returns struct type
func (t *Type) Type() reflect.Type {
	return t.rType
}

// Lookup returns property by go field name
func (t *Type) Lookup(name string) *Property {
	return t.byName[name]
}

// WithTagName sets name tag, json by default
func WithTagName(name string) RegistryOption {
	return func(r *Registry) {
		r.tagName = name
	}
}

// WithCaseFormat sets output name case format for fields without explicit name
func WithCaseFormat(caseFormat text.CaseFormat) RegistryOption {
	return func(r *Registry) {
		r.caseFormat = caseFormat
	}
}

// WithStrict reports types without explicit registration as unavailable
func WithStrict(strict bool) RegistryOption {
	return func(r *Registry) {
		r.strict = strict
	}
}

var defaultRegistry = New()

// Default returns process-wide registry
func Default() *Registry {
	return defaultRegistry
}

// Register registers type with process-wide registry
func Register(t reflect.Type) *TypeBuilder {
	return defaultRegistry.Register(t)
}

// Clear resets process-wide registry
func Clear() {
	defaultRegistry.Clear()
}

// Clear removes all registrations and cached type metadata
func (r *Registry) Clear() {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.builders = make(map[reflect.Type]*TypeBuilder)
	r.types = make(map[reflect.Type]*Type)
}

// Register returns type builder for explicit registration, builder of non struct type carries an error and ignores rules
func (r *Registry) Register(t reflect.Type) *TypeBuilder {
	rType := structType(t)
	if rType == nil {
		return &TypeBuilder{registry: r, err: fmt.Errorf("metadata: can not register non struct type %v", t)}
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	builder, ok := r.builders[rType]
	if !ok {
		builder = &TypeBuilder{registry: r, rType: rType, rules: map[string]*rule{}}
		r.builders[rType] = builder
	}
	delete(r.types, rType)
	return builder
}

// IsRegistered returns true if type was explicitly registered
func (r *Registry) IsRegistered(t reflect.Type) bool {
	if t = structType(t); t == nil {
		return false
	}
	r.mux.RLock()
	defer r.mux.RUnlock()
	_, ok := r.builders[t]
	return ok
}

// Type returns type metadata, nil for non struct types
func (r *Registry) Type(t reflect.Type) (*Type, error) {
	if t = structType(t); t == nil {
		return nil, nil
	}
	r.mux.RLock()
	ret, ok := r.types[t]
	_, registered := r.builders[t]
	r.mux.RUnlock()
	if ok {
		return ret, nil
	}
	if r.strict && !registered {
		return nil, fmt.Errorf("%w: %v was not registered", ErrMetadataUnavailable, t)
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	if ret, ok = r.types[t]; ok {
		return ret, nil
	}
	ret = r.buildType(t)
	r.types[t] = ret
	return ret, nil
}

// Properties returns go field names of supplied type
func (r *Registry) Properties(t reflect.Type) ([]string, error) {
	aType, err := r.Type(t)
	if err != nil || aType == nil {
		return nil, err
	}
	ret := make([]string, len(aType.Properties))
	for i, prop := range aType.Properties {
		ret[i] = prop.Name
	}
	return ret, nil
}

// Property returns property metadata
func (r *Registry) Property(t reflect.Type, property string) *Property {
	aType, _ := r.Type(t)
	if aType == nil {
		return nil
	}
	return aType.Lookup(property)
}

// Marker returns presence marker of supplied type or nil
func (r *Registry) Marker(t reflect.Type) *Marker {
	aType, _ := r.Type(t)
	if aType == nil {
		return nil
	}
	return aType.Marker
}

// IsExposed returns true if property is exposed
func (r *Registry) IsExposed(t reflect.Type, property string) bool {
	if prop := r.Property(t, property); prop != nil {
		return prop.Exposed
	}
	return false
}

// OutputName returns property output name
func (r *Registry) OutputName(t reflect.Type, property string) string {
	if prop := r.Property(t, property); prop != nil {
		return prop.OutputName
	}
	return property
}

// DeclaredShape returns property shape
func (r *Registry) DeclaredShape(t reflect.Type, property string) Shape {
	if prop := r.Property(t, property); prop != nil {
		return prop.Shape
	}
	return Shape{Kind: ShapeAny}
}

func (r *Registry) buildType(t reflect.Type) *Type {
	ret := &Type{rType: t, byName: map[string]*Property{}}
	r.appendFields(ret, t, 0)
	builder := r.builders[t]
	for _, prop := range ret.Properties {
		if builder != nil {
			builder.apply(prop)
		}
	}
	return ret
}

func (r *Registry) appendFields(ret *Type, t reflect.Type, offset uintptr) {
	var embedded []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if IsSetMarker(field.Tag) {
			if ret.Marker == nil {
				ret.Marker = newMarker(field, offset)
			}
			continue
		}
		tag := parseFieldTag(field, r.tagName)
		if tag.ignore {
			continue
		}
		if (field.Anonymous || tag.inline) && field.Type.Kind() == reflect.Struct && field.Type != timeType && !tag.explicit {
			embedded = append(embedded, field)
			continue
		}
		if !field.IsExported() {
			continue
		}
		if _, ok := ret.byName[field.Name]; ok {
			continue
		}
		prop := newProperty(field, offset)
		prop.OmitEmpty = tag.omitEmpty
		prop.TimeLayout = tag.timeLayout
		prop.OutputName = tag.name
		if !tag.explicit {
			prop.OutputName = formatName(field.Name, r.caseFormat)
		}
		ret.Properties = append(ret.Properties, prop)
		ret.byName[prop.Name] = prop
	}
	for _, field := range embedded {
		r.appendFields(ret, field.Type, offset+field.Offset)
	}
}

func structType(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == timeType {
		return nil
	}
	return t
}

// New creates a registry
func New(opts ...RegistryOption) *Registry {
	ret := &Registry{
		tagName:  "json",
		builders: make(map[reflect.Type]*TypeBuilder),
		types:    make(map[reflect.Type]*Type),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
