package metadata

import (
	"github.com/viant/xunsafe"
	"reflect"
	"strings"
	"unsafe"
)

const (
	//SetMarkerTag defines presence holder tag
	SetMarkerTag = "setMarker"
	//PresenceMarkerTag defines alternative presence holder tag
	PresenceMarkerTag = "presenceMarker"

	legacyTagFragment = "presence=true"
)

// IsSetMarker returns true if field is a presence holder
func IsSetMarker(tag reflect.StructTag) bool {
	if _, ok := tag.Lookup(SetMarkerTag); ok {
		return true
	}
	if _, ok := tag.Lookup(PresenceMarkerTag); ok {
		return true
	}
	return strings.Contains(string(tag), legacyTagFragment)
}

// Marker tracks which struct properties were populated, it uses a pointer to struct holder with bool fields named after properties
type Marker struct {
	holder *xunsafe.Field
	fields map[string]*xunsafe.Field
}

// HolderName returns holder go field name
func (m *Marker) HolderName() string {
	return m.holder.Name
}

// EnsureHolder allocates holder if needed
func (m *Marker) EnsureHolder(ptr unsafe.Pointer) {
	if !m.holder.IsNil(ptr) {
		return
	}
	holder := reflect.NewAt(m.holder.Type, m.holder.Pointer(ptr)).Elem()
	holder.Set(reflect.New(m.holder.Type.Elem()))
}

// IsTracked returns true if holder was allocated
func (m *Marker) IsTracked(ptr unsafe.Pointer) bool {
	return !m.holder.IsNil(ptr)
}

// Set flags property presence, holder is allocated on demand
func (m *Marker) Set(ptr unsafe.Pointer, name string, flag bool) {
	field, ok := m.fields[name]
	if !ok {
		return
	}
	m.EnsureHolder(ptr)
	field.SetBool(m.holder.ValuePointer(ptr), flag)
}

// IsSet returns true if property was flagged as set, without holder all properties are assumed set
func (m *Marker) IsSet(ptr unsafe.Pointer, name string) bool {
	if m.holder.IsNil(ptr) {
		return true
	}
	field, ok := m.fields[name]
	if !ok {
		return true
	}
	return field.Bool(m.holder.ValuePointer(ptr))
}

// newMarker returns marker for holder field or nil if holder is not a pointer to struct with bool fields
func newMarker(holderField reflect.StructField, offset uintptr) *Marker {
	holderType := holderField.Type
	if holderType.Kind() != reflect.Ptr || holderType.Elem().Kind() != reflect.Struct {
		return nil
	}
	holderField.Offset += offset
	ret := &Marker{holder: xunsafe.NewField(holderField), fields: map[string]*xunsafe.Field{}}
	flags := holderType.Elem()
	for i := 0; i < flags.NumField(); i++ {
		flag := flags.Field(i)
		if flag.Type.Kind() != reflect.Bool {
			continue
		}
		ret.fields[flag.Name] = xunsafe.NewField(flag)
	}
	return ret
}
