package metadata

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"reflect"
	"testing"
	"unsafe"
)

func TestMarker_IsSet(t *testing.T) {
	type EntityHas struct {
		Id     bool
		Name   bool
		Active bool
	}
	type Entity struct {
		Id     int
		Name   string
		Active bool
		Nums   []int
		Has    *EntityHas `setMarker:"true"`
	}

	var testCases = []struct {
		description string
		entity      *Entity
		set         []string
		expectSet   []string
		expectUnset []string
	}{
		{
			description: "nil holder assumes all set",
			entity:      &Entity{},
			expectSet:   []string{"Id", "Name", "Active", "Nums"},
		},
		{
			description: "holder allocated on demand",
			entity:      &Entity{},
			set:         []string{"Name"},
			expectSet:   []string{"Name", "Nums"},
			expectUnset: []string{"Id", "Active"},
		},
		{
			description: "existing holder",
			entity:      &Entity{Has: &EntityHas{Id: true}},
			set:         []string{"Active"},
			expectSet:   []string{"Id", "Active"},
			expectUnset: []string{"Name"},
		},
	}

	registry := New()
	for _, testCase := range testCases {
		marker := registry.Marker(reflect.TypeOf(testCase.entity))
		require.NotNil(t, marker, testCase.description)
		assert.Equal(t, "Has", marker.HolderName(), testCase.description)
		ptr := unsafe.Pointer(testCase.entity)
		for _, name := range testCase.set {
			marker.Set(ptr, name, true)
		}
		for _, name := range testCase.expectSet {
			assert.True(t, marker.IsSet(ptr, name), testCase.description+" "+name)
		}
		for _, name := range testCase.expectUnset {
			assert.False(t, marker.IsSet(ptr, name), testCase.description+" "+name)
		}
		if len(testCase.set) > 0 {
			assert.NotNil(t, testCase.entity.Has, testCase.description)
		}
	}

	props, err := registry.Properties(reflect.TypeOf(Entity{}))
	require.Nil(t, err)
	assert.EqualValues(t, []string{"Id", "Name", "Active", "Nums"}, props, "holder is not a property")
	assert.Nil(t, registry.Marker(reflect.TypeOf(User{})))
}
