package track

import (
	"github.com/stretchr/testify/assert"
	"reflect"
	"testing"
)

type node struct {
	Name string
	Next *node
}

func TestPath_EnterLeave(t *testing.T) {
	a := &node{Name: "a"}
	b := &node{Name: "b"}
	idA, _ := Of(a)
	idB, _ := Of(b)

	path := NewPath()
	assert.True(t, path.Enter(idA))
	assert.False(t, path.Enter(idA), "already open")
	assert.True(t, path.Enter(idB))
	assert.Equal(t, 2, path.Depth())

	path.Leave(idB)
	assert.False(t, path.Has(idB))
	assert.True(t, path.Has(idA))
	assert.True(t, path.Enter(idB), "reopened after backtrack")

	path.Leave(idB)
	path.Leave(idA)
	assert.Equal(t, 0, path.Depth())
	path.Leave(idA)
	assert.Equal(t, 0, path.Depth())
}

func TestIdentityOf(t *testing.T) {
	var testCases = []struct {
		description string
		left        interface{}
		right       interface{}
		expectOk    bool
		expectSame  bool
	}{
		{
			description: "same pointer",
			left:        &node{Name: "x"},
			expectOk:    true,
			expectSame:  true,
		},
		{
			description: "structurally equal distinct pointers",
			left:        &node{Name: "x"},
			right:       &node{Name: "x"},
			expectOk:    true,
		},
		{
			description: "map",
			left:        map[string]interface{}{"k": 1},
			expectOk:    true,
			expectSame:  true,
		},
		{
			description: "struct value has no identity",
			left:        node{Name: "x"},
		},
		{
			description: "nil pointer has no identity",
			left:        (*node)(nil),
		},
	}
	for _, testCase := range testCases {
		right := testCase.right
		if right == nil {
			right = testCase.left
		}
		left, ok := Of(testCase.left)
		assert.Equal(t, testCase.expectOk, ok, testCase.description)
		if !ok {
			continue
		}
		other, _ := Of(right)
		assert.Equal(t, testCase.expectSame, left == other, testCase.description)
	}
}

func TestIdentityOf_TypeDistinguishesSharedAddress(t *testing.T) {
	holder := &node{Name: "x"}
	first := &holder.Name
	idHolder, _ := IdentityOf(reflect.ValueOf(holder))
	idField, _ := IdentityOf(reflect.ValueOf(first))
	assert.Equal(t, idHolder.Ptr, idField.Ptr)
	assert.NotEqual(t, idHolder, idField)
}

func TestProcessed(t *testing.T) {
	src := &node{Name: "a"}
	id, _ := Of(src)
	processed := NewProcessed[*node]()
	target := reflect.TypeOf(&node{})
	_, ok := processed.Lookup(id, target)
	assert.False(t, ok)

	built := &node{}
	processed.Register(id, target, built)
	actual, ok := processed.Lookup(id, target)
	assert.True(t, ok)
	assert.Same(t, built, actual)

	_, ok = processed.Lookup(id, reflect.TypeOf(map[string]interface{}{}))
	assert.False(t, ok, "target type is part of the key")
	assert.Equal(t, 1, processed.Len())
}
