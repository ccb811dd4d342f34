package track

import "reflect"

// Processed maps source identity and target type to already built node
type Processed[V any] struct {
	built map[key]V
}

type key struct {
	Identity
	target reflect.Type
}

// Lookup returns node built for identity and target type
func (p *Processed[V]) Lookup(id Identity, target reflect.Type) (V, bool) {
	v, ok := p.built[key{Identity: id, target: target}]
	return v, ok
}

// Register registers built node, it has to be called before node children are populated
func (p *Processed[V]) Register(id Identity, target reflect.Type, node V) {
	p.built[key{Identity: id, target: target}] = node
}

// Len returns number of registered nodes
func (p *Processed[V]) Len() int {
	return len(p.built)
}

// NewProcessed creates processed map
func NewProcessed[V any]() *Processed[V] {
	return &Processed[V]{built: make(map[key]V)}
}
