package track

// Path represents identities opened on the active recursive path
type Path struct {
	open  map[Identity]struct{}
	stack []Identity
}

// Enter opens identity, returns false if identity is already open on the path
func (p *Path) Enter(id Identity) bool {
	if _, ok := p.open[id]; ok {
		return false
	}
	p.open[id] = struct{}{}
	p.stack = append(p.stack, id)
	return true
}

// Leave undoes the most recent Enter of identity
func (p *Path) Leave(id Identity) {
	if _, ok := p.open[id]; !ok {
		return
	}
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i] != id {
			continue
		}
		p.stack = append(p.stack[:i], p.stack[i+1:]...)
		break
	}
	delete(p.open, id)
}

// Has returns true if identity is open
func (p *Path) Has(id Identity) bool {
	_, ok := p.open[id]
	return ok
}

// Depth returns number of open identities
func (p *Path) Depth() int {
	return len(p.stack)
}

// NewPath creates a path
func NewPath() *Path {
	return &Path{open: make(map[Identity]struct{})}
}
