package metadata

import "reflect"

type (
	//TypeBuilder registers explicit metadata rules for a struct type
	TypeBuilder struct {
		registry   *Registry
		rType      reflect.Type
		excludeAll bool
		rules      map[string]*rule
		err        error
	}

	rule struct {
		exposed    *bool
		name       string
		nested     reflect.Type
		timeLayout string
		toPlain    ValueFunc
		toInstance ValueFunc
	}
)

// ExcludeAll excludes all properties but explicitly exposed ones
func (b *TypeBuilder) ExcludeAll() *TypeBuilder {
	b.update(func() { b.excludeAll = true })
	return b
}

// Expose exposes properties
func (b *TypeBuilder) Expose(names ...string) *TypeBuilder {
	b.update(func() {
		for _, name := range names {
			exposed := true
			b.rule(name).exposed = &exposed
		}
	})
	return b
}

// Exclude excludes properties
func (b *TypeBuilder) Exclude(names ...string) *TypeBuilder {
	b.update(func() {
		for _, name := range names {
			exposed := false
			b.rule(name).exposed = &exposed
		}
	})
	return b
}

// Rename sets property output name
func (b *TypeBuilder) Rename(name, outputName string) *TypeBuilder {
	b.update(func() { b.rule(name).name = outputName })
	return b
}

// Type declares nested type of property value, for arrays and maps it is an element type
func (b *TypeBuilder) Type(name string, nested reflect.Type) *TypeBuilder {
	b.update(func() { b.rule(name).nested = nested })
	return b
}

// TimeLayout sets property time layout
func (b *TypeBuilder) TimeLayout(name, layout string) *TypeBuilder {
	b.update(func() { b.rule(name).timeLayout = layout })
	return b
}

// Transform sets property value converters, either can be nil
func (b *TypeBuilder) Transform(name string, toPlain, toInstance ValueFunc) *TypeBuilder {
	b.update(func() {
		aRule := b.rule(name)
		aRule.toPlain = toPlain
		aRule.toInstance = toInstance
	})
	return b
}

// Err returns registration error, rules of a failed registration are ignored
func (b *TypeBuilder) Err() error {
	return b.err
}

func (b *TypeBuilder) rule(name string) *rule {
	ret, ok := b.rules[name]
	if !ok {
		ret = &rule{}
		b.rules[name] = ret
	}
	return ret
}

func (b *TypeBuilder) update(fn func()) {
	if b.err != nil {
		return
	}
	b.registry.mux.Lock()
	defer b.registry.mux.Unlock()
	fn()
	delete(b.registry.types, b.rType)
}

func (b *TypeBuilder) apply(prop *Property) {
	if b.excludeAll {
		prop.Exposed = false
	}
	aRule, ok := b.rules[prop.Name]
	if !ok {
		return
	}
	if aRule.exposed != nil {
		prop.Exposed = *aRule.exposed
	}
	if aRule.name != "" {
		prop.OutputName = aRule.name
	}
	if aRule.nested != nil {
		prop.Shape = declaredShape(prop.Field.Type, aRule.nested)
	}
	if aRule.timeLayout != "" {
		prop.TimeLayout = aRule.timeLayout
	}
	if aRule.toPlain != nil {
		prop.ToPlain = aRule.toPlain
	}
	if aRule.toInstance != nil {
		prop.ToInstance = aRule.toInstance
	}
}
