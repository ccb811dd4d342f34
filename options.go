package structgraph

import (
	"github.com/viant/structgraph/conv"
	"github.com/viant/structgraph/metadata"
	"go.uber.org/zap"
)

// DefaultMaxDepth limits recursion depth of a single transformation
const DefaultMaxDepth = 10000

type options struct {
	lookup          metadata.Lookup
	converter       *conv.Converter
	logger          *zap.Logger
	maxDepth        int
	timeLayout      string
	nilSliceAsEmpty bool
}

// Option represents transformer option
type Option func(o *options)

// Options represents transformer options
type Options []Option

// Apply applies options
func (o Options) Apply(opts *options) {
	if len(o) == 0 {
		return
	}
	for _, opt := range o {
		opt(opts)
	}
}

// WithLookup sets metadata lookup
func WithLookup(lookup metadata.Lookup) Option {
	return func(o *options) {
		o.lookup = lookup
	}
}

// WithConverter sets primitive value converter
func WithConverter(converter *conv.Converter) Option {
	return func(o *options) {
		o.converter = converter
	}
}

// WithLogger sets logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxDepth sets max recursion depth
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithTimeLayout sets layout for time values without property layout, plain output keeps time.Time values if empty
func WithTimeLayout(layout string) Option {
	return func(o *options) {
		o.timeLayout = layout
	}
}

// WithNilSliceAsEmpty emits nil slices as empty sequences in plain output
func WithNilSliceAsEmpty(flag bool) Option {
	return func(o *options) {
		o.nilSliceAsEmpty = flag
	}
}

func newOptions(opts []Option) *options {
	ret := &options{}
	Options(opts).Apply(ret)
	if ret.lookup == nil {
		ret.lookup = metadata.Default()
	}
	if ret.converter == nil {
		ret.converter = conv.NewConverter(conv.DefaultOptions())
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	if ret.maxDepth <= 0 {
		ret.maxDepth = DefaultMaxDepth
	}
	return ret
}
