package structgraph

import (
	"errors"
	"fmt"
	"github.com/viant/structgraph/track"
	"reflect"
)

type (
	//Transformer converts between plain trees and typed graphs
	Transformer struct {
		options *options
	}

	//session holds state of a single top-level call
	session struct {
		options   *options
		plans     map[reflect.Type]*plan
		path      *track.Path
		processed *track.Processed[reflect.Value]
		depth     int
	}
)

// New creates a transformer
func New(opts ...Option) *Transformer {
	return &Transformer{options: newOptions(opts)}
}

func (t *Transformer) newSession() *session {
	return &session{
		options:   t.options,
		plans:     map[reflect.Type]*plan{},
		path:      track.NewPath(),
		processed: track.NewProcessed[reflect.Value](),
	}
}

// ToPlain converts value into plain tree, circular references are truncated
func (t *Transformer) ToPlain(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	s := t.newSession()
	ret, _, err := s.toPlain(reflect.ValueOf(value), t.options.timeLayout)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// ToInstance converts plain tree or typed graph into a new graph of target type, circular references are preserved
func (t *Transformer) ToInstance(src interface{}, targetType reflect.Type) (interface{}, error) {
	if targetType == nil {
		return nil, errors.New("target type was nil")
	}
	s := t.newSession()
	ret, err := s.build(reflect.ValueOf(src), targetType, nil, t.options.timeLayout)
	if err != nil {
		return nil, err
	}
	if !ret.IsValid() {
		return zeroOf(targetType).Interface(), nil
	}
	return ret.Interface(), nil
}

// Convert converts src into dest pointer
func (t *Transformer) Convert(src interface{}, dest interface{}) error {
	destValue := reflect.ValueOf(dest)
	if !destValue.IsValid() || destValue.Kind() != reflect.Ptr || destValue.IsNil() {
		return fmt.Errorf("destination must be a non nil pointer, but had %T", dest)
	}
	s := t.newSession()
	ret, err := s.build(reflect.ValueOf(src), destValue.Type().Elem(), nil, t.options.timeLayout)
	if err != nil {
		return err
	}
	if ret.IsValid() {
		destValue.Elem().Set(ret)
	}
	return nil
}

// ToPlain converts value into plain tree
func ToPlain(value interface{}, opts ...Option) (interface{}, error) {
	return New(opts...).ToPlain(value)
}

// ToInstance converts src into a new value of target type
func ToInstance(src interface{}, targetType reflect.Type, opts ...Option) (interface{}, error) {
	return New(opts...).ToInstance(src, targetType)
}

// Convert converts src into dest pointer
func Convert(src interface{}, dest interface{}, opts ...Option) error {
	return New(opts...).Convert(src, dest)
}

// Instance converts src into a new value of T
func Instance[T any](src interface{}, opts ...Option) (T, error) {
	var ret T
	err := New(opts...).Convert(src, &ret)
	return ret, err
}

// Clone returns a deep copy of src graph, shared and circular references are rebuilt as shared references
func Clone[T any](src T, opts ...Option) (T, error) {
	return Instance[T](src, opts...)
}

func (s *session) enterDepth() error {
	s.depth++
	if s.depth > s.options.maxDepth {
		return fmt.Errorf("%w: %v", ErrMaxDepthExceeded, s.options.maxDepth)
	}
	return nil
}

func (s *session) leaveDepth() {
	s.depth--
}
