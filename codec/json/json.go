package json

import (
	"bytes"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
	"github.com/viant/structgraph"
)

// Marshal converts value into plain tree and encodes it, circular references are truncated
func Marshal(value interface{}, opts ...structgraph.Option) ([]byte, error) {
	plain, err := structgraph.ToPlain(value, opts...)
	if err != nil {
		return nil, err
	}
	return gojson.Marshal(plain)
}

// Unmarshal decodes data into plain tree and converts it into dest pointer, empty data leaves dest untouched
func Unmarshal(data []byte, dest interface{}, opts ...structgraph.Option) error {
	err := NewDecoder(bytes.NewReader(data), opts...).Decode(dest)
	if err == io.EOF {
		return nil
	}
	return err
}

// Encoder writes plain trees of typed graphs as JSON
type Encoder struct {
	transformer *structgraph.Transformer
	encoder     *gojson.Encoder
}

// SetIndent sets encoder indentation
func (e *Encoder) SetIndent(prefix, indent string) {
	e.encoder.SetIndent(prefix, indent)
}

// Encode writes value as JSON document
func (e *Encoder) Encode(value interface{}) error {
	plain, err := e.transformer.ToPlain(value)
	if err != nil {
		return err
	}
	return e.encoder.Encode(plain)
}

// NewEncoder creates an encoder
func NewEncoder(w io.Writer, opts ...structgraph.Option) *Encoder {
	return &Encoder{transformer: structgraph.New(opts...), encoder: gojson.NewEncoder(w)}
}

// Decoder reads JSON documents into typed graphs
type Decoder struct {
	transformer *structgraph.Transformer
	decoder     *gojson.Decoder
}

// Decode reads next JSON document into dest pointer
func (d *Decoder) Decode(dest interface{}) error {
	var plain interface{}
	if err := d.decoder.Decode(&plain); err != nil {
		if err == io.EOF {
			return err
		}
		return fmt.Errorf("failed to decode json: %w", err)
	}
	return d.transformer.Convert(plain, dest)
}

// NewDecoder creates a decoder
func NewDecoder(r io.Reader, opts ...structgraph.Option) *Decoder {
	return &Decoder{transformer: structgraph.New(opts...), decoder: gojson.NewDecoder(r)}
}
