package yaml

import (
	"bytes"
	"fmt"
	"io"

	"github.com/viant/structgraph"
	"gopkg.in/yaml.v3"
)

// Marshal converts value into plain tree and encodes it as YAML, circular references are truncated
func Marshal(value interface{}, opts ...structgraph.Option) ([]byte, error) {
	plain, err := structgraph.ToPlain(value, opts...)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(plain)
}

// Unmarshal decodes YAML document into dest pointer, empty data leaves dest untouched
func Unmarshal(data []byte, dest interface{}, opts ...structgraph.Option) error {
	err := NewDecoder(bytes.NewReader(data), opts...).Decode(dest)
	if err == io.EOF {
		return nil
	}
	return err
}

// Encoder writes typed graphs as YAML documents
type Encoder struct {
	transformer *structgraph.Transformer
	encoder     *yaml.Encoder
}

// SetIndent sets number of indentation spaces
func (e *Encoder) SetIndent(spaces int) {
	e.encoder.SetIndent(spaces)
}

// Encode writes value as YAML document, documents are separated with ---
func (e *Encoder) Encode(value interface{}) error {
	plain, err := e.transformer.ToPlain(value)
	if err != nil {
		return err
	}
	return e.encoder.Encode(plain)
}

// Close flushes encoder
func (e *Encoder) Close() error {
	return e.encoder.Close()
}

// NewEncoder creates an encoder
func NewEncoder(w io.Writer, opts ...structgraph.Option) *Encoder {
	return &Encoder{transformer: structgraph.New(opts...), encoder: yaml.NewEncoder(w)}
}

// Decoder reads YAML documents into typed graphs
type Decoder struct {
	transformer *structgraph.Transformer
	decoder     *yaml.Decoder
}

// Decode reads next document into dest pointer, io.EOF is returned when there are no more documents
func (d *Decoder) Decode(dest interface{}) error {
	var plain interface{}
	if err := d.decoder.Decode(&plain); err != nil {
		if err == io.EOF {
			return err
		}
		return fmt.Errorf("failed to decode yaml: %w", err)
	}
	return d.transformer.Convert(plain, dest)
}

// NewDecoder creates a decoder
func NewDecoder(r io.Reader, opts ...structgraph.Option) *Decoder {
	return &Decoder{transformer: structgraph.New(opts...), decoder: yaml.NewDecoder(r)}
}
