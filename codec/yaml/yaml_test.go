package yaml

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"io"
	"strings"
	"testing"
)

type Service struct {
	Name         string         `json:"name"`
	Port         int            `json:"port"`
	Dependencies []*Service     `json:"dependencies"`
	Parent       *Service       `json:"parent"`
	Settings     map[string]any `json:"settings,omitempty"`
}

func TestMarshal(t *testing.T) {
	api := &Service{Name: "api", Port: 8080}
	db := &Service{Name: "db", Port: 5432, Parent: api, Dependencies: []*Service{api}}
	api.Dependencies = []*Service{db}

	data, err := Marshal(api)
	require.Nil(t, err)

	var actual interface{}
	require.Nil(t, yaml.Unmarshal(data, &actual))
	assert.Equal(t, map[string]interface{}{
		"name":   "api",
		"port":   8080,
		"parent": nil,
		"dependencies": []interface{}{
			map[string]interface{}{"name": "db", "port": 5432, "dependencies": []interface{}{}},
		},
	}, actual)
}

func TestUnmarshal(t *testing.T) {
	document := `
name: api
port: "8080"
settings:
  retries: 3
dependencies:
  - name: db
    port: 5432
    settings:
      1: one
`
	service := &Service{}
	require.Nil(t, Unmarshal([]byte(document), service))
	assert.Equal(t, "api", service.Name)
	assert.Equal(t, 8080, service.Port)
	assert.Equal(t, map[string]any{"retries": 3}, service.Settings)
	require.Len(t, service.Dependencies, 1)
	assert.Equal(t, 5432, service.Dependencies[0].Port)
	assert.Equal(t, map[string]any{"1": "one"}, service.Dependencies[0].Settings)

	assert.NotNil(t, Unmarshal([]byte("name: [unclosed"), service))
}

func TestUnmarshal_Empty(t *testing.T) {
	for _, data := range []string{"", "  \n"} {
		service := &Service{Name: "kept"}
		require.Nil(t, Unmarshal([]byte(data), service))
		assert.Equal(t, &Service{Name: "kept"}, service)
	}
}

func TestEncoderDecoder(t *testing.T) {
	buffer := new(bytes.Buffer)
	encoder := NewEncoder(buffer)
	encoder.SetIndent(2)
	require.Nil(t, encoder.Encode(&Service{Name: "a", Port: 1}))
	require.Nil(t, encoder.Encode(&Service{Name: "b", Port: 2}))
	require.Nil(t, encoder.Close())

	decoder := NewDecoder(strings.NewReader(buffer.String()))
	var names []string
	for {
		service := &Service{}
		err := decoder.Decode(service)
		if err == io.EOF {
			break
		}
		require.Nil(t, err)
		names = append(names, service.Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)
}
