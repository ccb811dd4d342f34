// Package yaml encodes typed graphs as YAML and decodes YAML into typed graphs
// using gopkg.in/yaml.v3 over structgraph plain trees.
package yaml
