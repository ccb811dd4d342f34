// Package json encodes typed graphs as JSON and decodes JSON into typed graphs.
//
// Values are converted to plain trees with structgraph before encoding with
// github.com/goccy/go-json, so self referencing graphs encode without
// recursion errors. Decoding produces a plain tree first, then builds the
// target graph with numbers coerced into declared field types.
package json
