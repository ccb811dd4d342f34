// Package conv provides primitive value coercion used when a plain value
// lands in a typed field: numbers, strings, booleans and time parsing, with
// custom conversion functions registered per source/destination type.
// Containers are out of its reach and report ErrUnsupported.
package conv
