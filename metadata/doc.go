// Package metadata describes which properties of a Go type take part in a
// transformation, under which output name, and what nested type each holds.
//
// Registry derives that description from struct fields and their json/format
// tags, and lets callers override it with explicit registration:
//
//	metadata.Register(reflect.TypeOf(Photo{})).
//		Exclude("Checksum").
//		Rename("Filename", "file").
//		Type("Owner", reflect.TypeOf(&User{}))
//
// The process-wide registry returned by Default is read-mostly; Clear resets it.
package metadata
