// Package structgraph converts between plain data trees (maps, slices and
// primitives) and typed Go object graphs, tolerating circular references.
//
// ToPlain walks a typed graph and truncates any property that would re-enter
// an object already open on the current path: array shaped properties become
// an empty slice, other properties are omitted. The same object reached
// through a non-cyclic path is still fully expanded.
//
// ToInstance, Convert and Clone build typed graphs. Every source object is
// built once per call and registered before its properties are populated, so
// cyclic and shared references are preserved as shared references in the
// result.
//
// Property exposure, output names and nested types come from a
// metadata.Lookup, metadata.Default() unless WithLookup is used.
package structgraph
