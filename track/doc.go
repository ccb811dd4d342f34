// Package track records object identities visited while a graph is walked.
// Path is scoped to the active recursive path and is unwound on return,
// Processed persists for a whole top-level call and maps a source identity
// to the node already built for it.
package track
