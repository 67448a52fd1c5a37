// Package syntax defines the language-agnostic view of a parsed file that the
// analysis engine and rules work against.
//
// # Kinds
//
// Kind is an opaque tag. Every supported language declares its own named
// integer type implementing Kind (see internal/lang/golang and
// internal/lang/csharp), so two languages never share a value space: kinds of
// different languages compare unequal even when their numeric values match.
// The engine only compares and hashes kinds.
//
// # Ownership
//
// A Tree owns its nodes. Node.Parent is a back-reference only. Trees, nodes
// and semantic models live for one analysis pass over one file and are
// never mutated by rules.
package syntax
