// Package lang defines the language facade: the one place where the engine
// learns about node kinds, generated-code recognition and semantic queries of
// a concrete source language. Rules talk to a Facade and never to a parser.
//
// A Registry maps language IDs and file extensions to facades. There is no
// process-wide registry; callers build one explicitly.
package lang
