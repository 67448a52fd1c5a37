// Package gencode decides whether a source file is generated code.
//
// Facades feed Evidence (path suffixes, header markers, attributes found in
// the tree) into a Classifier that compares the accumulated score against a
// threshold. Collection never changes parsing; it only reads paths, the file
// header and nodes the facade chooses to inspect.
package gencode
