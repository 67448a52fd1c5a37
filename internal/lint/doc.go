// Package lint is the rule engine: the Rule contract with its optional
// capabilities, rule parameters, and the Session that dispatches rules over
// syntax trees.
//
// A Session is built once per run from a facade registry, rule configuration
// and an ordered rule list. Analyze then visits one tree: generated-code
// recognition runs once, tree-level callbacks run before the walk, and a
// single pre-order walk fires every interested rule at each node in
// registration order. Rule failures never stop the walk; they are recorded
// in the session error log.
package lint
