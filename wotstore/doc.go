// Package wotstore: see types.go for the concurrency model and data
// layout; this file documents the invariants every exported method
// must preserve.
//
// Invariants (see store_test.go for the property tests):
//
//  1. For every v, u: u is in out[v] if and only if v is in in[u].
//  2. out[v] and in[v] are strictly sorted ascending and duplicate-free.
//  3. len(out) == len(in) == number of assigned vids.
//  4. Every entry in out[v] references an already-assigned vid.
//  5. label<->vid is injective and total over observed labels; IDOf and
//     LabelOf never allocate a new label string.
package wotstore
