// Package query provides an immutable data-selection value that
// satisfies graph.Selection.
//
// A Select describes which stored documents a predictor should read:
// a collection, a filter, and an ordered list of output scopes naming
// upstream predictors whose persisted outputs the selection joins in.
// Every composition method returns a new value; a base selection can be
// scoped independently for every node of a graph.
package query
