// Package graph composes predictors into a DAG (Directed Acyclic Graph)
// and executes them in dependency order against a shared input batch.
//
// A Builder accumulates nodes during a build phase; each node declares
// which earlier nodes feed it, so insertion order is topologically valid
// by construction and cycles cannot be expressed. Freeze produces an
// immutable Graph snapshot, which an Executor traverses in a single pass:
// per node it scopes the base selection to every upstream output, threads
// upstream results forward as dependencies, and records the predictor's
// result for downstream consumers.
//
//	b := graph.NewBuilder()
//	m1, _ := b.Add(embedder)
//	m2, _ := b.Add(ranker, graph.WithInputs(m1), graph.WithAcceptsData(true))
//	m3, _ := b.Add(classifier, graph.WithInputs(m1, m2))
//	g, _ := b.Freeze()
//
//	result, err := graph.NewExecutor().Execute(ctx, g, graph.ExecuteRequest{
//		Data:      batch,
//		Selection: sel,
//	})
//
// Execution is strictly sequential over insertion order. Levels of
// mutually independent nodes are still computed at freeze time so a
// future engine can dispatch them concurrently, but this executor does
// not: predictors may return asynchronous handles, and serializing
// those is the external scheduler's job, not ours.
package graph
