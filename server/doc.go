// Package server exposes graph execution over HTTP.
//
// The server is backed by Gin with h2c so HTTP/2 clients can connect
// without TLS. Graphs are described by YAML manifests, built against a
// predictor registry, and executed synchronously or handed to the job
// scheduler for asynchronous passes.
package server
