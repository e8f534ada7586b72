// Package jobs provides an in-process scheduler for asynchronous work
// with explicit dependencies between submitted jobs.
//
// A submitted job is represented by a Handle. Handles can be declared
// as dependencies of later jobs; the scheduler starts a job only after
// all of its dependencies have finished, and fails it immediately if
// any dependency failed. Completed handles are retained in a TTL cache
// so callers can look results up by ID after the fact.
//
// The package also bridges to the graph package: SubmitPass runs a
// whole execution pass as a single job.
package jobs
