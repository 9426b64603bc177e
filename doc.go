// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package obdd provides a concurrency-safe library for manipulating Boolean
// functions in a strong canonical form, using Reduced Ordered Binary
// Decision Diagrams (ROBDD).
//
// All the functions of a computation live inside a shared Manager, created
// with a fixed node capacity, operation-cache capacity and worker count.
// Functions are immutable handles: they are combined with operations such as
// And, Ite or Exist into new handles, and two handles represent the same
// Boolean function exactly when Eq returns true, a constant-time test.
//
// Memory is managed automatically. Nodes no longer reachable from a live
// handle are reclaimed by a mark-and-sweep pass when the node table fills
// up, or on an explicit call to GC. When reclamation cannot free a single
// slot, operations fail with ErrOutOfCapacity instead of growing the table.
//
// A manager is safe for concurrent use: any number of goroutines may run
// operations on the same manager at the same time. Independently, a manager
// created with more than one worker splits individual operations recursively
// over a fixed pool of goroutines.
package obdd
