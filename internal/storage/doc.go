// Package storage implements the asynchronous side-table population pass
// over a resolved tree.
//
// Filling visits the tree depth-first. Sibling subtrees are processed with
// structural concurrency: children of one node run in parallel with each
// other, since storage values are pure functions of node content and do
// not depend on traversal order. Two guarantees hold:
//
//   - A value present in the table at check time is never overwritten.
//     Every write goes through SetIfAbsent.
//   - Within one Fill call, a storage creator runs at most once per key,
//     even when the key appears under concurrently processed siblings.
//     In-flight invocations are deduplicated per key.
//
// Re-running Fill against a partially populated table is therefore
// idempotent: existing entries are left untouched.
//
// Two table implementations are provided: an in-memory map and a
// SQLite-backed table whose SetIfAbsent is an INSERT that does nothing on
// key conflict.
package storage
