// Package registry implements the catalog mapping schema names to schema
// descriptors, tag names to constructors, and schema names to storage
// creators.
//
// A Registry is an explicit instance threaded through every call; there is
// no process-global catalog. Tests create a fresh registry per test
// instead of relying on shared teardown.
//
// Every registry is seeded with the built-in structural schemas (plain
// text, inline-only container, mixed-content container). Wholesale
// replacement of custom definitions always re-seeds the built-ins.
//
// Registry mutation is not synchronized against concurrent resolution;
// callers must serialize mutation relative to resolution.
package registry
