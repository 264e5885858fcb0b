// Package harness runs conformance scenarios against the document
// pipeline.
//
// A scenario is a YAML file naming a document file, an optional schema
// definition directory, and a list of assertions over the resolved tree
// and the filled storage table. Scenarios exercise the full path an
// author's document takes: registry construction, tree building,
// resolution, identifier assignment, and storage fill.
//
// Golden tests snapshot the canonical JSON of the resolved tree and the
// storage table. Snapshots exclude the document's process-unique
// identifier, so a scenario whose linkable nodes all carry slugs or
// anchors produces byte-identical goldens on every run.
package harness
