// Package tree provides the foundational node types for the stele document
// content model.
//
// This package contains the raw and resolved node types, the typed value
// union used for node payloads, canonical JSON serialization, content
// fingerprinting, named anchors, the generic tree walker, and the children
// normalizer. All other internal packages import tree; tree imports nothing
// internal, which keeps it the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - NO float types in node payloads - use Int (int64) for numbers.
//     Floats break fingerprint determinism across serializations.
//   - Raw nodes are values: construction deep-clones incoming children,
//     so a node inserted into two trees never shares mutable state.
//   - Resolved nodes are immutable outputs of resolution; ownership
//     transfers fully to the caller.
//   - All identifiers are ASCII kebab-case strings.
package tree
