// Package resolve implements the raw-to-resolved tree transformation.
//
// Resolution walks a raw tree depth-first and strictly left-to-right,
// invoking author hooks, assigning human-readable identifiers to linkable
// nodes, and recording named anchors. Children are processed sequentially;
// the identifier dedup counter depends on visitation order, so left-to-right
// ordering is a hard guarantee, not an optimization choice.
//
// A resolution returns the resolved root, the anchor-name to resolved-node
// map, and the full set of identifiers consumed. Feeding that set back in
// as ReservedIDs lets a sibling document resolve without identifier
// collisions.
package resolve
