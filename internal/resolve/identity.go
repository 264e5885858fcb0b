package resolve

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pagefold/stele/internal/tree"
)

// IDSet is a set of identifiers the assigner must never produce again.
type IDSet map[string]struct{}

// NewIDSet creates a set holding the given identifiers.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports membership.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts an identifier.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Kebab converts an identifier source to ASCII kebab-case: camelCase
// humps, spaces, and underscores become dash boundaries, letters are
// lowered, and non-alphanumeric runs collapse to a single dash.
// A source that leaves nothing behind is a malformed identifier.
func Kebab(source string) (string, error) {
	var b strings.Builder
	prevLower := false
	prevDash := true // suppress a leading dash
	for _, r := range source {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevLower = true
			prevDash = false
		case r >= 'A' && r <= 'Z':
			if prevLower && !prevDash {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
			}
			prevLower = false
			prevDash = true
		}
	}
	id := strings.TrimRight(b.String(), "-")
	if id == "" {
		return "", tree.NewInvalidArgument(fmt.Sprintf("identifier source %q contains no usable characters", source))
	}
	return id, nil
}

// assignID gives a node a unique human-readable identifier.
//
// Anchor-bearing nodes take the kebab-cased anchor name verbatim: anchor
// identifiers are never deduplicated with a numeric suffix, a collision is
// always an error. Other nodes derive a base from the kebab-cased slug,
// falling back to schemaName-fingerprint, then probe base, base-1, base-2,
// ... against both the reserved set and the pre-scanned anchor identifiers
// until a free candidate is found.
//
// The returned identifier is recorded in reserved before returning.
func assignID(reserved, anchorReserved IDSet, n *tree.RawNode) (string, error) {
	if n.AnchorName != "" {
		id, err := Kebab(n.AnchorName)
		if err != nil {
			return "", err
		}
		if reserved.Has(id) {
			return "", tree.NewDuplicateAnchorID("anchor identifier is already reserved", id)
		}
		reserved.Add(id)
		return id, nil
	}

	var base string
	if n.Slug != "" {
		var err error
		base, err = Kebab(n.Slug)
		if err != nil {
			return "", err
		}
	} else {
		base = n.SchemaName + "-" + n.Fingerprint
	}

	candidate := base
	for suffix := 1; reserved.Has(candidate) || anchorReserved.Has(candidate); suffix++ {
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
	reserved.Add(candidate)
	return candidate, nil
}
