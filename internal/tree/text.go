package tree

// Built-in structural schema names. These are seeded into every registry
// and survive wholesale replacement of custom definitions.
const (
	// SchemaText is the plain-text leaf schema.
	SchemaText = "text"
	// SchemaInline is the inline-only container schema.
	SchemaInline = "inline"
	// SchemaContainer is the mixed-content container schema.
	SchemaContainer = "container"
)

// textDataKey is the payload field holding a text node's content.
const textDataKey = "text"

// NewTextNode creates a raw plain-text leaf node. The node's fingerprint
// is the fingerprint of its content.
func NewTextNode(content string) *RawNode {
	return &RawNode{
		SchemaName:  SchemaText,
		TagName:     SchemaText,
		Fingerprint: MustFingerprint(content, DefaultFingerprintLength),
		Data:        Map{textDataKey: String(content)},
	}
}

// TextContent returns a text node's content. ok is false if the node is
// not a plain-text leaf.
func TextContent(n *RawNode) (string, bool) {
	if n == nil || n.SchemaName != SchemaText {
		return "", false
	}
	s, ok := n.Data[textDataKey].(String)
	return string(s), ok
}

// setTextContent replaces a text node's content and re-fingerprints it.
func setTextContent(n *RawNode, content string) {
	n.Data[textDataKey] = String(content)
	n.Fingerprint = MustFingerprint(content, DefaultFingerprintLength)
}

// ComputeFingerprint derives a composite node's content fingerprint from
// its schema, payload, and the fingerprints of its children. The input is
// canonical JSON, so payloads that serialize identically fingerprint
// identically.
func ComputeFingerprint(schemaName string, data Map, children []*RawNode) (string, error) {
	childPrints := make(List, 0, len(children))
	for _, c := range children {
		if c == nil {
			continue
		}
		childPrints = append(childPrints, String(c.Fingerprint))
	}
	src := Map{
		"schema":   String(schemaName),
		"children": childPrints,
	}
	if data != nil {
		src["data"] = data
	}
	canonical, err := MarshalCanonical(src)
	if err != nil {
		return "", err
	}
	return Fingerprint(string(canonical), DefaultFingerprintLength)
}
