package registry

import (
	"context"

	"github.com/pagefold/stele/internal/tree"
)

// StorageCreator generates the side-table value for a resolved node.
// Creators may block on lookups or IO; the storage filler awaits them.
type StorageCreator func(ctx context.Context, n *tree.ResolvedNode) (tree.Value, error)

// Definition bundles everything a registry holds for one schema: the
// descriptor, the tag name that constructs it, and an optional storage
// creator.
type Definition struct {
	Schema tree.Schema

	// Tag is the authoring tag name bound to the schema. Empty means the
	// schema name doubles as the tag name.
	Tag string

	// StorageCreator, if non-nil, is invoked by the storage filler for
	// resolved nodes of this schema that carry a storage key.
	StorageCreator StorageCreator
}

// TagName returns the effective tag name for the definition.
func (d Definition) TagName() string {
	if d.Tag != "" {
		return d.Tag
	}
	return d.Schema.Name
}

// Registry is the catalog of schemas, tags, and storage creators.
type Registry struct {
	schemas  map[string]tree.Schema
	tags     map[string]string // tag name -> schema name
	creators map[string]StorageCreator
	builtins map[string]bool // schema names that survive ReplaceAll
}

// New creates a registry seeded with the built-in structural schemas.
func New() *Registry {
	r := &Registry{}
	r.reset()
	return r
}

// reset clears all entries and re-seeds the built-ins.
func (r *Registry) reset() {
	r.schemas = make(map[string]tree.Schema)
	r.tags = make(map[string]string)
	r.creators = make(map[string]StorageCreator)
	r.builtins = make(map[string]bool)
	for _, def := range builtinDefinitions() {
		// Built-ins are seeded into fresh maps; collisions are impossible.
		r.schemas[def.Schema.Name] = def.Schema
		r.tags[def.TagName()] = def.Schema.Name
		r.builtins[def.Schema.Name] = true
	}
}

// builtinDefinitions returns the structural schemas present in every
// registry: a plain-text leaf, an inline-only container, and a
// mixed-content container.
func builtinDefinitions() []Definition {
	return []Definition{
		{Schema: tree.Schema{Name: tree.SchemaText, Kind: tree.KindInline}},
		{Schema: tree.Schema{
			Name:         tree.SchemaInline,
			Kind:         tree.KindInline,
			ChildSchemas: []string{tree.SchemaText, tree.SchemaInline},
		}},
		{Schema: tree.Schema{Name: tree.SchemaContainer, Kind: tree.KindBlock}},
	}
}

// Add registers one definition. It fails with DUPLICATE_DEFINITION if the
// schema name or the tag name is already taken.
func (r *Registry) Add(def Definition) error {
	name := def.Schema.Name
	if name == "" {
		return tree.NewInvalidArgument("schema name must not be empty")
	}
	if _, ok := r.schemas[name]; ok {
		return tree.NewDuplicateDefinition(name)
	}
	tag := def.TagName()
	if _, ok := r.tags[tag]; ok {
		return tree.NewDuplicateDefinition(tag)
	}
	r.schemas[name] = def.Schema
	r.tags[tag] = name
	if def.StorageCreator != nil {
		r.creators[name] = def.StorageCreator
	}
	return nil
}

// AddMany registers definitions in order, stopping at the first failure.
func (r *Registry) AddMany(defs []Definition) error {
	for _, def := range defs {
		if err := r.Add(def); err != nil {
			return err
		}
	}
	return nil
}

// Remove unregisters the definition whose schema has the given name,
// along with its tag and storage creator. Removing an absent or built-in
// name is a no-op.
func (r *Registry) Remove(name string) {
	if r.builtins[name] {
		return
	}
	if _, ok := r.schemas[name]; !ok {
		return
	}
	delete(r.schemas, name)
	delete(r.creators, name)
	for tag, schemaName := range r.tags {
		if schemaName == name {
			delete(r.tags, tag)
		}
	}
}

// ReplaceAll clears every non-built-in entry, re-seeds the built-ins, and
// registers the given definitions. On failure the registry holds the
// built-ins plus the definitions added before the failing one.
func (r *Registry) ReplaceAll(defs []Definition) error {
	r.reset()
	return r.AddMany(defs)
}

// Schema returns the descriptor registered under name.
func (r *Registry) Schema(name string) (tree.Schema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return tree.Schema{}, tree.NewNotFound("schema", name)
	}
	return s, nil
}

// Tag returns the schema the given tag name constructs.
func (r *Registry) Tag(tag string) (tree.Schema, error) {
	name, ok := r.tags[tag]
	if !ok {
		return tree.Schema{}, tree.NewNotFound("tag", tag)
	}
	return r.schemas[name], nil
}

// StorageCreators returns a snapshot of schema name to storage creator
// for every registered definition that declares one. Later registry
// mutation does not affect the snapshot.
func (r *Registry) StorageCreators() map[string]StorageCreator {
	out := make(map[string]StorageCreator, len(r.creators))
	for name, c := range r.creators {
		out[name] = c
	}
	return out
}
