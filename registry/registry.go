package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/invopop/jsonschema"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/application/schema"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

// Registry is an immutable collection of shard kinds.
// Once created via New, kinds cannot be added or removed.
type Registry struct {
	factories   map[string]Factory
	descriptors map[string]Descriptor
	byHash      map[uint32]string
	names       []string // sorted for consistent iteration
	middleware  []Middleware
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	entries    map[string]Entry
	descs      map[string]Descriptor
	hashes     map[uint32]string
	middleware []Middleware
	errors     []error
}

// Option is a functional option for configuring a Registry.
type Option func(*registryBuilder)

// New creates an immutable Registry with the given options.
// Returns the first registration error, such as a duplicate name or hash.
func New(opts ...Option) (*Registry, error) {
	b := &registryBuilder{
		entries: make(map[string]Entry),
		descs:   make(map[string]Descriptor),
		hashes:  make(map[uint32]string),
	}

	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	names := make([]string, 0, len(b.entries))
	factories := make(map[string]Factory, len(b.entries))
	for name, e := range b.entries {
		names = append(names, name)
		factories[name] = e.Factory
	}
	sort.Strings(names)

	return &Registry{
		factories:   factories,
		descriptors: b.descs,
		byHash:      b.hashes,
		names:       names,
		middleware:  b.middleware,
	}, nil
}

// Create builds a new instance of the named kind with middleware applied.
func (r *Registry) Create(name string) (shards.Shard, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown shard %q", name)
	}
	return wrap(f(), r.middleware), nil
}

// CreateByHash builds a new instance from a persisted hash.
func (r *Registry) CreateByHash(hash uint32) (shards.Shard, error) {
	name, ok := r.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("unknown shard hash %08x", hash)
	}
	return r.Create(name)
}

// Lookup returns the descriptor of a kind.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.descriptors[name]
	return d, ok
}

// Parameters returns the parameter table of a kind.
func (r *Registry) Parameters(name string) (entities.Parameters, bool) {
	d, ok := r.descriptors[name]
	return d.Parameters, ok
}

// Schema renders the parameter table of a kind as a JSON Schema object
// keyed by parameter name.
func (r *Registry) Schema(name string) (*jsonschema.Schema, bool) {
	d, ok := r.descriptors[name]
	if !ok {
		return nil, false
	}
	return schema.ForParameters(name, d.Parameters), true
}

// Has returns true if a kind with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Names returns a sorted list of all registered kind names.
func (r *Registry) Names() []string {
	result := make([]string, len(r.names))
	copy(result, r.names)
	return result
}

// Match returns the sorted names matching a doublestar pattern, with "." as
// the separator, e.g. "UI.*" or "Physics.**".
func (r *Registry) Match(pattern string) ([]string, error) {
	glob := strings.ReplaceAll(pattern, ".", "/")
	if !doublestar.ValidatePattern(glob) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	var out []string
	for _, name := range r.names {
		if ok, _ := doublestar.Match(glob, strings.ReplaceAll(name, ".", "/")); ok {
			out = append(out, name)
		}
	}
	return out, nil
}

// add registers an entry. Returns an error if its name or hash is taken.
func (b *registryBuilder) add(e Entry) error {
	if _, exists := b.entries[e.Name]; exists {
		return fmt.Errorf("duplicate shard name: %q", e.Name)
	}
	d, err := describe(e)
	if err != nil {
		return err
	}
	if other, exists := b.hashes[d.Hash]; exists {
		return fmt.Errorf("shard %q: hash %08x collides with %q", e.Name, d.Hash, other)
	}
	b.entries[e.Name] = e
	b.descs[e.Name] = d
	b.hashes[d.Hash] = e.Name
	return nil
}

// WithShard registers a kind.
func WithShard(name, version string, factory Factory) Option {
	return func(b *registryBuilder) {
		if err := b.add(Entry{Name: name, Version: version, Factory: factory}); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithBundle registers every kind of a bundle.
func WithBundle(bundle Bundle) Option {
	return func(b *registryBuilder) {
		for _, e := range bundle.Entries() {
			if err := b.add(e); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}

// WithMiddleware adds middleware applied to every created shard.
// Middleware executes in FIFO order (first added wraps outermost).
func WithMiddleware(mw ...Middleware) Option {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}
