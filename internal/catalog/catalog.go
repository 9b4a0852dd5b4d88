package catalog

import "fmt"

// Capability is an opaque tag for a functional role a service can provide or
// require (e.g. "database.postgres", "reverse_proxy"). Equality is exact
// string match; the engine attaches no structure to it.
type Capability string

// Descriptor is the static description of one known service. Descriptors are
// defined once at catalog-build time and never mutated afterwards.
type Descriptor struct {
	Name      string
	Provides  []Capability
	Requires  []Capability
	Optional  []Capability
	After     []string // soft ordering only, never a dependency
	Conflicts []string
}

// Catalog is the registry of all known service descriptors. It preserves
// registration order, which every downstream tie-break uses, and maintains a
// capability→providers index so provider lookups do not rescan all
// descriptors on every resolution.
type Catalog struct {
	descriptors map[string]Descriptor
	order       []string
	providers   map[Capability][]string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		descriptors: make(map[string]Descriptor),
		providers:   make(map[Capability][]string),
	}
}

// Register adds a descriptor to the catalog. Names must be unique; the second
// registration of a name is rejected rather than silently replacing the
// first, since the index and order would go stale.
func (c *Catalog) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("descriptor has no name")
	}
	if _, exists := c.descriptors[d.Name]; exists {
		return fmt.Errorf("service %q already registered", d.Name)
	}
	c.descriptors[d.Name] = d
	c.order = append(c.order, d.Name)
	for _, cap := range d.Provides {
		c.providers[cap] = append(c.providers[cap], d.Name)
	}
	return nil
}

// Get returns the descriptor for name.
func (c *Catalog) Get(name string) (Descriptor, bool) {
	d, ok := c.descriptors[name]
	return d, ok
}

// Has reports whether name is a known service.
func (c *Catalog) Has(name string) bool {
	_, ok := c.descriptors[name]
	return ok
}

// Names returns all registered service names in registration order. The
// returned slice is a copy.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Providers returns every registered service providing cap, in registration
// order, regardless of whether those services are currently enabled.
func (c *Catalog) Providers(cap Capability) []string {
	found := c.providers[cap]
	if len(found) == 0 {
		return nil
	}
	providers := make([]string, len(found))
	copy(providers, found)
	return providers
}

// Len returns the number of registered services.
func (c *Catalog) Len() int {
	return len(c.order)
}
