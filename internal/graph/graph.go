package graph

import (
	"fmt"
	"strings"

	"convoy/internal/resolve"
)

// Graph is the directed dependency graph over the currently enabled services.
// Hard edges run provider → dependent (the provider must start first) and are
// the only edges cycle detection and topological sorting see. Soft edges,
// from declared after-orderings, are kept separately and only break ties
// between nodes that are otherwise equally ready.
//
// A Graph is built fresh on every resolution call and never mutated after
// Build returns. It is not safe for concurrent mutation, which never happens.
type Graph struct {
	order      []string            // node order, used for every deterministic tie-break
	index      map[string]int      // name → position in order
	dependents map[string][]string // hard edges: provider → dependents
	providers  map[string][]string // reverse hard edges: dependent → providers
	softPreds  map[string][]string // node → enabled after-targets (soft predecessors)
}

// Build constructs the graph for the given enabled services. order fixes node
// identity and tie-break order and should be the catalog registration order
// restricted to the enabled set. Resolved entries for services outside order
// are ignored.
func Build(order []string, resolved []resolve.Resolved) *Graph {
	g := &Graph{
		index:      make(map[string]int, len(order)),
		dependents: make(map[string][]string),
		providers:  make(map[string][]string),
		softPreds:  make(map[string][]string),
	}
	g.order = append(g.order, order...)
	for i, name := range g.order {
		g.index[name] = i
	}

	for _, res := range resolved {
		if _, ok := g.index[res.Name]; !ok {
			continue
		}
		for _, provider := range res.Requires {
			if _, ok := g.index[provider]; !ok {
				continue
			}
			g.dependents[provider] = append(g.dependents[provider], res.Name)
			g.providers[res.Name] = append(g.providers[res.Name], provider)
		}
		for _, after := range res.AfterServices {
			if _, ok := g.index[after]; ok {
				g.softPreds[res.Name] = append(g.softPreds[res.Name], after)
			}
		}
	}
	return g
}

// Nodes returns the graph's nodes in tie-break order. The slice is a copy.
func (g *Graph) Nodes() []string {
	nodes := make([]string, len(g.order))
	copy(nodes, g.order)
	return nodes
}

// Dependents returns the services that hard-require node, i.e. its successors.
func (g *Graph) Dependents(node string) []string {
	deps := make([]string, len(g.dependents[node]))
	copy(deps, g.dependents[node])
	return deps
}

// Providers returns the services node hard-requires, i.e. its predecessors.
func (g *Graph) Providers(node string) []string {
	provs := make([]string, len(g.providers[node]))
	copy(provs, g.providers[node])
	return provs
}

// CycleError reports a dependency cycle. Path holds the services on the
// cycle in traversal order, starting and ending implicitly at Path[0].
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s -> %s",
		strings.Join(e.Path, " -> "), e.Path[0])
}

// DetectCycle runs a depth-first search over the hard edges and returns the
// first cycle found, or nil when the graph is acyclic. Detection fails fast:
// one cycle is enough for the fix-and-retry workflow, so no attempt is made
// to enumerate overlapping cycles. Nodes finished in an earlier descent are
// never re-descended, keeping the search O(V+E).
func (g *Graph) DetectCycle() *CycleError {
	const (
		unvisited = 0
		onStack   = 1
		finished  = 2
	)
	state := make(map[string]int, len(g.order))
	var path []string

	var visit func(node string) *CycleError
	visit = func(node string) *CycleError {
		state[node] = onStack
		path = append(path, node)
		for _, next := range g.dependents[node] {
			switch state[next] {
			case onStack:
				// Cycle: slice the current path from the first occurrence of
				// next through the current node, inclusive.
				for i, p := range path {
					if p == next {
						cycle := make([]string, len(path)-i)
						copy(cycle, path[i:])
						return &CycleError{Path: cycle}
					}
				}
			case unvisited:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		state[node] = finished
		return nil
	}

	for _, node := range g.order {
		if state[node] == unvisited {
			if err := visit(node); err != nil {
				return err
			}
		}
	}
	return nil
}

// Sort produces the service startup order using Kahn's algorithm over the
// hard edges: earlier entries must be started, and confirmed available,
// before later entries that depend on them.
//
// The ready set is seeded and drained in graph node order so that identical
// inputs always yield identical output. Soft orderings influence only the
// choice among ready nodes: a ready node whose after-target is also ready is
// passed over in favour of that target. When the ready set empties before all
// nodes are placed the graph is cyclic, and the same diagnostic as
// DetectCycle is returned.
func (g *Graph) Sort() ([]string, *CycleError) {
	indegree := make(map[string]int, len(g.order))
	for _, node := range g.order {
		indegree[node] = len(g.providers[node])
	}

	ready := make([]string, 0, len(g.order))
	for _, node := range g.order {
		if indegree[node] == 0 {
			ready = append(ready, node)
		}
	}

	order := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		pick := g.pickReady(ready)
		node := ready[pick]
		ready = append(ready[:pick], ready[pick+1:]...)
		order = append(order, node)

		for _, next := range g.dependents[node] {
			indegree[next]--
			if indegree[next] == 0 {
				ready = insertInOrder(ready, next, g.index)
			}
		}
	}

	if len(order) != len(g.order) {
		// The leftover subgraph necessarily contains a cycle; report it in
		// the same shape as DetectCycle.
		return nil, g.DetectCycle()
	}
	return order, nil
}

// pickReady chooses the next node from the ready set. A node is deferred when
// one of its soft predecessors is itself ready, so declared after-orderings
// are honoured whenever the hard edges leave the choice open. If every ready
// node defers to another (a soft-only cycle), the first wins; soft edges
// never make sorting fail.
func (g *Graph) pickReady(ready []string) int {
	for i, node := range ready {
		if !g.softPredReady(node, ready) {
			return i
		}
	}
	return 0
}

func (g *Graph) softPredReady(node string, ready []string) bool {
	for _, pred := range g.softPreds[node] {
		for _, r := range ready {
			if r == pred {
				return true
			}
		}
	}
	return false
}

// insertInOrder keeps the ready set sorted by graph node order.
func insertInOrder(ready []string, node string, index map[string]int) []string {
	pos := len(ready)
	for i, r := range ready {
		if index[node] < index[r] {
			pos = i
			break
		}
	}
	ready = append(ready, "")
	copy(ready[pos+1:], ready[pos:])
	ready[pos] = node
	return ready
}
