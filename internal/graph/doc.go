// Package graph provides the directed dependency graph over enabled
// services, together with cycle detection and the topological sort that
// produces the service startup order.
//
// # Edges
//
// The graph distinguishes two kinds of edges:
//
// Hard edges come from capability requirement matches: the provider of a
// required capability must start before the service requiring it. Hard edges
// are the only edges that determine feasibility: both cycle detection and
// the topological sort operate on exactly this edge set, so a configuration
// that sorts is guaranteed acyclic and vice versa.
//
// Soft edges come from declared after-orderings. They express a start-after
// preference, never a dependency: a soft edge to an absent service is
// dropped, and a cycle made only of soft edges does not fail resolution.
// During sorting, soft edges only break ties between nodes whose hard
// dependencies are all satisfied.
//
// # Determinism
//
// Every choice the algorithms make (DFS root order, ready-queue seeding and
// draining) follows the node order given to Build, which callers derive
// from catalog registration order. Identical inputs therefore produce
// identical cycle paths and identical startup orders.
//
// # Usage
//
//	g := graph.Build(order, resolved)
//	if cycle := g.DetectCycle(); cycle != nil {
//		// report cycle.Path
//	}
//	startup, cycle := g.Sort()
//
// Graphs are built fresh for every resolution run and never cached.
package graph
