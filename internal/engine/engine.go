package engine

import (
	"convoy/internal/catalog"
	"convoy/internal/graph"
	"convoy/internal/report"
	"convoy/internal/resolve"
	"convoy/internal/stack"
	"convoy/internal/validate"
)

// Result is the full outcome of one resolution run: the merged diagnostics
// report and, per enabled service, its resolved dependency set for the
// supervisor layer. Resolved entries follow catalog registration order.
type Result struct {
	Report   report.Report
	Resolved []resolve.Resolved
}

// Resolve computes the startup order and all configuration diagnostics for
// the given catalog and enabled instances. It is a pure function: no ambient
// state is read, nothing is cached between calls, and identical inputs
// produce identical Results. The dependency graph is rebuilt from scratch on
// every call.
//
// All fatal issues are collected and surfaced together, with one exception:
// cycle detection stops at the first cycle found, since overlapping cycles
// need not be enumerated for a fix-and-retry workflow. Whenever any fatal
// issue exists the report carries no startup order at all.
func Resolve(cat *catalog.Catalog, instances []stack.Instance) Result {
	var issues []report.Issue

	resolver := resolve.New(cat)

	// Instances naming services the catalog does not know cannot be resolved
	// at all; they are reported and excluded from the graph.
	enabled := make(map[string]bool, len(instances))
	for _, inst := range instances {
		if !cat.Has(inst.Name) {
			_, unknownIssues := resolver.Resolve(inst.Name, enabled)
			issues = append(issues, unknownIssues...)
			continue
		}
		enabled[inst.Name] = true
	}

	// Canonical node order: catalog registration order restricted to the
	// enabled set. Every downstream tie-break derives from it.
	var order []string
	for _, name := range cat.Names() {
		if enabled[name] {
			order = append(order, name)
		}
	}

	resolved := make([]resolve.Resolved, 0, len(order))
	for _, name := range order {
		res, resIssues := resolver.Resolve(name, enabled)
		resolved = append(resolved, res)
		issues = append(issues, resIssues...)
	}

	issues = append(issues, resolve.Conflicts(resolved, enabled)...)

	g := graph.Build(order, resolved)
	var startupOrder []string
	if cycle := g.DetectCycle(); cycle != nil {
		issues = append(issues, cycleIssue(cycle))
	} else if sorted, cycle := g.Sort(); cycle != nil {
		issues = append(issues, cycleIssue(cycle))
	} else {
		startupOrder = sorted
	}

	issues = append(issues, validate.Validate(instances)...)

	return Result{
		Report:   report.Aggregate(startupOrder, issues),
		Resolved: resolved,
	}
}

func cycleIssue(cycle *graph.CycleError) report.Issue {
	service := ""
	if len(cycle.Path) > 0 {
		service = cycle.Path[0]
	}
	return report.Fatal(report.CodeCyclicDependency, service, cycle.Error())
}
