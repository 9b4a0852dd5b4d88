package resolve

import (
	"fmt"
	"strings"

	"convoy/internal/catalog"
	"convoy/internal/report"
)

// Resolved is the per-service result of capability resolution: the concrete
// enabled services backing each declared requirement, plus the pass-through
// ordering and conflict declarations the supervisor layer consumes.
type Resolved struct {
	Name          string
	Requires      []string // enabled providers of hard requirements
	AfterServices []string // declared after-targets that are enabled
	Conflicts     []string // declared conflicts, unfiltered
	Provides      []catalog.Capability
}

// Resolver maps capability requirements to enabled providers. It holds no
// state beyond the catalog; identical inputs always resolve identically.
type Resolver struct {
	cat *catalog.Catalog
}

// New returns a resolver over cat.
func New(cat *catalog.Catalog) *Resolver {
	return &Resolver{cat: cat}
}

// FindProviders returns every enabled service providing cap, in catalog
// registration order. An empty result is valid; the caller decides whether
// that is fatal (required) or advisory (optional).
func (r *Resolver) FindProviders(cap catalog.Capability, enabled map[string]bool) []string {
	var found []string
	for _, name := range r.cat.Providers(cap) {
		if enabled[name] {
			found = append(found, name)
		}
	}
	return found
}

// Resolve computes the Resolved set for one enabled service. A required
// capability with zero enabled providers yields a fatal issue; an optional
// capability with zero enabled providers yields a warning naming the catalog
// services that could satisfy it. After-targets pointing at services that are
// not enabled are silently dropped.
func (r *Resolver) Resolve(name string, enabled map[string]bool) (Resolved, []report.Issue) {
	desc, ok := r.cat.Get(name)
	if !ok {
		return Resolved{Name: name}, []report.Issue{
			report.Fatal(report.CodeUnknownService, name,
				fmt.Sprintf("service %q is not in the catalog", name)),
		}
	}

	res := Resolved{Name: name, Provides: desc.Provides}
	var issues []report.Issue

	seen := make(map[string]bool)
	for _, cap := range desc.Requires {
		providers := r.FindProviders(cap, enabled)
		if len(providers) == 0 {
			issues = append(issues, report.Fatal(report.CodeMissingRequiredCapability, name,
				fmt.Sprintf("required capability %q has no enabled provider", cap)))
			continue
		}
		for _, p := range providers {
			if p != name && !seen[p] {
				seen[p] = true
				res.Requires = append(res.Requires, p)
			}
		}
	}

	for _, cap := range desc.Optional {
		if len(r.FindProviders(cap, enabled)) > 0 {
			continue
		}
		msg := fmt.Sprintf("optional capability %q has no enabled provider", cap)
		if candidates := r.cat.Providers(cap); len(candidates) > 0 {
			msg += fmt.Sprintf("; could be satisfied by: %s", strings.Join(candidates, ", "))
		}
		issues = append(issues, report.Warning(report.CodeOptionalCapabilityUnsatisfied, name, msg))
	}

	for _, after := range desc.After {
		if enabled[after] && after != name {
			res.AfterServices = append(res.AfterServices, after)
		}
	}
	res.Conflicts = append(res.Conflicts, desc.Conflicts...)

	return res, issues
}

// Conflicts returns a fatal issue for every pair of enabled services where at
// least one declares the other conflicting. Each unordered pair is reported
// once, attributed to the earlier service in enabled order.
func Conflicts(resolved []Resolved, enabled map[string]bool) []report.Issue {
	index := make(map[string]int, len(resolved))
	for i, res := range resolved {
		index[res.Name] = i
	}

	reported := make(map[[2]string]bool)
	var issues []report.Issue
	for _, res := range resolved {
		for _, other := range res.Conflicts {
			if !enabled[other] || other == res.Name {
				continue
			}
			a, b := res.Name, other
			if index[b] < index[a] {
				a, b = b, a
			}
			key := [2]string{a, b}
			if reported[key] {
				continue
			}
			reported[key] = true
			issues = append(issues, report.Fatal(report.CodeConflictingServices, a,
				fmt.Sprintf("services %q and %q are declared conflicting but both enabled", a, b)))
		}
	}
	return issues
}
