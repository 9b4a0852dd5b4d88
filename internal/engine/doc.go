// Package engine ties the resolution pipeline together: capability
// resolution, dependency graph construction, cycle detection, topological
// sorting and cross-service validation, merged into a single diagnostics
// report.
//
// The pipeline runs once per full reconfiguration, entirely in memory:
//
//	enabled instances
//	    → capability resolution (missing requirements, conflicts)
//	    → graph build → cycle detection → topological sort
//	    → cross-service validation (independent of the graph)
//	    → aggregated report + per-service supervisor directives
//
// Resolve is a pure function of the catalog and instance set. It reads no
// ambient state, performs no I/O and caches nothing between calls, so
// callers may resolve independent configurations concurrently without any
// coordination. All fatal issues are collected and surfaced together; only
// cycle detection stops at the first cycle found. A configuration with any
// fatal issue never receives a startup order, partial or otherwise.
package engine
