// Package config loads stack configurations from disk: the service catalog
// from catalog.yaml and the enabled service instances from services/*.yaml.
//
// Loading is the only place the engine's inputs touch the filesystem; the
// resolution pipeline itself operates purely on the returned Stack. Errors
// are reported as structured ConfigError values carrying the offending file,
// a category and actionable suggestions.
package config
