// Package validate implements the cross-service configuration checks that
// run independently of the dependency graph: port range and uniqueness, data
// directory uniqueness, domain format, database credential consistency and
// SSL consistency, plus the advisory warnings for suspicious but workable
// configurations.
//
// Validation never short-circuits. Every check runs over the full enabled
// set and every violation is reported, so a single fix-and-retry cycle can
// address all of them at once.
package validate
