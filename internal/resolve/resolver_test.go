package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convoy/internal/catalog"
	"convoy/internal/report"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := catalog.New()
	descriptors := []catalog.Descriptor{
		{Name: "postgres", Provides: []catalog.Capability{"database.postgres"}},
		{Name: "mysql", Provides: []catalog.Capability{"database.mysql"}, Conflicts: []string{"postgres"}},
		{Name: "redis", Provides: []catalog.Capability{"cache"}},
		{Name: "memcached", Provides: []catalog.Capability{"cache"}},
		{Name: "nginx", Provides: []catalog.Capability{"reverse_proxy"}},
		{
			Name:     "gitea",
			Requires: []catalog.Capability{"database.postgres"},
			Optional: []catalog.Capability{"cache"},
			After:    []string{"nginx", "backup"},
		},
	}
	for _, d := range descriptors {
		require.NoError(t, cat.Register(d))
	}
	return cat
}

func enabledSet(names ...string) map[string]bool {
	enabled := make(map[string]bool, len(names))
	for _, name := range names {
		enabled[name] = true
	}
	return enabled
}

func TestFindProviders(t *testing.T) {
	r := New(testCatalog(t))

	// Only enabled providers count, in catalog order.
	providers := r.FindProviders("cache", enabledSet("redis", "memcached", "gitea"))
	assert.Equal(t, []string{"redis", "memcached"}, providers)

	providers = r.FindProviders("cache", enabledSet("memcached"))
	assert.Equal(t, []string{"memcached"}, providers)

	// Empty result is valid, not an error.
	assert.Empty(t, r.FindProviders("cache", enabledSet("postgres")))
	assert.Empty(t, r.FindProviders("no.such.capability", enabledSet("redis")))
}

func TestResolveHappyPath(t *testing.T) {
	r := New(testCatalog(t))
	enabled := enabledSet("postgres", "redis", "nginx", "gitea")

	res, issues := r.Resolve("gitea", enabled)
	assert.Empty(t, issues)
	assert.Equal(t, []string{"postgres"}, res.Requires)
	assert.Equal(t, []string{"nginx"}, res.AfterServices, "after-targets that are not enabled are dropped")
	assert.Empty(t, res.Conflicts)
}

func TestResolveMissingRequiredCapability(t *testing.T) {
	r := New(testCatalog(t))

	res, issues := r.Resolve("gitea", enabledSet("gitea", "redis"))
	assert.Empty(t, res.Requires)
	require.NotEmpty(t, issues)

	var fatal []report.Issue
	for _, issue := range issues {
		if issue.Severity == report.SeverityFatal {
			fatal = append(fatal, issue)
		}
	}
	require.Len(t, fatal, 1)
	assert.Equal(t, report.CodeMissingRequiredCapability, fatal[0].Code)
	assert.Equal(t, "gitea", fatal[0].Service)
	assert.Contains(t, fatal[0].Message, "database.postgres")
}

func TestResolveOptionalCapabilityWarning(t *testing.T) {
	r := New(testCatalog(t))

	// No enabled cache provider: warning naming the catalog services that
	// could satisfy the capability, even though they are disabled.
	_, issues := r.Resolve("gitea", enabledSet("gitea", "postgres"))
	require.Len(t, issues, 1)
	issue := issues[0]
	assert.Equal(t, report.SeverityWarning, issue.Severity)
	assert.Equal(t, report.CodeOptionalCapabilityUnsatisfied, issue.Code)
	assert.Contains(t, issue.Message, "redis")
	assert.Contains(t, issue.Message, "memcached")

	// With a cache provider enabled the warning disappears.
	_, issues = r.Resolve("gitea", enabledSet("gitea", "postgres", "redis"))
	assert.Empty(t, issues)
}

func TestResolveUnknownService(t *testing.T) {
	r := New(testCatalog(t))

	_, issues := r.Resolve("ghost", enabledSet("ghost"))
	require.Len(t, issues, 1)
	assert.Equal(t, report.CodeUnknownService, issues[0].Code)
	assert.Equal(t, report.SeverityFatal, issues[0].Severity)
}

func TestResolveDeterminism(t *testing.T) {
	r := New(testCatalog(t))
	enabled := enabledSet("postgres", "redis", "memcached", "nginx", "gitea")

	first, firstIssues := r.Resolve("gitea", enabled)
	for i := 0; i < 10; i++ {
		again, againIssues := r.Resolve("gitea", enabled)
		assert.Equal(t, first, again)
		assert.Equal(t, firstIssues, againIssues)
	}
}

func TestConflicts(t *testing.T) {
	cat := testCatalog(t)
	r := New(cat)
	enabled := enabledSet("postgres", "mysql")

	resolvedPostgres, _ := r.Resolve("postgres", enabled)
	resolvedMysql, _ := r.Resolve("mysql", enabled)

	issues := Conflicts([]Resolved{resolvedPostgres, resolvedMysql}, enabled)
	require.Len(t, issues, 1, "a unilateral declaration is reported once for the pair")
	assert.Equal(t, report.CodeConflictingServices, issues[0].Code)
	assert.Contains(t, issues[0].Message, "postgres")
	assert.Contains(t, issues[0].Message, "mysql")

	// Conflict with a disabled service is not an issue.
	enabled = enabledSet("mysql")
	resolvedMysql, _ = r.Resolve("mysql", enabled)
	assert.Empty(t, Conflicts([]Resolved{resolvedMysql}, enabled))
}
