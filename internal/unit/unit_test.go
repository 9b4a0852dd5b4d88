package unit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convoy/internal/resolve"
)

func TestFromResolved(t *testing.T) {
	d := FromResolved(resolve.Resolved{
		Name:          "gitea",
		Requires:      []string{"postgres", "redis"},
		AfterServices: []string{"nginx", "postgres"},
		Conflicts:     []string{"forgejo"},
	})

	assert.Equal(t, "gitea", d.Service)
	assert.Equal(t, []string{"postgres", "redis"}, d.Wants)
	assert.Equal(t, []string{"postgres", "redis", "nginx"}, d.After,
		"after is the union of hard providers and soft orderings, deduplicated")
	assert.Equal(t, []string{"forgejo"}, d.Conflicts)
}

func TestDropIn(t *testing.T) {
	d := Directive{
		Service:   "gitea",
		Wants:     []string{"postgres"},
		After:     []string{"postgres", "nginx"},
		Conflicts: []string{"forgejo"},
	}

	dropIn, err := d.DropIn()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(dropIn, "[Unit]\n"))
	assert.Contains(t, dropIn, "Wants=postgres.service\n")
	assert.Contains(t, dropIn, "After=postgres.service\n")
	assert.Contains(t, dropIn, "After=nginx.service\n")
	assert.Contains(t, dropIn, "Conflicts=forgejo.service\n")
}

func TestDropInEmptyDirective(t *testing.T) {
	d := Directive{Service: "standalone"}
	dropIn, err := d.DropIn()
	require.NoError(t, err)
	assert.Empty(t, dropIn, "a service with no constraints needs no drop-in content")
}

func TestFileName(t *testing.T) {
	d := Directive{Service: "gitea"}
	assert.Equal(t, "gitea.conf", d.FileName())
}

func TestUnitNameKeepsExplicitSuffix(t *testing.T) {
	d := Directive{Service: "gitea", Wants: []string{"postgres.service"}}
	dropIn, err := d.DropIn()
	require.NoError(t, err)
	assert.Contains(t, dropIn, "Wants=postgres.service\n")
	assert.NotContains(t, dropIn, "postgres.service.service")
}
