package graph

import (
	"reflect"
	"testing"

	"convoy/internal/resolve"
)

func buildGraph(order []string, requires map[string][]string, after map[string][]string) *Graph {
	var resolved []resolve.Resolved
	for _, name := range order {
		resolved = append(resolved, resolve.Resolved{
			Name:          name,
			Requires:      requires[name],
			AfterServices: after[name],
		})
	}
	return Build(order, resolved)
}

func TestBuildEdges(t *testing.T) {
	g := buildGraph(
		[]string{"postgres", "redis", "app"},
		map[string][]string{"app": {"postgres", "redis"}},
		nil,
	)

	if got := g.Providers("app"); !reflect.DeepEqual(got, []string{"postgres", "redis"}) {
		t.Errorf("expected app providers [postgres redis], got %v", got)
	}
	if got := g.Dependents("postgres"); !reflect.DeepEqual(got, []string{"app"}) {
		t.Errorf("expected postgres dependents [app], got %v", got)
	}
	if got := g.Dependents("app"); len(got) != 0 {
		t.Errorf("expected no dependents for app, got %v", got)
	}
}

func TestDetectCycle(t *testing.T) {
	tests := []struct {
		name     string
		order    []string
		requires map[string][]string
		wantPath []string
	}{
		{
			name:     "acyclic chain",
			order:    []string{"a", "b", "c"},
			requires: map[string][]string{"b": {"a"}, "c": {"b"}},
		},
		{
			name:     "three node cycle",
			order:    []string{"a", "b", "c"},
			requires: map[string][]string{"b": {"a"}, "c": {"b"}, "a": {"c"}},
			wantPath: []string{"a", "b", "c"},
		},
		{
			name:     "two node cycle",
			order:    []string{"x", "y"},
			requires: map[string][]string{"x": {"y"}, "y": {"x"}},
			wantPath: []string{"x", "y"},
		},
		{
			name:     "self cycle",
			order:    []string{"a"},
			requires: map[string][]string{"a": {"a"}},
			wantPath: []string{"a"},
		},
		{
			name:     "cycle behind acyclic prefix",
			order:    []string{"ok", "p", "q"},
			requires: map[string][]string{"p": {"q"}, "q": {"p"}},
			wantPath: []string{"p", "q"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Requires edges point dependent→provider in the fixture; Build
			// stores provider→dependent, so traversal order below follows
			// the provider direction.
			g := buildGraph(tt.order, tt.requires, nil)
			err := g.DetectCycle()
			if tt.wantPath == nil {
				if err != nil {
					t.Fatalf("expected no cycle, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected a cycle, got none")
			}
			if !sameCycle(err.Path, tt.wantPath) {
				t.Errorf("expected cycle over %v, got %v", tt.wantPath, err.Path)
			}
		})
	}
}

// sameCycle reports whether got is a rotation of want, since a cycle may be
// entered at any of its nodes.
func sameCycle(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for offset := range want {
		match := true
		for i := range want {
			if got[i] != want[(i+offset)%len(want)] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestSort(t *testing.T) {
	tests := []struct {
		name      string
		order     []string
		requires  map[string][]string
		after     map[string][]string
		want      []string
		wantCycle bool
	}{
		{
			name:     "chain",
			order:    []string{"a", "b", "c"},
			requires: map[string][]string{"b": {"a"}, "c": {"b"}},
			want:     []string{"a", "b", "c"},
		},
		{
			name:  "independent nodes keep catalog order",
			order: []string{"c", "a", "b"},
			want:  []string{"c", "a", "b"},
		},
		{
			name:     "provider before dependent regardless of catalog order",
			order:    []string{"app", "db"},
			requires: map[string][]string{"app": {"db"}},
			want:     []string{"db", "app"},
		},
		{
			name:     "diamond",
			order:    []string{"base", "left", "right", "top"},
			requires: map[string][]string{"left": {"base"}, "right": {"base"}, "top": {"left", "right"}},
			want:     []string{"base", "left", "right", "top"},
		},
		{
			name:  "soft ordering breaks tie",
			order: []string{"app", "cache"},
			after: map[string][]string{"app": {"cache"}},
			want:  []string{"cache", "app"},
		},
		{
			name:  "soft cycle does not fail",
			order: []string{"a", "b"},
			after: map[string][]string{"a": {"b"}, "b": {"a"}},
			want:  []string{"a", "b"},
		},
		{
			name:      "hard cycle fails",
			order:     []string{"a", "b"},
			requires:  map[string][]string{"a": {"b"}, "b": {"a"}},
			wantCycle: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(tt.order, tt.requires, tt.after)
			got, cycle := g.Sort()
			if tt.wantCycle {
				if cycle == nil {
					t.Fatal("expected cycle error, got none")
				}
				if got != nil {
					t.Errorf("expected no order with a cycle, got %v", got)
				}
				return
			}
			if cycle != nil {
				t.Fatalf("unexpected cycle: %v", cycle)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected order %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSortPlacesProvidersFirst(t *testing.T) {
	// Ordering correctness: every service must come after everything it
	// hard-requires, for a graph with several interleaved chains.
	order := []string{"proxy", "app", "db", "cache", "worker"}
	requires := map[string][]string{
		"app":    {"db", "cache"},
		"proxy":  {"app"},
		"worker": {"db", "app"},
	}
	g := buildGraph(order, requires, nil)

	sorted, cycle := g.Sort()
	if cycle != nil {
		t.Fatalf("unexpected cycle: %v", cycle)
	}
	pos := make(map[string]int, len(sorted))
	for i, name := range sorted {
		pos[name] = i
	}
	for dependent, providers := range requires {
		for _, provider := range providers {
			if pos[provider] >= pos[dependent] {
				t.Errorf("provider %s placed at %d, after dependent %s at %d",
					provider, pos[provider], dependent, pos[dependent])
			}
		}
	}
}

func TestSortDeterminism(t *testing.T) {
	order := []string{"e", "d", "c", "b", "a"}
	requires := map[string][]string{"a": {"c"}, "b": {"d"}}
	first, _ := buildGraph(order, requires, nil).Sort()
	for i := 0; i < 10; i++ {
		again, _ := buildGraph(order, requires, nil).Sort()
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("sort not deterministic: %v vs %v", first, again)
		}
	}
}
