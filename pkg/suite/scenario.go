// Package suite defines the Todo app scenarios and runs them, one fresh
// automation session per scenario.
package suite

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/todo-e2e/pkg/capabilities"
	"github.com/devicelab-dev/todo-e2e/pkg/todo"
)

// Scenario is one end-to-end test case.
type Scenario struct {
	ID   string // test case id, e.g. "id1"
	Name string
	// XFail marks a known failure. A failing run is reported as xfailed, a
	// passing one as xpassed; neither fails the suite.
	XFail string
	// Platforms restricts the scenario; empty means every platform.
	Platforms []capabilities.Platform
	Run       func(app *todo.App) error
}

// RunsOn reports whether the scenario applies to p.
func (s Scenario) RunsOn(p capabilities.Platform) bool {
	if len(s.Platforms) == 0 {
		return true
	}
	for _, want := range s.Platforms {
		if want == p {
			return true
		}
	}
	return false
}

// Select returns the scenarios whose ids are listed, in suite order.
// An empty list selects everything. Unknown ids are an error.
func Select(all []Scenario, ids []string) ([]Scenario, error) {
	if len(ids) == 0 {
		return all, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			want[id] = true
		}
	}

	var out []Scenario
	for _, s := range all {
		if want[s.ID] {
			out = append(out, s)
			delete(want, s.ID)
		}
	}
	if len(want) > 0 {
		var unknown []string
		for _, id := range ids {
			if id = strings.TrimSpace(id); want[id] {
				unknown = append(unknown, id)
				delete(want, id)
			}
		}
		return nil, fmt.Errorf("unknown test case id(s): %s", strings.Join(unknown, ", "))
	}
	return out, nil
}
