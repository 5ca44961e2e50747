package suite

import (
	"time"

	"github.com/devicelab-dev/todo-e2e/pkg/core"
)

// ScenarioResult is the outcome of one scenario.
type ScenarioResult struct {
	ID          string
	Name        string
	Status      core.Status
	Duration    time.Duration
	Error       string
	Category    core.ErrorCategory
	XFailReason string
	Screenshot  string // artifact path, empty when not captured
	PageSource  string
}

func (sr *ScenarioResult) setError(err error) {
	sr.Error = err.Error()
	sr.Category = core.CategoryOf(err)
}

// Summary counts results by status.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Errored int
	Skipped int
	XFailed int
	XPassed int
}

// Result is the outcome of a suite run.
type Result struct {
	Platform  string
	StartTime time.Time
	Duration  time.Duration
	Scenarios []ScenarioResult
	Summary   Summary
}

func (r *Result) add(sr ScenarioResult) {
	r.Scenarios = append(r.Scenarios, sr)
	r.Summary.Total++
	switch sr.Status {
	case core.StatusPassed:
		r.Summary.Passed++
	case core.StatusFailed:
		r.Summary.Failed++
	case core.StatusErrored:
		r.Summary.Errored++
	case core.StatusSkipped:
		r.Summary.Skipped++
	case core.StatusXFailed:
		r.Summary.XFailed++
	case core.StatusXPassed:
		r.Summary.XPassed++
	}
}

// Success reports whether no scenario failed or errored.
func (r *Result) Success() bool {
	for _, sr := range r.Scenarios {
		if !sr.Status.IsSuccess() {
			return false
		}
	}
	return true
}
