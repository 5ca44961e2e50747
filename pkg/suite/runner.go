package suite

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/devicelab-dev/todo-e2e/pkg/capabilities"
	"github.com/devicelab-dev/todo-e2e/pkg/core"
	"github.com/devicelab-dev/todo-e2e/pkg/locators"
	"github.com/devicelab-dev/todo-e2e/pkg/logger"
	"github.com/devicelab-dev/todo-e2e/pkg/todo"
	"github.com/devicelab-dev/todo-e2e/pkg/ui"
)

// Session is an open automation session.
type Session interface {
	ui.Session
	Disconnect() error
}

// SessionFactory opens a fresh session for one scenario.
type SessionFactory func(ctx context.Context) (Session, error)

// ArtifactSink stores failure evidence and returns a path to it.
type ArtifactSink interface {
	SaveScreenshot(scenarioID string, data []byte) (string, error)
	SaveSource(scenarioID string, source string) (string, error)
}

type screenshotter interface {
	Screenshot() ([]byte, error)
}

type sourcer interface {
	Source() (string, error)
}

// Runner executes scenarios sequentially.
type Runner struct {
	Platform     capabilities.Platform
	Locators     *locators.Set
	NewSession   SessionFactory
	Timeout      time.Duration // per wait
	PollInterval time.Duration
	Settle       time.Duration // pause after completing a task
	Clock        clock.Clock
	Artifacts    ArtifactSink // optional

	// OnStart and OnResult report progress; both optional.
	OnStart  func(s Scenario)
	OnResult func(r ScenarioResult)
}

// NewRunner returns a runner with default polling and settle pause.
func NewRunner(p capabilities.Platform, set *locators.Set, newSession SessionFactory, timeout time.Duration) *Runner {
	return &Runner{
		Platform:     p,
		Locators:     set,
		NewSession:   newSession,
		Timeout:      timeout,
		PollInterval: ui.DefaultPollInterval,
		Settle:       todo.DefaultSettle,
		Clock:        clock.New(),
	}
}

// Run executes scenarios in order. Cancelling ctx skips the remaining ones.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) *Result {
	clk := r.clock()
	res := &Result{
		Platform:  r.Platform.String(),
		StartTime: clk.Now(),
	}

	for _, s := range scenarios {
		var sr ScenarioResult
		switch {
		case ctx.Err() != nil:
			sr = skipped(s, "cancelled: "+ctx.Err().Error())
		case !s.RunsOn(r.Platform):
			sr = skipped(s, "not applicable on "+r.Platform.String())
		default:
			if r.OnStart != nil {
				r.OnStart(s)
			}
			sr = r.runOne(ctx, s)
		}
		res.add(sr)
		if r.OnResult != nil {
			r.OnResult(sr)
		}
	}

	res.Duration = clk.Since(res.StartTime)
	return res
}

func (r *Runner) runOne(ctx context.Context, s Scenario) (sr ScenarioResult) {
	clk := r.clock()
	sr = ScenarioResult{ID: s.ID, Name: s.Name, XFailReason: s.XFail}
	start := clk.Now()
	defer func() { sr.Duration = clk.Since(start) }()

	logger.Info("scenario %s: %s", s.ID, s.Name)

	sess, err := r.NewSession(ctx)
	if err != nil {
		sr.Status = core.StatusErrored
		sr.setError(err)
		logger.Error("scenario %s: session start failed: %v", s.ID, err)
		return sr
	}
	defer func() {
		if err := sess.Disconnect(); err != nil {
			logger.Warn("scenario %s: closing session: %v", s.ID, err)
		}
	}()

	b := &ui.Browser{Session: sess, Timeout: r.Timeout, PollInterval: r.PollInterval, Clock: clk}
	app := todo.New(b, r.Locators)
	app.Settle = r.Settle

	err = call(s, app)
	switch {
	case err == nil && s.XFail != "":
		sr.Status = core.StatusXPassed
		logger.Warn("scenario %s: passed unexpectedly (%s)", s.ID, s.XFail)
	case err == nil:
		sr.Status = core.StatusPassed
	case s.XFail != "":
		sr.Status = core.StatusXFailed
		sr.setError(err)
		logger.Info("scenario %s: failed as expected: %v", s.ID, err)
	default:
		sr.Status = core.StatusFailed
		sr.setError(err)
		logger.Error("scenario %s: %v", s.ID, err)
	}
	if err != nil {
		r.capture(s.ID, sess, &sr)
	}
	return sr
}

// call runs the scenario body, turning a panic into an error.
func call(s Scenario, app *todo.App) (err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.Debug("scenario %s panic stack:\n%s", s.ID, debug.Stack())
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return s.Run(app)
}

// capture saves a screenshot and the page source when the session offers them.
func (r *Runner) capture(id string, sess Session, sr *ScenarioResult) {
	if r.Artifacts == nil {
		return
	}
	if sc, ok := sess.(screenshotter); ok {
		if data, err := sc.Screenshot(); err != nil {
			logger.Debug("scenario %s: screenshot: %v", id, err)
		} else if path, err := r.Artifacts.SaveScreenshot(id, data); err != nil {
			logger.Warn("scenario %s: saving screenshot: %v", id, err)
		} else {
			sr.Screenshot = path
		}
	}
	if so, ok := sess.(sourcer); ok {
		if src, err := so.Source(); err != nil {
			logger.Debug("scenario %s: page source: %v", id, err)
		} else if path, err := r.Artifacts.SaveSource(id, src); err != nil {
			logger.Warn("scenario %s: saving page source: %v", id, err)
		} else {
			sr.PageSource = path
		}
	}
}

func (r *Runner) clock() clock.Clock {
	if r.Clock == nil {
		r.Clock = clock.New()
	}
	return r.Clock
}

func skipped(s Scenario, reason string) ScenarioResult {
	return ScenarioResult{ID: s.ID, Name: s.Name, Status: core.StatusSkipped, Error: reason, XFailReason: s.XFail}
}
