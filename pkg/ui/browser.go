// Package ui provides waiting element handles over an Appium session.
//
// Every action and assertion polls the session until it succeeds or the
// browser timeout elapses, so tests never sleep for the UI themselves.
package ui

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/devicelab-dev/todo-e2e/pkg/core"
	"github.com/devicelab-dev/todo-e2e/pkg/locators"
	"github.com/devicelab-dev/todo-e2e/pkg/logger"
)

// DefaultPollInterval is the delay between attempts of a waiting operation.
const DefaultPollInterval = 250 * time.Millisecond

// Session is the subset of the Appium client the UI layer drives.
type Session interface {
	FindElements(strategy, value string) ([]string, error)
	ClickElement(elementID string) error
	SendKeysToElement(elementID, text string) error
	ClearElement(elementID string) error
	GetElementText(elementID string) (string, error)
	IsElementDisplayed(elementID string) (bool, error)
	HideKeyboard() error
}

// Browser wraps a session with wait semantics.
type Browser struct {
	Session      Session
	Timeout      time.Duration
	PollInterval time.Duration
	Clock        clock.Clock
}

// NewBrowser returns a browser over s waiting up to timeout per operation.
func NewBrowser(s Session, timeout time.Duration) *Browser {
	return &Browser{
		Session:      s,
		Timeout:      timeout,
		PollInterval: DefaultPollInterval,
		Clock:        clock.New(),
	}
}

// Element returns a lazy handle to the first element matching loc.
func (b *Browser) Element(loc locators.Locator) *Element {
	return &Element{b: b, loc: loc}
}

// All returns a lazy handle to every element matching loc.
func (b *Browser) All(loc locators.Locator) *Collection {
	return &Collection{b: b, loc: loc}
}

// HideKeyboard dismisses the on-screen keyboard.
func (b *Browser) HideKeyboard() error {
	return b.Session.HideKeyboard()
}

// Sleep pauses on the browser clock.
func (b *Browser) Sleep(d time.Duration) {
	b.clock().Sleep(d)
}

// BestEffort runs an optional action and logs its failure instead of
// returning it.
func BestEffort(what string, fn func() error) {
	if err := fn(); err != nil {
		logger.Debug("ignored %s failure: %v", what, err)
	}
}

func (b *Browser) clock() clock.Clock {
	if b.Clock == nil {
		b.Clock = clock.New()
	}
	return b.Clock
}

// waitUntil polls attempt until it reports done or the timeout elapses.
// attempt errors are retried; the last one becomes the cause of the
// timeout error. attempt runs at least once even with a zero timeout.
func (b *Browser) waitUntil(base *core.ExecutionError, desc string, attempt func() (bool, error)) error {
	clk := b.clock()
	poll := b.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	deadline := clk.Now().Add(b.Timeout)

	var lastErr error
	for {
		done, err := attempt()
		if err == nil && done {
			return nil
		}
		if err != nil {
			lastErr = err
		}
		if !clk.Now().Before(deadline) {
			break
		}
		clk.Sleep(poll)
	}

	e := base.WithMessage(fmt.Sprintf("%s after %v", desc, b.Timeout))
	if lastErr != nil {
		e = e.WithCause(lastErr)
	}
	return e
}
