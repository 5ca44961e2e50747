package ui

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/devicelab-dev/todo-e2e/pkg/core"
	"github.com/devicelab-dev/todo-e2e/pkg/locators"
)

// fakeSession is an in-memory screen keyed by locator value.
type fakeSession struct {
	mu       sync.Mutex
	elements map[string][]string // locator value -> element ids
	hidden   map[string]bool     // id -> present but not displayed
	texts    map[string]string
	typed    map[string]string
	clicks   []string
	clears   []string
	finds    map[string]int

	findErr    error
	clickErrs  int // fail this many clicks first
	displayErr error

	// onFind runs before each lookup with the lookup count for value.
	onFind func(s *fakeSession, value string, n int)
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		elements: map[string][]string{},
		hidden:   map[string]bool{},
		texts:    map[string]string{},
		typed:    map[string]string{},
		finds:    map[string]int{},
	}
}

func (s *fakeSession) FindElements(strategy, value string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds[value]++
	if s.onFind != nil {
		s.onFind(s, value, s.finds[value])
	}
	if s.findErr != nil {
		return nil, s.findErr
	}
	return append([]string(nil), s.elements[value]...), nil
}

func (s *fakeSession) ClickElement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clickErrs > 0 {
		s.clickErrs--
		return errors.New("element not interactable")
	}
	s.clicks = append(s.clicks, id)
	return nil
}

func (s *fakeSession) SendKeysToElement(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typed[id] += text
	return nil
}

func (s *fakeSession) ClearElement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears = append(s.clears, id)
	s.typed[id] = ""
	return nil
}

func (s *fakeSession) GetElementText(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.texts[id], nil
}

func (s *fakeSession) IsElementDisplayed(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.displayErr != nil {
		return false, s.displayErr
	}
	return !s.hidden[id], nil
}

func (s *fakeSession) HideKeyboard() error { return nil }

func newTestBrowser(s Session) *Browser {
	b := NewBrowser(s, 50*time.Millisecond)
	b.PollInterval = time.Millisecond
	return b
}

var (
	saveButton = locators.Locator{Strategy: locators.AccessibilityID, Value: "Save task"}
	emptyText  = locators.Locator{Strategy: locators.AndroidUIAutomator, Value: `new UiSelector().text("You have no tasks!")`}
)

func TestElement_ShouldBeVisible(t *testing.T) {
	s := newFakeSession()
	s.elements[saveButton.Value] = []string{"e1"}

	if err := newTestBrowser(s).Element(saveButton).ShouldBeVisible(); err != nil {
		t.Fatalf("expected visible, got %v", err)
	}
	if s.finds[saveButton.Value] != 1 {
		t.Errorf("expected 1 lookup, got %d", s.finds[saveButton.Value])
	}
}

func TestElement_ShouldBeVisibleAppearsLater(t *testing.T) {
	s := newFakeSession()
	s.onFind = func(s *fakeSession, value string, n int) {
		if n == 3 {
			s.elements[value] = []string{"e1"}
		}
	}

	if err := newTestBrowser(s).Element(saveButton).ShouldBeVisible(); err != nil {
		t.Fatalf("expected visible, got %v", err)
	}
	if s.finds[saveButton.Value] != 3 {
		t.Errorf("expected 3 lookups, got %d", s.finds[saveButton.Value])
	}
}

func TestElement_ShouldBeVisibleTimeout(t *testing.T) {
	s := newFakeSession()

	err := newTestBrowser(s).Element(saveButton).ShouldBeVisible()
	if !errors.Is(err, core.ErrElementNotVisible) {
		t.Fatalf("expected element_not_visible, got %v", err)
	}
	if core.CategoryOf(err) != core.ErrCategoryAssertion {
		t.Errorf("expected assertion category, got %v", core.CategoryOf(err))
	}
	if s.finds[saveButton.Value] < 2 {
		t.Errorf("expected polling, got %d lookups", s.finds[saveButton.Value])
	}
}

func TestElement_ShouldBeVisibleNotDisplayed(t *testing.T) {
	s := newFakeSession()
	s.elements[saveButton.Value] = []string{"e1"}
	s.hidden["e1"] = true

	if err := newTestBrowser(s).Element(saveButton).ShouldBeVisible(); err == nil {
		t.Fatal("expected error for element that is present but not displayed")
	}
}

func TestElement_LookupErrorBecomesCause(t *testing.T) {
	s := newFakeSession()
	lookupErr := errors.New("connection refused")
	s.findErr = lookupErr

	err := newTestBrowser(s).Element(saveButton).ShouldBeVisible()
	if !errors.Is(err, lookupErr) {
		t.Errorf("expected lookup error as cause, got %v", err)
	}
}

func TestElement_ShouldBeHidden(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *fakeSession)
	}{
		{"absent", func(s *fakeSession) {}},
		{"not displayed", func(s *fakeSession) {
			s.elements[emptyText.Value] = []string{"e1"}
			s.hidden["e1"] = true
		}},
		{"stale after lookup", func(s *fakeSession) {
			s.elements[emptyText.Value] = []string{"e1"}
			s.displayErr = errors.New("stale element reference")
		}},
		{"disappears later", func(s *fakeSession) {
			s.elements[emptyText.Value] = []string{"e1"}
			s.onFind = func(s *fakeSession, value string, n int) {
				if n == 2 {
					delete(s.elements, value)
				}
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFakeSession()
			tt.setup(s)
			if err := newTestBrowser(s).Element(emptyText).ShouldBeHidden(); err != nil {
				t.Errorf("expected hidden, got %v", err)
			}
		})
	}
}

func TestElement_ShouldBeHiddenTimeout(t *testing.T) {
	s := newFakeSession()
	s.elements[emptyText.Value] = []string{"e1"}

	err := newTestBrowser(s).Element(emptyText).ShouldBeHidden()
	if !errors.Is(err, core.ErrElementStillVisible) {
		t.Errorf("expected element_still_visible, got %v", err)
	}
}

func TestElement_Click(t *testing.T) {
	s := newFakeSession()
	s.onFind = func(s *fakeSession, value string, n int) {
		if n == 2 {
			s.elements[value] = []string{"e7"}
		}
	}

	if err := newTestBrowser(s).Element(saveButton).Click(); err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if len(s.clicks) != 1 || s.clicks[0] != "e7" {
		t.Errorf("expected one click on e7, got %v", s.clicks)
	}
}

func TestElement_ClickRetriesFailures(t *testing.T) {
	s := newFakeSession()
	s.elements[saveButton.Value] = []string{"e1"}
	s.clickErrs = 2

	if err := newTestBrowser(s).Element(saveButton).Click(); err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if len(s.clicks) != 1 {
		t.Errorf("expected 1 successful click, got %d", len(s.clicks))
	}
}

func TestElement_ClickNeverVisible(t *testing.T) {
	s := newFakeSession()
	s.elements[saveButton.Value] = []string{"e1"}
	s.hidden["e1"] = true

	err := newTestBrowser(s).Element(saveButton).Click()
	if !errors.Is(err, core.ErrElementNotFound) {
		t.Errorf("expected element_not_found, got %v", err)
	}
	if len(s.clicks) != 0 {
		t.Errorf("hidden element must not be clicked, got %v", s.clicks)
	}
}

func TestElement_TypeAndSetValue(t *testing.T) {
	s := newFakeSession()
	input := locators.Locator{Strategy: locators.XPath, Value: "//XCUIElementTypeTextField[1]"}
	s.elements[input.Value] = []string{"in"}
	b := newTestBrowser(s)

	if err := b.Element(input).Type("Buy "); err != nil {
		t.Fatalf("Type failed: %v", err)
	}
	if err := b.Element(input).Type("milk"); err != nil {
		t.Fatalf("Type failed: %v", err)
	}
	if s.typed["in"] != "Buy milk" {
		t.Errorf("expected appended text 'Buy milk', got %q", s.typed["in"])
	}

	if err := b.Element(input).SetValue("Eggs"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if s.typed["in"] != "Eggs" || len(s.clears) != 1 {
		t.Errorf("expected cleared then 'Eggs', got %q (clears=%d)", s.typed["in"], len(s.clears))
	}
}

func TestElement_Text(t *testing.T) {
	s := newFakeSession()
	stats := locators.Locator{Strategy: locators.AndroidUIAutomator, Value: `new UiSelector().textStartsWith("Active tasks:")`}
	s.elements[stats.Value] = []string{"st"}
	s.texts["st"] = "Active tasks: 50.0%"

	text, err := newTestBrowser(s).Element(stats).Text()
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if text != "Active tasks: 50.0%" {
		t.Errorf("expected 'Active tasks: 50.0%%', got %q", text)
	}
}

func TestCollection_ShouldHaveSize(t *testing.T) {
	s := newFakeSession()
	b := newTestBrowser(s)

	if err := b.All(emptyText).ShouldHaveSize(0); err != nil {
		t.Errorf("expected size 0, got %v", err)
	}

	s.elements[emptyText.Value] = []string{"a", "b"}
	if err := b.All(emptyText).ShouldHaveSize(2); err != nil {
		t.Errorf("expected size 2, got %v", err)
	}
}

func TestCollection_ShouldHaveSizeMismatch(t *testing.T) {
	s := newFakeSession()
	s.elements[emptyText.Value] = []string{"a"}

	err := newTestBrowser(s).All(emptyText).ShouldHaveSize(0)
	if !errors.Is(err, core.ErrSizeMismatch) {
		t.Fatalf("expected size_mismatch, got %v", err)
	}
	var ee *core.ExecutionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *core.ExecutionError, got %T", err)
	}
	if ee.Details["expected"] != 0 || ee.Details["actual"] != 1 {
		t.Errorf("unexpected details: %v", ee.Details)
	}
}

func TestBrowser_ZeroTimeoutTriesOnce(t *testing.T) {
	s := newFakeSession()
	s.elements[saveButton.Value] = []string{"e1"}
	b := NewBrowser(s, 0)

	if err := b.Element(saveButton).ShouldBeVisible(); err != nil {
		t.Errorf("expected a single successful attempt, got %v", err)
	}
}

func TestBrowser_WaitUsesClock(t *testing.T) {
	s := newFakeSession()
	mock := clock.NewMock()
	b := &Browser{Session: s, Timeout: 10 * time.Second, PollInterval: time.Second, Clock: mock}
	start := mock.Now()

	done := make(chan error, 1)
	go func() { done <- b.Element(saveButton).ShouldBeVisible() }()

	var err error
	for waiting := true; waiting; {
		select {
		case err = <-done:
			waiting = false
		default:
			mock.Add(time.Second)
		}
	}

	if !errors.Is(err, core.ErrElementNotVisible) {
		t.Errorf("expected element_not_visible, got %v", err)
	}
	if elapsed := mock.Now().Sub(start); elapsed < 10*time.Second {
		t.Errorf("expected at least 10s of clock time, got %v", elapsed)
	}
	s.mu.Lock()
	finds := s.finds[saveButton.Value]
	s.mu.Unlock()
	if finds < 1 || finds > 11 {
		t.Errorf("expected between 1 and 11 lookups, got %d", finds)
	}
}

func TestBestEffort(t *testing.T) {
	called := false
	BestEffort("hide keyboard", func() error {
		called = true
		return errors.New("no keyboard")
	})
	if !called {
		t.Error("action was not run")
	}
}
