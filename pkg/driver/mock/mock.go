// Package mock provides an in-memory Todo app for running the suite without
// a device or Appium server.
package mock

import (
	"fmt"
	"strings"
	"sync"

	"github.com/devicelab-dev/todo-e2e/pkg/driver/appium"
	"github.com/devicelab-dev/todo-e2e/pkg/locators"
)

type screen int

const (
	screenList screen = iota
	screenNewTask
	screenStatistics
)

type overlay int

const (
	overlayNone overlay = iota
	overlayFilter
	overflowMenu
	overlayDrawer
)

type filter int

const (
	filterAll filter = iota
	filterActive
	filterCompleted
)

// Config configures simulated app behavior.
type Config struct {
	// FixWhiteScreen hides the content root while the drawer is open. The
	// real app leaves it displayed.
	FixWhiteScreen bool
	// FailConnect makes Connect return an error.
	FailConnect error
}

type task struct {
	title       string
	description string
	completed   bool
}

type element struct {
	loc  locators.Locator
	id   string
	text string
}

// TodoApp simulates the Todo app screens behind the ui.Session surface.
type TodoApp struct {
	Config Config

	mu        sync.Mutex
	set       *locators.Set
	screen    screen
	overlay   overlay
	filter    filter
	tasks     []task
	title     string
	desc      string
	snackbar  bool
	connected bool
	calls     []string
}

// New returns a TodoApp showing the empty task list.
func New(set *locators.Set, cfg Config) *TodoApp {
	return &TodoApp{Config: cfg, set: set}
}

// Connect starts a session. The app always starts with no tasks.
func (a *TodoApp) Connect(_ map[string]interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Config.FailConnect != nil {
		return a.Config.FailConnect
	}
	a.screen, a.overlay, a.filter = screenList, overlayNone, filterAll
	a.tasks, a.title, a.desc, a.snackbar = nil, "", "", false
	a.connected = true
	a.record("connect")
	return nil
}

// Disconnect ends the session.
func (a *TodoApp) Disconnect() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connected = false
	a.record("disconnect")
	return nil
}

// Connected reports whether a session is open.
func (a *TodoApp) Connected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connected
}

// Calls returns the recorded interactions.
func (a *TodoApp) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

// Titles returns all task titles with their completion state.
func (a *TodoApp) Titles() map[string]bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]bool, len(a.tasks))
	for _, t := range a.tasks {
		out[t.title] = t.completed
	}
	return out
}

// FindElements returns the ids of on-screen elements matching the locator.
func (a *TodoApp) FindElements(strategy, value string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	want := locators.Locator{Strategy: strategy, Value: value}
	var ids []string
	for _, e := range a.elements() {
		if e.loc == want {
			ids = append(ids, e.id)
		}
	}
	return ids, nil
}

// IsElementDisplayed reports whether id is on screen. Ids that left the
// screen are stale.
func (a *TodoApp) IsElementDisplayed(id string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.lookup(id); !ok {
		return false, stale(id)
	}
	return true, nil
}

// GetElementText returns the text of id.
func (a *TodoApp) GetElementText(id string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.lookup(id)
	if !ok {
		return "", stale(id)
	}
	return e.text, nil
}

// SendKeysToElement appends text to an input.
func (a *TodoApp) SendKeysToElement(id, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.lookup(id); !ok {
		return stale(id)
	}
	a.record("type " + id)
	switch id {
	case "input:title":
		a.title += text
	case "input:desc":
		a.desc += text
	default:
		return &appium.Error{Code: appium.CodeElementNotInteracted, Message: id + " is not editable"}
	}
	return nil
}

// ClearElement empties an input.
func (a *TodoApp) ClearElement(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch id {
	case "input:title":
		a.title = ""
	case "input:desc":
		a.desc = ""
	}
	return nil
}

// HideKeyboard is accepted on the new task screen only.
func (a *TodoApp) HideKeyboard() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen != screenNewTask {
		return &appium.Error{Code: "unknown error", Message: "soft keyboard not present"}
	}
	return nil
}

// Source renders the on-screen elements as XML.
func (a *TodoApp) Source() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var b strings.Builder
	b.WriteString("<hierarchy>\n")
	for _, e := range a.elements() {
		fmt.Fprintf(&b, "  <node id=%q text=%q/>\n", e.id, e.text)
	}
	b.WriteString("</hierarchy>\n")
	return b.String(), nil
}

// ClickElement performs the app transition bound to id.
func (a *TodoApp) ClickElement(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.lookup(id); !ok {
		return stale(id)
	}
	a.record("click " + id)

	switch {
	case id == "new-task":
		a.screen, a.overlay = screenNewTask, overlayNone
		a.title, a.desc, a.snackbar = "", "", false
	case id == "save":
		if a.title == "" || a.desc == "" {
			a.snackbar = true
			return nil
		}
		a.tasks = append(a.tasks, task{title: a.title, description: a.desc})
		a.screen = screenList
	case id == "back":
		a.screen, a.snackbar = screenList, false
	case id == "filter":
		a.overlay = overlayFilter
	case id == "more":
		a.overlay = overflowMenu
	case id == "drawer":
		a.overlay = overlayDrawer
	case id == "filter:all":
		a.filter, a.overlay = filterAll, overlayNone
	case id == "filter:active":
		a.filter, a.overlay = filterActive, overlayNone
	case id == "filter:completed":
		a.filter, a.overlay = filterCompleted, overlayNone
	case id == "menu:clear":
		kept := a.tasks[:0]
		for _, t := range a.tasks {
			if !t.completed {
				kept = append(kept, t)
			}
		}
		a.tasks, a.overlay = kept, overlayNone
	case id == "menu:refresh":
		a.overlay = overlayNone
	case id == "nav:list":
		a.screen, a.overlay = screenList, overlayNone
	case id == "nav:stats":
		a.screen, a.overlay = screenStatistics, overlayNone
	case strings.HasPrefix(id, "checkbox:"):
		title := strings.TrimPrefix(id, "checkbox:")
		for i := range a.tasks {
			if a.tasks[i].title == title {
				a.tasks[i].completed = !a.tasks[i].completed
			}
		}
	}
	return nil
}

func (a *TodoApp) record(call string) {
	a.calls = append(a.calls, call)
}

func (a *TodoApp) lookup(id string) (element, bool) {
	for _, e := range a.elements() {
		if e.id == id {
			return e, true
		}
	}
	return element{}, false
}

// elements lists what is currently on screen.
func (a *TodoApp) elements() []element {
	s := a.set
	var out []element
	add := func(loc locators.Locator, id, text string) {
		if !loc.IsZero() {
			out = append(out, element{loc: loc, id: id, text: text})
		}
	}

	// The content root stays displayed over every screen.
	if a.overlay != overlayDrawer || !a.Config.FixWhiteScreen {
		add(s.EmptyStateWhiteScreen, "content", "")
	}

	switch a.overlay {
	case overlayFilter:
		add(s.FilterAll, "filter:all", "All")
		add(s.FilterActive, "filter:active", "Active")
		add(s.FilterCompleted, "filter:completed", "Completed")
		return out
	case overflowMenu:
		add(s.MenuClearCompleted, "menu:clear", "Clear completed")
		add(s.MenuRefresh, "menu:refresh", "Refresh")
		return out
	case overlayDrawer:
		add(s.NavTaskList, "nav:list", "Task List")
		add(s.NavStatistics, "nav:stats", "Statistics")
		return out
	}

	switch a.screen {
	case screenNewTask:
		add(s.BackButton, "back", "")
		add(s.SaveTaskButton, "save", "")
		add(s.TaskTitleInput, "input:title", a.title)
		add(s.TaskDescInput, "input:desc", a.desc)
		if a.snackbar {
			add(s.SnackbarEmptyTask, "snackbar", "Tasks cannot be empty")
		}
	case screenStatistics:
		add(s.OpenDrawer, "drawer", "")
		active, completed := a.percentages()
		add(s.StatsActive, "stats:active", fmt.Sprintf("Active tasks: %.1f%%", active))
		add(s.StatsCompleted, "stats:completed", fmt.Sprintf("Completed tasks: %.1f%%", completed))
	default:
		add(s.OpenDrawer, "drawer", "")
		add(s.FilterButton, "filter", "")
		add(s.MoreButton, "more", "")
		add(s.NewTaskButton, "new-task", "")
		if len(a.tasks) == 0 {
			add(s.EmptyStateText, "empty", "You have no tasks!")
		}
		for _, t := range a.tasks {
			if !a.shows(t) {
				continue
			}
			add(s.TaskByTitle(t.title), "task:"+t.title, t.title)
			add(s.TaskCheckboxByTitle(t.title), "checkbox:"+t.title, "")
		}
	}
	return out
}

func (a *TodoApp) shows(t task) bool {
	switch a.filter {
	case filterActive:
		return !t.completed
	case filterCompleted:
		return t.completed
	default:
		return true
	}
}

func (a *TodoApp) percentages() (active, completed float64) {
	if len(a.tasks) == 0 {
		return 0, 0
	}
	done := 0
	for _, t := range a.tasks {
		if t.completed {
			done++
		}
	}
	completed = 100 * float64(done) / float64(len(a.tasks))
	return 100 - completed, completed
}

func stale(id string) error {
	return &appium.Error{Code: appium.CodeStaleElement, Message: fmt.Sprintf("element %s is no longer attached", id)}
}
