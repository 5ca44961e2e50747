// Package todo drives the Todo app screens through the ui layer.
package todo

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/devicelab-dev/todo-e2e/pkg/core"
	"github.com/devicelab-dev/todo-e2e/pkg/locators"
	"github.com/devicelab-dev/todo-e2e/pkg/logger"
	"github.com/devicelab-dev/todo-e2e/pkg/ui"
)

// DefaultSettle is the pause after ticking a checkbox so the app commits
// the completion state before the next action reads it.
const DefaultSettle = time.Second

var percentRe = regexp.MustCompile(`(\d+\.?\d*)%`)

// App is a Todo app session.
type App struct {
	Browser  *ui.Browser
	Locators *locators.Set
	Settle   time.Duration
}

// New returns an App over b using the locators of set.
func New(b *ui.Browser, set *locators.Set) *App {
	return &App{Browser: b, Locators: set, Settle: DefaultSettle}
}

// Element is a shorthand for a.Browser.Element.
func (a *App) Element(loc locators.Locator) *ui.Element {
	return a.Browser.Element(loc)
}

// All is a shorthand for a.Browser.All.
func (a *App) All(loc locators.Locator) *ui.Collection {
	return a.Browser.All(loc)
}

// CreateTask opens the new task screen, fills both fields and saves. An
// empty description defaults to the title so the app accepts the task.
func (a *App) CreateTask(title, description string) error {
	if description == "" {
		description = title
	}
	logger.Debug("creating task %q", title)

	if err := a.Element(a.Locators.NewTaskButton).Click(); err != nil {
		return err
	}
	if err := a.Element(a.Locators.TaskTitleInput).Type(title); err != nil {
		return err
	}
	if err := a.Element(a.Locators.TaskDescInput).Type(description); err != nil {
		return err
	}
	ui.BestEffort("hide keyboard", a.Browser.HideKeyboard)
	return a.Element(a.Locators.SaveTaskButton).Click()
}

// MarkTaskComplete ticks the checkbox of the task titled title.
func (a *App) MarkTaskComplete(title string) error {
	logger.Debug("completing task %q", title)
	if err := a.Element(a.Locators.TaskCheckboxByTitle(title)).Click(); err != nil {
		return err
	}
	if a.Settle > 0 {
		a.Browser.Sleep(a.Settle)
	}
	return nil
}

// SelectFilter opens the filter menu and picks option.
func (a *App) SelectFilter(option locators.Locator) error {
	return a.clickAll(a.Locators.FilterButton, option)
}

// OpenOverflow opens the overflow menu and picks option.
func (a *App) OpenOverflow(option locators.Locator) error {
	return a.clickAll(a.Locators.MoreButton, option)
}

// GoToStatistics opens the drawer and navigates to the statistics screen.
func (a *App) GoToStatistics() error {
	return a.clickAll(a.Locators.OpenDrawer, a.Locators.NavStatistics)
}

// GoToTaskList opens the drawer and navigates back to the task list.
func (a *App) GoToTaskList() error {
	return a.clickAll(a.Locators.OpenDrawer, a.Locators.NavTaskList)
}

// StatisticsPercent reads the element at loc and returns the first
// percentage in its text.
func (a *App) StatisticsPercent(loc locators.Locator) (float64, error) {
	text, err := a.Element(loc).Text()
	if err != nil {
		return 0, err
	}
	return ParsePercent(text)
}

// ParsePercent extracts the first "<number>%" value from text.
func ParsePercent(text string) (float64, error) {
	m := percentRe.FindStringSubmatch(text)
	if m == nil {
		return 0, core.ErrTextMismatch.
			WithMessage(fmt.Sprintf("no percentage in %q", text)).
			WithDetails(map[string]interface{}{"actual": text})
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, core.ErrTextMismatch.WithMessage(fmt.Sprintf("bad percentage in %q", text)).WithCause(err)
	}
	return v, nil
}

func (a *App) clickAll(locs ...locators.Locator) error {
	for _, loc := range locs {
		if err := a.Element(loc).Click(); err != nil {
			return err
		}
	}
	return nil
}
