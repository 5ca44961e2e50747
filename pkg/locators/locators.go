// Package locators holds the per-platform element locator tables for the
// Todo app.
package locators

import (
	"fmt"

	"github.com/devicelab-dev/todo-e2e/pkg/capabilities"
)

// Appium element lookup strategies.
const (
	AccessibilityID    = "accessibility id"
	AndroidUIAutomator = "-android uiautomator"
	XPath              = "xpath"
)

// Locator identifies an element by lookup strategy and value.
type Locator struct {
	Strategy string
	Value    string
}

// IsZero reports whether l is unset.
func (l Locator) IsZero() bool {
	return l.Strategy == "" && l.Value == ""
}

// String renders the locator for messages.
func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}

// Set is the full locator table for one platform.
type Set struct {
	// Toolbar
	OpenDrawer    Locator
	FilterButton  Locator
	MoreButton    Locator
	NewTaskButton Locator

	// Task list content
	EmptyStateText        Locator
	EmptyStateWhiteScreen Locator

	// Filter dropdown (after FilterButton)
	FilterAll       Locator
	FilterActive    Locator
	FilterCompleted Locator

	// Overflow menu (after MoreButton)
	MenuClearCompleted Locator
	MenuRefresh        Locator

	// Navigation drawer (after OpenDrawer)
	NavTaskList   Locator
	NavStatistics Locator

	// New task screen
	BackButton     Locator
	SaveTaskButton Locator
	TaskTitleInput Locator
	TaskDescInput  Locator

	// Statistics screen
	StatsActive    Locator
	StatsCompleted Locator

	// Shown when saving a task with an empty title
	SnackbarEmptyTask Locator

	taskByTitle         func(title string) Locator
	taskCheckboxByTitle func(title string) Locator
}

// TaskByTitle locates a task row by its visible title.
func (s *Set) TaskByTitle(title string) Locator {
	return s.taskByTitle(title)
}

// TaskCheckboxByTitle locates the completion checkbox in the row of title.
func (s *Set) TaskCheckboxByTitle(title string) Locator {
	return s.taskCheckboxByTitle(title)
}

// For returns the locator table of platform p.
func For(p capabilities.Platform) (*Set, error) {
	switch p {
	case capabilities.Android:
		return Android(), nil
	case capabilities.IOS:
		return IOS(), nil
	default:
		return nil, fmt.Errorf("no locators for platform %s", p)
	}
}

func a11y(v string) Locator { return Locator{AccessibilityID, v} }

func uiSelector(expr string) Locator {
	return Locator{AndroidUIAutomator, "new UiSelector()." + expr}
}

func xpath(v string) Locator { return Locator{XPath, v} }
