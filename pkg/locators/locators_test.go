package locators

import (
	"strings"
	"testing"

	"github.com/devicelab-dev/todo-e2e/pkg/capabilities"
)

// static returns the fixed locators of s by name.
func static(s *Set) map[string]Locator {
	return map[string]Locator{
		"OpenDrawer":         s.OpenDrawer,
		"FilterButton":       s.FilterButton,
		"MoreButton":         s.MoreButton,
		"NewTaskButton":      s.NewTaskButton,
		"EmptyStateText":     s.EmptyStateText,
		"FilterAll":          s.FilterAll,
		"FilterActive":       s.FilterActive,
		"FilterCompleted":    s.FilterCompleted,
		"MenuClearCompleted": s.MenuClearCompleted,
		"MenuRefresh":        s.MenuRefresh,
		"NavTaskList":        s.NavTaskList,
		"NavStatistics":      s.NavStatistics,
		"BackButton":         s.BackButton,
		"SaveTaskButton":     s.SaveTaskButton,
		"TaskTitleInput":     s.TaskTitleInput,
		"TaskDescInput":      s.TaskDescInput,
		"StatsActive":        s.StatsActive,
		"StatsCompleted":     s.StatsCompleted,
		"SnackbarEmptyTask":  s.SnackbarEmptyTask,
	}
}

func TestSets_Complete(t *testing.T) {
	for name, set := range map[string]*Set{"android": Android(), "ios": IOS()} {
		for field, loc := range static(set) {
			if loc.Strategy == "" || loc.Value == "" {
				t.Errorf("%s.%s is empty: %+v", name, field, loc)
			}
		}
	}
	if Android().EmptyStateWhiteScreen.IsZero() {
		t.Error("android white-screen locator is empty")
	}
	if !IOS().EmptyStateWhiteScreen.IsZero() {
		t.Error("ios should have no white-screen locator")
	}
}

func TestAndroid_Locators(t *testing.T) {
	s := Android()

	if s.NewTaskButton != (Locator{AccessibilityID, "New Task"}) {
		t.Errorf("NewTaskButton = %+v", s.NewTaskButton)
	}
	if s.EmptyStateText.Value != `new UiSelector().text("You have no tasks!")` {
		t.Errorf("EmptyStateText = %q", s.EmptyStateText.Value)
	}
	if s.TaskDescInput.Value != `new UiSelector().className("android.widget.EditText").instance(1)` {
		t.Errorf("TaskDescInput = %q", s.TaskDescInput.Value)
	}
	if s.StatsActive.Strategy != AndroidUIAutomator {
		t.Errorf("StatsActive strategy = %q", s.StatsActive.Strategy)
	}
}

func TestAndroid_Dynamic(t *testing.T) {
	s := Android()

	task := s.TaskByTitle("Buy groceries")
	if task.Strategy != AndroidUIAutomator || task.Value != `new UiSelector().text("Buy groceries")` {
		t.Errorf("TaskByTitle = %+v", task)
	}

	box := s.TaskCheckboxByTitle("Finish report")
	want := `//android.view.View[./android.widget.CheckBox][./android.widget.TextView[@text="Finish report"]]/android.widget.CheckBox`
	if box.Strategy != XPath || box.Value != want {
		t.Errorf("TaskCheckboxByTitle = %+v", box)
	}
}

func TestIOS_Dynamic(t *testing.T) {
	s := IOS()

	if got := s.TaskByTitle("Keep me"); got != (Locator{AccessibilityID, "Keep me"}) {
		t.Errorf("TaskByTitle = %+v", got)
	}
	box := s.TaskCheckboxByTitle("Remove me")
	if box.Strategy != XPath || !strings.Contains(box.Value, `@name="Remove me"`) || !strings.HasSuffix(box.Value, "//XCUIElementTypeButton") {
		t.Errorf("TaskCheckboxByTitle = %+v", box)
	}
}

func TestFor(t *testing.T) {
	android, err := For(capabilities.Android)
	if err != nil || android.NavStatistics.Strategy != AndroidUIAutomator {
		t.Errorf("For(android) = %+v, %v", android, err)
	}
	ios, err := For(capabilities.IOS)
	if err != nil || ios.NavStatistics.Strategy != AccessibilityID {
		t.Errorf("For(ios) = %+v, %v", ios, err)
	}
	if _, err := For(capabilities.Platform(0)); err == nil {
		t.Error("expected error for unknown platform")
	}
}

func TestLocator_String(t *testing.T) {
	if got := a11y("Back").String(); got != "accessibility id=Back" {
		t.Errorf("String() = %q", got)
	}
}
