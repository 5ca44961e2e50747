package suite

import (
	"fmt"
	"math"

	"github.com/devicelab-dev/todo-e2e/pkg/capabilities"
	"github.com/devicelab-dev/todo-e2e/pkg/core"
	"github.com/devicelab-dev/todo-e2e/pkg/locators"
	"github.com/devicelab-dev/todo-e2e/pkg/todo"
)

// percentTolerance is the allowed deviation of a statistics percentage.
const percentTolerance = 1.0

// All returns the Todo app scenarios in order.
func All() []Scenario {
	return []Scenario{
		{ID: "id1", Name: "Create a new task", Run: createTask},
		{ID: "id2", Name: "Create multiple tasks", Run: createMultipleTasks},
		{ID: "id3", Name: "Mark task as completed and verify filters", Run: completeAndFilter},
		{ID: "id4", Name: `Filter "All" / "Active" / "Completed"`, Run: filterAllActiveCompleted},
		{ID: "id5", Name: "Clear completed tasks", Run: clearCompleted},
		{ID: "id6", Name: "Refresh keeps current state", Run: refreshKeepsState},
		{ID: "id7", Name: "Navigate to Statistics and back to Task List", Run: statisticsAndBack},
		{ID: "id8", Name: "Statistics percentages reflect actual task data", Run: statisticsPercentages},
		{ID: "id9", Name: "Cannot save an empty task", Run: emptyTaskRejected},
		{
			ID:        "id10",
			Name:      "Regression: known white-screen bug",
			XFail:     "Known bug: navigation drawer shows white screen after New Task → Back → Open Drawer sequence.",
			Platforms: []capabilities.Platform{capabilities.Android},
			Run:       whiteScreenRegression,
		},
	}
}

// steps runs fns in order and stops at the first error.
func steps(fns ...func() error) error {
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func createTask(app *todo.App) error {
	l := app.Locators
	return steps(
		app.Element(l.EmptyStateText).ShouldBeVisible,
		func() error { return app.CreateTask("Buy groceries", "Milk, eggs, bread") },
		app.Element(l.TaskByTitle("Buy groceries")).ShouldBeVisible,
		func() error { return app.All(l.EmptyStateText).ShouldHaveSize(0) },
	)
}

func createMultipleTasks(app *todo.App) error {
	titles := []string{"Task Alpha", "Task Beta", "Task Gamma"}
	for _, title := range titles {
		if err := app.CreateTask(title, ""); err != nil {
			return err
		}
	}
	for _, title := range titles {
		if err := app.Element(app.Locators.TaskByTitle(title)).ShouldBeVisible(); err != nil {
			return err
		}
	}
	return nil
}

func completeAndFilter(app *todo.App) error {
	l := app.Locators
	return steps(
		func() error { return app.CreateTask("Finish report", "") },
		func() error { return app.MarkTaskComplete("Finish report") },
		func() error { return app.SelectFilter(l.FilterCompleted) },
		app.Element(l.TaskByTitle("Finish report")).ShouldBeVisible,
		func() error { return app.SelectFilter(l.FilterActive) },
		func() error { return app.All(l.TaskByTitle("Finish report")).ShouldHaveSize(0) },
	)
}

func filterAllActiveCompleted(app *todo.App) error {
	l := app.Locators
	return steps(
		func() error { return app.CreateTask("Active task", "") },
		func() error { return app.CreateTask("Done task", "") },
		func() error { return app.MarkTaskComplete("Done task") },

		func() error { return app.SelectFilter(l.FilterAll) },
		app.Element(l.TaskByTitle("Active task")).ShouldBeVisible,
		app.Element(l.TaskByTitle("Done task")).ShouldBeVisible,

		func() error { return app.SelectFilter(l.FilterActive) },
		app.Element(l.TaskByTitle("Active task")).ShouldBeVisible,
		func() error { return app.All(l.TaskByTitle("Done task")).ShouldHaveSize(0) },

		func() error { return app.SelectFilter(l.FilterCompleted) },
		app.Element(l.TaskByTitle("Done task")).ShouldBeVisible,
		func() error { return app.All(l.TaskByTitle("Active task")).ShouldHaveSize(0) },
	)
}

func clearCompleted(app *todo.App) error {
	l := app.Locators
	return steps(
		func() error { return app.CreateTask("Keep me", "") },
		func() error { return app.CreateTask("Remove me", "") },
		func() error { return app.MarkTaskComplete("Remove me") },
		func() error { return app.OpenOverflow(l.MenuClearCompleted) },
		func() error { return app.All(l.TaskByTitle("Remove me")).ShouldHaveSize(0) },
		app.Element(l.TaskByTitle("Keep me")).ShouldBeVisible,
	)
}

func refreshKeepsState(app *todo.App) error {
	l := app.Locators
	return steps(
		func() error { return app.CreateTask("Still active", "") },
		func() error { return app.CreateTask("Already done", "") },
		func() error { return app.MarkTaskComplete("Already done") },
		func() error { return app.OpenOverflow(l.MenuRefresh) },
		app.Element(l.TaskByTitle("Still active")).ShouldBeVisible,
		app.Element(l.TaskByTitle("Already done")).ShouldBeVisible,
		func() error { return app.SelectFilter(l.FilterCompleted) },
		app.Element(l.TaskByTitle("Already done")).ShouldBeVisible,
	)
}

func statisticsAndBack(app *todo.App) error {
	l := app.Locators
	return steps(
		func() error { return app.CreateTask("Navigation test task", "") },
		app.GoToStatistics,
		app.Element(l.StatsActive).ShouldBeVisible,
		app.Element(l.StatsCompleted).ShouldBeVisible,
		app.GoToTaskList,
		app.Element(l.TaskByTitle("Navigation test task")).ShouldBeVisible,
	)
}

func statisticsPercentages(app *todo.App) error {
	l := app.Locators
	err := steps(
		func() error { return app.CreateTask("Stats task 1", "") },
		func() error { return app.CreateTask("Stats task 2", "") },
		func() error { return app.MarkTaskComplete("Stats task 1") },
		app.GoToStatistics,
	)
	if err != nil {
		return err
	}

	if err := expectPercent(app, "active", l.StatsActive, 50); err != nil {
		return err
	}
	return expectPercent(app, "completed", l.StatsCompleted, 50)
}

func expectPercent(app *todo.App, what string, loc locators.Locator, want float64) error {
	if err := app.Element(loc).ShouldBeVisible(); err != nil {
		return err
	}
	got, err := app.StatisticsPercent(loc)
	if err != nil {
		return err
	}
	if math.Abs(got-want) >= percentTolerance {
		return core.ErrTextMismatch.
			WithMessage(fmt.Sprintf("expected %.0f%% %s tasks, got %v%%", want, what, got)).
			WithDetails(map[string]interface{}{"expected": want, "actual": got})
	}
	return nil
}

func emptyTaskRejected(app *todo.App) error {
	l := app.Locators
	return steps(
		app.Element(l.NewTaskButton).Click,
		app.Element(l.SaveTaskButton).Click,
		app.Element(l.SnackbarEmptyTask).ShouldBeVisible,
		app.Element(l.BackButton).Click,
		app.Element(l.EmptyStateText).ShouldBeVisible,
	)
}

func whiteScreenRegression(app *todo.App) error {
	l := app.Locators
	return steps(
		app.Element(l.NewTaskButton).Click,
		app.Element(l.BackButton).Click,
		app.Element(l.OpenDrawer).Click,
		app.Element(l.NavTaskList).ShouldBeVisible,
		app.Element(l.NavStatistics).ShouldBeVisible,
		app.Element(l.EmptyStateWhiteScreen).ShouldBeHidden,
	)
}
