package locators

import "fmt"

// Android returns the UiAutomator2 locator table.
func Android() *Set {
	return &Set{
		OpenDrawer:    a11y("Open Drawer"),
		FilterButton:  a11y("Filter"),
		MoreButton:    a11y("More"),
		NewTaskButton: a11y("New Task"),

		EmptyStateText:        uiSelector(`text("You have no tasks!")`),
		EmptyStateWhiteScreen: uiSelector(`resourceId("android:id/content")`),

		FilterAll:       uiSelector(`text("All")`),
		FilterActive:    uiSelector(`text("Active")`),
		FilterCompleted: uiSelector(`text("Completed")`),

		MenuClearCompleted: uiSelector(`text("Clear completed")`),
		MenuRefresh:        uiSelector(`text("Refresh")`),

		NavTaskList:   uiSelector(`text("Task List")`),
		NavStatistics: uiSelector(`text("Statistics")`),

		BackButton:     a11y("Back"),
		SaveTaskButton: a11y("Save task"),
		// Compose exposes the title field first and the description second.
		TaskTitleInput: uiSelector(`className("android.widget.EditText").instance(0)`),
		TaskDescInput:  uiSelector(`className("android.widget.EditText").instance(1)`),

		StatsActive:    uiSelector(`textStartsWith("Active tasks:")`),
		StatsCompleted: uiSelector(`textStartsWith("Completed tasks:")`),

		SnackbarEmptyTask: uiSelector(`textContains("empty")`),

		taskByTitle: func(title string) Locator {
			return uiSelector(fmt.Sprintf(`text(%q)`, title))
		},
		taskCheckboxByTitle: func(title string) Locator {
			return xpath(fmt.Sprintf(
				`//android.view.View[./android.widget.CheckBox][./android.widget.TextView[@text=%q]]/android.widget.CheckBox`,
				title))
		},
	}
}
