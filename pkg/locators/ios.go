package locators

import "fmt"

// IOS returns the XCUITest locator table. The iOS app is a mock; these
// mirror the Android screens.
func IOS() *Set {
	return &Set{
		OpenDrawer:    a11y("Open Drawer"),
		FilterButton:  a11y("Filter"),
		MoreButton:    a11y("More"),
		NewTaskButton: a11y("New Task"),

		// No white-screen locator: the drawer regression is Android only.
		EmptyStateText: a11y("You have no tasks!"),

		FilterAll:       xpath(`//*[@name="All"]`),
		FilterActive:    xpath(`//*[@name="Active"]`),
		FilterCompleted: xpath(`//*[@name="Completed"]`),

		MenuClearCompleted: a11y("Clear completed"),
		MenuRefresh:        a11y("Refresh"),

		NavTaskList:   a11y("Task List"),
		NavStatistics: a11y("Statistics"),

		BackButton:     a11y("Back"),
		SaveTaskButton: a11y("Save task"),
		TaskTitleInput: xpath(`//XCUIElementTypeTextField[1]`),
		TaskDescInput:  xpath(`//XCUIElementTypeTextView[1]`),

		StatsActive:    xpath(`//XCUIElementTypeStaticText[contains(@name, "Active tasks:")]`),
		StatsCompleted: xpath(`//XCUIElementTypeStaticText[contains(@name, "Completed tasks:")]`),

		SnackbarEmptyTask: xpath(`//*[contains(@name, "empty")]`),

		taskByTitle: func(title string) Locator {
			return a11y(title)
		},
		taskCheckboxByTitle: func(title string) Locator {
			return xpath(fmt.Sprintf(
				`//XCUIElementTypeCell[.//XCUIElementTypeStaticText[@name=%q]]//XCUIElementTypeButton`,
				title))
		},
	}
}
