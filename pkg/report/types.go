// Package report writes suite results as JSON.
//
// Layout of an output directory:
//   - report.json: run metadata, summary and one entry per scenario
//   - assets/<scenario-id>/: failure screenshots and page sources
package report

import "time"

// Version is the report schema version.
const Version = "1.0.0"

// Index is the report.json document.
type Index struct {
	Version      string                 `json:"version"`
	Status       string                 `json:"status"` // passed, failed
	StartTime    time.Time              `json:"startTime"`
	EndTime      time.Time              `json:"endTime"`
	Duration     int64                  `json:"duration"` // milliseconds
	Device       Device                 `json:"device"`
	Runner       RunnerInfo             `json:"runner"`
	Capabilities map[string]interface{} `json:"capabilities,omitempty"`
	Summary      Summary                `json:"summary"`
	Scenarios    []ScenarioEntry        `json:"scenarios"`
}

// Device identifies what the suite ran against.
type Device struct {
	ID       string `json:"id"`
	Platform string `json:"platform"` // ios, android
}

// RunnerInfo describes the runner build and automation endpoint.
type RunnerInfo struct {
	Version   string `json:"version"`
	RemoteURL string `json:"remoteUrl"`
}

// Summary contains aggregated counts.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
	XFailed int `json:"xfailed"`
	XPassed int `json:"xpassed"`
}

// ScenarioEntry is the outcome of one scenario.
type ScenarioEntry struct {
	Index       int        `json:"index"`
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Duration    int64      `json:"duration"` // milliseconds
	XFailReason string     `json:"xfailReason,omitempty"`
	Error       *Error     `json:"error,omitempty"`
	Artifacts   *Artifacts `json:"artifacts,omitempty"`
}

// Error contains error details.
type Error struct {
	Type    string `json:"type"` // assertion, timeout, connection, config
	Message string `json:"message"`
}

// Artifacts are paths relative to the report directory, never inline data.
type Artifacts struct {
	Screenshot string `json:"screenshot,omitempty"`
	PageSource string `json:"pageSource,omitempty"`
}
