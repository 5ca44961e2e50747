package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/devicelab-dev/todo-e2e/pkg/core"
	"github.com/devicelab-dev/todo-e2e/pkg/suite"
)

// FileName is the report file written into the output directory.
const FileName = "report.json"

// Meta is run information that is not part of the suite result.
type Meta struct {
	DeviceID      string
	RunnerVersion string
	RemoteURL     string
	Capabilities  map[string]interface{}
}

// Build converts a suite result into a report index.
func Build(res *suite.Result, meta Meta) *Index {
	status := "passed"
	if !res.Success() {
		status = "failed"
	}

	idx := &Index{
		Version:      Version,
		Status:       status,
		StartTime:    res.StartTime,
		EndTime:      res.StartTime.Add(res.Duration),
		Duration:     res.Duration.Milliseconds(),
		Device:       Device{ID: meta.DeviceID, Platform: res.Platform},
		Runner:       RunnerInfo{Version: meta.RunnerVersion, RemoteURL: meta.RemoteURL},
		Capabilities: meta.Capabilities,
		Summary: Summary{
			Total:   res.Summary.Total,
			Passed:  res.Summary.Passed,
			Failed:  res.Summary.Failed,
			Errored: res.Summary.Errored,
			Skipped: res.Summary.Skipped,
			XFailed: res.Summary.XFailed,
			XPassed: res.Summary.XPassed,
		},
		Scenarios: make([]ScenarioEntry, 0, len(res.Scenarios)),
	}

	for i, sr := range res.Scenarios {
		entry := ScenarioEntry{
			Index:       i,
			ID:          sr.ID,
			Name:        sr.Name,
			Status:      sr.Status.String(),
			Duration:    sr.Duration.Milliseconds(),
			XFailReason: sr.XFailReason,
		}
		if sr.Error != "" {
			entry.Error = &Error{Type: errorType(sr), Message: sr.Error}
		}
		if sr.Screenshot != "" || sr.PageSource != "" {
			entry.Artifacts = &Artifacts{Screenshot: sr.Screenshot, PageSource: sr.PageSource}
		}
		idx.Scenarios = append(idx.Scenarios, entry)
	}
	return idx
}

func errorType(sr suite.ScenarioResult) string {
	switch {
	case sr.Status == core.StatusSkipped:
		return "skipped"
	case sr.Category != core.ErrCategoryNone:
		return sr.Category.String()
	case sr.Status == core.StatusErrored:
		return core.ErrCategoryConnection.String()
	default:
		return "unknown"
	}
}

// Write builds the report and writes report.json into dir. It returns the
// file path.
func Write(dir string, res *suite.Result, meta Meta) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := atomicWriteJSON(path, Build(res, meta)); err != nil {
		return "", err
	}
	return path, nil
}

// Read loads a report.json file.
func Read(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &idx, nil
}

// atomicWriteJSON writes v to a temp file and renames it over path so
// readers never see a partial report.
func atomicWriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// AssetWriter stores failure artifacts under <dir>/assets/<scenario-id>/.
type AssetWriter struct {
	Dir string
}

// SaveScreenshot saves a screenshot and returns the relative path.
func (w *AssetWriter) SaveScreenshot(scenarioID string, data []byte) (string, error) {
	return w.save(scenarioID, "screenshot.png", data)
}

// SaveSource saves a page source and returns the relative path.
func (w *AssetWriter) SaveSource(scenarioID string, source string) (string, error) {
	return w.save(scenarioID, "source.xml", []byte(source))
}

func (w *AssetWriter) save(scenarioID, filename string, data []byte) (string, error) {
	rel := filepath.Join("assets", unsafeChars.ReplaceAllString(scenarioID, "_"), filename)
	abs := filepath.Join(w.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", err
	}
	return rel, nil
}
