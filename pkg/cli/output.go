package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/devicelab-dev/todo-e2e/pkg/core"
	"github.com/devicelab-dev/todo-e2e/pkg/suite"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// colorsEnabled determines if ANSI colors should be used
var colorsEnabled = false

// color returns the color code if colors are enabled, empty string otherwise
func color(c string) string {
	if colorsEnabled {
		return c
	}
	return ""
}

func formatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	if ms < 60000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	mins := ms / 60000
	secs := (ms % 60000) / 1000
	return fmt.Sprintf("%dm %ds", mins, secs)
}

func statusSymbol(s core.Status) (symbol, c string) {
	switch s {
	case core.StatusPassed:
		return "✓", colorGreen
	case core.StatusXFailed:
		return "x", colorYellow
	case core.StatusXPassed:
		return "!", colorYellow
	case core.StatusSkipped:
		return "-", colorGray
	default:
		return "✗", colorRed
	}
}

func printHeader(w io.Writer, platform, deviceID, remoteURL string, count int) {
	fmt.Fprintf(w, "\n%sTodo app e2e%s on %s (%s) via %s\n",
		color(colorBold), color(colorReset), platform, deviceID, remoteURL)
	fmt.Fprintf(w, "Running %d scenario(s)\n", count)
	fmt.Fprintln(w, strings.Repeat("─", 60))
}

func printScenarioStart(w io.Writer, s suite.Scenario) {
	fmt.Fprintf(w, "  %s[%s]%s %s\n", color(colorCyan), s.ID, color(colorReset), s.Name)
}

func printScenarioResult(w io.Writer, sr suite.ScenarioResult) {
	symbol, c := statusSymbol(sr.Status)
	fmt.Fprintf(w, "    %s%s %s%s %s(%s)%s\n",
		color(c), symbol, sr.Status, color(colorReset),
		color(colorGray), formatDuration(sr.Duration), color(colorReset))
	if sr.Error != "" {
		fmt.Fprintf(w, "      %s╰─%s %s\n", color(colorGray), color(colorReset), sr.Error)
	}
}

func printSummary(w io.Writer, res *suite.Result, reportPath string) {
	s := res.Summary
	fmt.Fprintln(w, strings.Repeat("─", 60))

	c := colorGreen
	if !res.Success() {
		c = colorRed
	}
	fmt.Fprintf(w, "%s%d passed%s, %d failed, %d errored, %d skipped, %d xfailed, %d xpassed in %s\n",
		color(c), s.Passed, color(colorReset), s.Failed, s.Errored, s.Skipped, s.XFailed, s.XPassed,
		formatDuration(res.Duration))
	if reportPath != "" {
		fmt.Fprintf(w, "Report: %s\n", reportPath)
	}
}
