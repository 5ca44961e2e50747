package config

import (
	"path/filepath"
	"testing"
)

func TestGetHome_EnvVar(t *testing.T) {
	ResetHome()
	t.Setenv("TODO_E2E_HOME", "/custom/path")

	got := GetHome()
	if got != "/custom/path" {
		t.Errorf("GetHome() = %q, want %q", got, "/custom/path")
	}
}

func TestGetHome_FallbackNotEmpty(t *testing.T) {
	ResetHome()
	t.Setenv("TODO_E2E_HOME", "")

	if got := GetHome(); got == "" {
		t.Error("GetHome() returned empty string")
	}
}

func TestGetHome_Cached(t *testing.T) {
	ResetHome()
	t.Setenv("TODO_E2E_HOME", "/first")

	first := GetHome()

	// Change env, should NOT affect cached value
	t.Setenv("TODO_E2E_HOME", "/second")
	second := GetHome()

	if first != second {
		t.Errorf("GetHome() not cached: first=%q, second=%q", first, second)
	}
}

func TestGetReportsDir(t *testing.T) {
	ResetHome()
	t.Setenv("TODO_E2E_HOME", "/home/ci")

	want := filepath.Join("/home/ci", "reports")
	if got := GetReportsDir(); got != want {
		t.Errorf("GetReportsDir() = %q, want %q", got, want)
	}
}
