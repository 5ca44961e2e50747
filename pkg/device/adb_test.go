package device

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeStubADB writes an executable shell script standing in for adb.
func writeStubADB(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub adb requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "adb")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseDevices(t *testing.T) {
	output := "List of devices attached\n" +
		"emulator-5554\tdevice\n" +
		"R5CT4037HVT\toffline\n" +
		"ZY22\tunauthorized\n" +
		"\n"

	devices := ParseDevices(output)
	if len(devices) != 3 {
		t.Fatalf("expected 3 devices, got %d: %v", len(devices), devices)
	}

	want := []Device{
		{Serial: "emulator-5554", State: StateDevice},
		{Serial: "R5CT4037HVT", State: StateOffline},
		{Serial: "ZY22", State: StateUnauthorized},
	}
	for i, d := range devices {
		if d != want[i] {
			t.Errorf("device[%d] = %+v, want %+v", i, d, want[i])
		}
	}
}

func TestParseDevices_DaemonBannerAndCRLF(t *testing.T) {
	output := "* daemon not running; starting now at tcp:5037\r\n" +
		"* daemon started successfully\r\n" +
		"List of devices attached\r\n" +
		"emulator-5556    device\r\n"

	devices := ParseDevices(output)
	if len(devices) != 1 {
		t.Fatalf("expected 1 device, got %v", devices)
	}
	if devices[0].Serial != "emulator-5556" || !devices[0].Ready() {
		t.Errorf("unexpected device %+v", devices[0])
	}
}

func TestParseDevices_IgnoresLinesWithExtraFields(t *testing.T) {
	devices := ParseDevices("emulator-5554 device product:sdk model:Pixel\n")
	if len(devices) != 0 {
		t.Errorf("expected no devices, got %v", devices)
	}
}

func TestParseDevices_Empty(t *testing.T) {
	if devices := ParseDevices("List of devices attached\n\n"); len(devices) != 0 {
		t.Errorf("expected no devices, got %v", devices)
	}
}

func TestReadyDevices_PreservesOrder(t *testing.T) {
	ready := ReadyDevices([]Device{
		{Serial: "a", State: StateOffline},
		{Serial: "b", State: StateDevice},
		{Serial: "c", State: StateBootloader},
		{Serial: "d", State: StateDevice},
	})

	if len(ready) != 2 || ready[0].Serial != "b" || ready[1].Serial != "d" {
		t.Errorf("ReadyDevices() = %v, want [b d]", ready)
	}
}

func TestADBLister_List(t *testing.T) {
	path := writeStubADB(t, `
if [ "$1" = "devices" ]; then
  printf 'List of devices attached\nemulator-5554\tdevice\nR5CT4037HVT\toffline\n'
  exit 0
fi
echo "unexpected args: $*" >&2
exit 1
`)

	devices, err := (&ADBLister{Path: path}).List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %v", devices)
	}
	if devices[0].Serial != "emulator-5554" || devices[1].State != StateOffline {
		t.Errorf("unexpected devices %v", devices)
	}
}

func TestADBLister_NonZeroExit(t *testing.T) {
	path := writeStubADB(t, `echo "error: protocol fault" >&2
exit 1
`)

	_, err := (&ADBLister{Path: path}).List(context.Background())
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "adb devices") {
		t.Errorf("expected error to name the command, got %v", err)
	}
}

func TestADBLister_Timeout(t *testing.T) {
	path := writeStubADB(t, "exec sleep 5\n")

	start := time.Now()
	_, err := (&ADBLister{Path: path, Timeout: 100 * time.Millisecond}).List(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("List did not honour timeout, took %v", elapsed)
	}
}

func TestADBLister_MissingBinary(t *testing.T) {
	lister := &ADBLister{Path: filepath.Join(t.TempDir(), "no-such-adb")}
	if _, err := lister.List(context.Background()); err == nil {
		t.Error("expected error for missing binary")
	}
}

func TestFindADB_AndroidHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX layout only")
	}
	home := t.TempDir()
	toolsDir := filepath.Join(home, "platform-tools")
	if err := os.MkdirAll(toolsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(toolsDir, "adb"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PATH", t.TempDir())
	t.Setenv("ANDROID_HOME", home)
	t.Setenv("ANDROID_SDK_ROOT", "")

	got, err := FindADB()
	if err != nil {
		t.Fatalf("FindADB failed: %v", err)
	}
	if got != filepath.Join(toolsDir, "adb") {
		t.Errorf("FindADB() = %q", got)
	}
}

func TestFindADB_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("ANDROID_HOME", "")
	t.Setenv("ANDROID_SDK_ROOT", "")

	if _, err := FindADB(); err == nil {
		t.Error("expected error when adb is nowhere")
	}
}
