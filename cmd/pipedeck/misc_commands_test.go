package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"pipedeck/internal/api"
	"pipedeck/internal/surface"
)

func TestFitCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"fit", "1920", "1080", "1600", "1600"}, env.configPath)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	requireContains(t, out, "1600x900 at +0+350")

	out, _, err = runCLI(t, []string{"fit", "0", "0", "1600", "1600", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("fit --json: %v", err)
	}
	var rect surface.Rect
	if err := json.Unmarshal([]byte(out), &rect); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rect != (surface.Rect{X: 0, Y: 350, Width: 1600, Height: 900}) {
		t.Fatalf("unknown media size should use the default aspect, got %+v", rect)
	}

	if _, _, err := runCLI(t, []string{"fit", "a", "1080", "1600", "1600"}, env.configPath); err == nil {
		t.Fatal("expected non-integer argument to fail")
	}
	if _, _, err := runCLI(t, []string{"fit", "1920", "1080", "0", "1600"}, env.configPath); err == nil {
		t.Fatal("expected zero view width to fail")
	}
}

func TestDoctorReportsStubbedTools(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"doctor", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	var report api.DoctorReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if !report.ConfigFound || report.ConfigPath != env.configPath {
		t.Fatalf("unexpected config fields %+v", report)
	}
	if report.StoreBackend != "sqlite" {
		t.Fatalf("expected sqlite backend, got %q", report.StoreBackend)
	}
	if len(report.Dependencies) != 2 || !report.Dependencies[0].Available {
		t.Fatalf("expected gst-launch stub to be found, got %+v", report.Dependencies)
	}
	if len(report.Checks) != 5 || !report.Checks[0].Passed {
		t.Fatalf("unexpected readiness checks %+v", report.Checks)
	}
	if len(report.Elements) != 2 {
		t.Fatalf("expected element checks for the default pipeline, got %+v", report.Elements)
	}

	out, _, err = runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor table: %v", err)
	}
	requireContains(t, out, "gst-launch")
	requireContains(t, out, "videotestsrc")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Store backend: sqlite")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected init to refuse an existing file")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, env.configPath); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestLogsShowsCommandActivity(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"add", "Bars", "videotestsrc ! fakesink"}, env.configPath); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, _, err := runCLI(t, []string{"logs", "-n", "50"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "pipeline added")
}
