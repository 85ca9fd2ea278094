package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"pipedeck/internal/api"
	"pipedeck/internal/catalog"
	"pipedeck/internal/player"
	"pipedeck/internal/prefs"
)

func addTestPipeline(t *testing.T, env *cliTestEnv) api.Pipeline {
	t.Helper()
	if _, _, err := runCLI(t, []string{"add", "Bars", "videotestsrc ! fakesink"}, env.configPath); err != nil {
		t.Fatalf("add: %v", err)
	}
	for _, item := range listJSON(t, env, "--category", "test") {
		if item.Name == "Bars" {
			return item
		}
	}
	t.Fatal("Bars not found")
	return api.Pipeline{}
}

func TestPlayRunsUntilPipelineExits(t *testing.T) {
	env := setupCLITestEnv(t)
	bars := addTestPipeline(t, env)

	out, _, err := runCLI(t, []string{"play", bars.ID}, env.configPath)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	requireContains(t, out, "Playing Bars")
	requireContains(t, out, "Stopped Bars")

	out, _, err = runCLI(t, []string{"show", bars.ID, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var item api.Pipeline
	if err := json.Unmarshal([]byte(out), &item); err != nil {
		t.Fatalf("decode show: %v", err)
	}
	if item.LastUsedTime < bars.LastUsedTime {
		t.Fatalf("play should touch the entry: before %d after %d", bars.LastUsedTime, item.LastUsedTime)
	}
	if item.Active {
		t.Fatal("active marker should be cleared after play")
	}

	out, _, err = runCLI(t, []string{"active"}, env.configPath)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	requireContains(t, out, "No pipeline is playing")
}

func TestPlayReportsPipelineFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	bars := addTestPipeline(t, env)
	writeStub(t, env, "gst-launch-1.0", "echo 'ERROR: pipeline could not be constructed: no element \"fakesink\"' >&2\nexit 1")

	_, _, err := runCLI(t, []string{"play", bars.ID}, env.configPath)
	if !errors.Is(err, player.ErrPipelineFailed) {
		t.Fatalf("expected ErrPipelineFailed, got %v", err)
	}
}

func TestPlayRefusesWhileLocked(t *testing.T) {
	env := setupCLITestEnv(t)
	bars := addTestPipeline(t, env)
	if err := os.MkdirAll(env.cfg.Paths.StateDir, 0o755); err != nil {
		t.Fatal(err)
	}

	lock := flock.New(env.cfg.PlayerLockPath())
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("take lock: %v %v", locked, err)
	}
	t.Cleanup(func() { _ = lock.Unlock() })

	_, _, err = runCLI(t, []string{"play", bars.ID}, env.configPath)
	if !errors.Is(err, player.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestActiveJSONWhenIdle(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"active", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("active --json: %v", err)
	}
	var resp api.ActiveResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Active || resp.Item != nil {
		t.Fatalf("expected idle response, got %+v", resp)
	}
}

// markActive writes the active marker the way a player would, without
// holding the player lock.
func markActive(t *testing.T, env *cliTestEnv, id string) {
	t.Helper()
	kv, err := prefs.Open(context.Background(), env.cfg, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer kv.Close()
	if err := catalog.NewStore(kv).SetActive(context.Background(), id); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
}

func TestStaleActiveMarkerIsCleared(t *testing.T) {
	env := setupCLITestEnv(t)
	bars := addTestPipeline(t, env)
	markActive(t, env, bars.ID)

	out, _, err := runCLI(t, []string{"active"}, env.configPath)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	requireContains(t, out, "No pipeline is playing")

	for _, item := range listJSON(t, env) {
		if item.Active {
			t.Fatalf("expected no active entry, got %+v", item)
		}
	}

	out, _, err = runCLI(t, []string{"delete", bars.ID}, env.configPath)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	requireContains(t, out, "Deleted Bars")
}

func TestDeleteRefusedWhilePlaying(t *testing.T) {
	env := setupCLITestEnv(t)
	bars := addTestPipeline(t, env)
	markActive(t, env, bars.ID)

	lock := flock.New(env.cfg.PlayerLockPath())
	if err := lock.Lock(); err != nil {
		t.Fatalf("take lock: %v", err)
	}
	t.Cleanup(func() { _ = lock.Unlock() })

	out, _, err := runCLI(t, []string{"active"}, env.configPath)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	requireContains(t, out, "Bars")

	_, _, err = runCLI(t, []string{"delete", bars.ID}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "Bars is playing") {
		t.Fatalf("expected delete to be refused, got %v", err)
	}
}
