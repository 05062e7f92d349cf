package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setupConfig writes a config with a fixed zone and two seed tasks.
func setupConfig(t *testing.T) string {
	t.Helper()
	content := []byte(`
timezone = "UTC"
log_level = "error"

[[tasks]]
description = "set up shopify account"
category = "Setup"
deadline = "2024-03-26"
priority = "Medium"

[[tasks]]
description = "build home page"
category = "Design"
deadline = "Thu, Mar 27, 2024"
priority = "High"
done = true
`)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListJSON(t *testing.T) {
	path := setupConfig(t)
	out, err := executeCommand(t, "--config", path, "list", "--format", "json", "--now", "2024-03-25")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	var rows []struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
		Deadline    string `json:"deadline"`
		Priority    string `json:"priority"`
		Done        bool   `json:"done"`
		DaysLeft    int    `json:"days_left"`
	}
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != 1 || rows[0].Deadline != "Tue, Mar 26, 2024" || rows[0].DaysLeft != 1 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Deadline != "Wed, Mar 27, 2024" || !rows[1].Done || rows[1].DaysLeft != 2 {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestListText(t *testing.T) {
	path := setupConfig(t)
	out, err := executeCommand(t, "--config", path, "list", "--now", "2024-03-20T08:00:00Z")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"Description", "set up shopify account", "[x]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestListRejectsBadFlags(t *testing.T) {
	path := setupConfig(t)
	if _, err := executeCommand(t, "--config", path, "list", "--format", "csv"); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := executeCommand(t, "--config", path, "list", "--now", "yesterday"); err == nil {
		t.Error("expected error for bad --now")
	}
}

func TestListCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh", "config.toml")
	out, err := executeCommand(t, "--config", path, "list", "--format", "yaml")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "purchase domain name") {
		t.Errorf("default seed missing:\n%s", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not created: %v", err)
	}
}

func TestParseNow(t *testing.T) {
	got, err := parseNow("2024-04-01", time.UTC)
	if err != nil || !got.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("parseNow date: %v %v", got, err)
	}
	got, err = parseNow("2024-04-01T10:00:00+02:00", time.UTC)
	if err != nil || got.Hour() != 8 {
		t.Fatalf("parseNow rfc3339: %v %v", got, err)
	}
}
