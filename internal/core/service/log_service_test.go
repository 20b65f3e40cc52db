package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JulHeg/LeRobotPanorama/internal/logwatch"
)

func writeTestLog(t *testing.T, dir, name, content string, modTime time.Time) {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write log file: %v", err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("failed to set log file time: %v", err)
	}
}

func TestLogServiceLatest(t *testing.T) {
	baseTime := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	t.Run("empty directory", func(t *testing.T) {
		svc := NewLogService(t.TempDir(), nil)

		_, err := svc.Latest()
		if !errors.Is(err, ErrNoLogsAvailable) {
			t.Errorf("expected ErrNoLogsAvailable, got %v", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		svc := NewLogService(filepath.Join(t.TempDir(), "gone"), nil)

		_, err := svc.Latest()
		if !errors.Is(err, ErrNoLogsAvailable) {
			t.Errorf("expected ErrNoLogsAvailable, got %v", err)
		}
	})

	t.Run("picks the most recently written file", func(t *testing.T) {
		dir := t.TempDir()
		writeTestLog(t, dir, "panorama_20260830_100000.log", "old", baseTime)
		writeTestLog(t, dir, "panorama_20260831_100000.log", "new", baseTime.Add(24*time.Hour))
		svc := NewLogService(dir, nil)

		content, err := svc.Latest()
		if err != nil {
			t.Fatalf("Latest failed: %v", err)
		}
		if content.Name != "panorama_20260831_100000.log" {
			t.Errorf("expected newest file, got %s", content.Name)
		}
		if content.Content != "new" {
			t.Errorf("unexpected content: %q", content.Content)
		}
		if content.Size != 3 {
			t.Errorf("expected size 3, got %d", content.Size)
		}
	})

	t.Run("ignores non-log files", func(t *testing.T) {
		dir := t.TempDir()
		writeTestLog(t, dir, "readme.md", "not a log", baseTime)
		svc := NewLogService(dir, nil)

		_, err := svc.Latest()
		if !errors.Is(err, ErrNoLogsAvailable) {
			t.Errorf("expected ErrNoLogsAvailable, got %v", err)
		}
	})

	t.Run("uses the watcher cache when available", func(t *testing.T) {
		dir := t.TempDir()
		writeTestLog(t, dir, "panorama_20260830_100000.log", "watched", baseTime)

		watcher, err := logwatch.New(dir)
		if err != nil {
			t.Fatalf("failed to create watcher: %v", err)
		}
		defer watcher.Close()

		svc := NewLogService(dir, watcher)
		content, err := svc.Latest()
		if err != nil {
			t.Fatalf("Latest failed: %v", err)
		}
		if content.Content != "watched" {
			t.Errorf("unexpected content: %q", content.Content)
		}
	})

	t.Run("stale watcher cache falls back to scanning", func(t *testing.T) {
		dir := t.TempDir()
		writeTestLog(t, dir, "panorama_20260830_100000.log", "kept", baseTime)
		writeTestLog(t, dir, "panorama_20260831_100000.log", "removed", baseTime.Add(24*time.Hour))

		watcher, err := logwatch.New(dir)
		if err != nil {
			t.Fatalf("failed to create watcher: %v", err)
		}
		watcher.Close()

		// With the watcher stopped its cache can go stale
		if err := os.Remove(filepath.Join(dir, "panorama_20260831_100000.log")); err != nil {
			t.Fatalf("failed to remove log: %v", err)
		}

		svc := NewLogService(dir, watcher)
		content, err := svc.Latest()
		if err != nil {
			t.Fatalf("Latest failed: %v", err)
		}
		if content.Content != "kept" {
			t.Errorf("expected fallback to surviving file, got %q", content.Content)
		}
	})
}

func TestLogServiceList(t *testing.T) {
	baseTime := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	t.Run("empty directory yields empty slice", func(t *testing.T) {
		svc := NewLogService(t.TempDir(), nil)

		logs, err := svc.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(logs) != 0 {
			t.Errorf("expected no logs, got %d", len(logs))
		}
	})

	t.Run("orders newest first", func(t *testing.T) {
		dir := t.TempDir()
		writeTestLog(t, dir, "panorama_20260829_090000.log", "a", baseTime)
		writeTestLog(t, dir, "debug_20260830_090000.log", "b", baseTime.Add(24*time.Hour))
		writeTestLog(t, dir, "panorama_20260831_090000.log", "c", baseTime.Add(48*time.Hour))
		svc := NewLogService(dir, nil)

		logs, err := svc.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(logs) != 3 {
			t.Fatalf("expected 3 logs, got %d", len(logs))
		}

		want := []string{
			"panorama_20260831_090000.log",
			"debug_20260830_090000.log",
			"panorama_20260829_090000.log",
		}
		for i, name := range want {
			if logs[i].Name != name {
				t.Errorf("position %d: expected %s, got %s", i, name, logs[i].Name)
			}
		}
	})
}
