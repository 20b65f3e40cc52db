package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JulHeg/LeRobotPanorama/internal/api/util"
	"github.com/JulHeg/LeRobotPanorama/internal/core/domain"
	"github.com/JulHeg/LeRobotPanorama/internal/core/repository"
)

func newTestRepo(t *testing.T) repository.RunRepository {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewRunRepository(db)
}

func sampleRun(script domain.Script) *domain.Run {
	run := domain.NewRun(script, "python3 take_panorama_images.py --fps=60", "/var/log/test.log", domain.RunConfiguration{
		RobotType: "so101_follower",
		RobotPort: "COM4",
		FPS:       60,
	})
	run.SetPID(4242)
	return run
}

func TestRunRepositoryCreateAndFind(t *testing.T) {
	repo := newTestRepo(t)

	run := sampleRun(domain.ScriptPanorama)
	if err := repo.Create(context.Background(), run); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if run.ID == 0 {
		t.Error("expected Create to set the row ID")
	}

	t.Run("by id", func(t *testing.T) {
		got, err := repo.FindByID(context.Background(), run.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if got.RunID != run.RunID {
			t.Errorf("expected run_id %s, got %s", run.RunID, got.RunID)
		}
		if got.Script != domain.ScriptPanorama {
			t.Errorf("expected panorama, got %s", got.Script)
		}
		if got.PID == nil || *got.PID != 4242 {
			t.Errorf("expected PID 4242, got %v", got.PID)
		}
		if got.Config.RobotPort != "COM4" {
			t.Errorf("config did not round-trip: %+v", got.Config)
		}
		if got.ReturnCode != nil {
			t.Errorf("expected nil return code, got %v", got.ReturnCode)
		}
		if got.EndTime != nil {
			t.Errorf("expected nil end time, got %v", got.EndTime)
		}
	})

	t.Run("by run_id", func(t *testing.T) {
		got, err := repo.FindByRunID(context.Background(), run.RunID)
		if err != nil {
			t.Fatalf("FindByRunID failed: %v", err)
		}
		if got.ID != run.ID {
			t.Errorf("expected ID %d, got %d", run.ID, got.ID)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := repo.FindByID(context.Background(), 9999); err == nil {
			t.Error("expected error for unknown id")
		}
	})

	t.Run("unknown run_id", func(t *testing.T) {
		if _, err := repo.FindByRunID(context.Background(), "nope"); err == nil {
			t.Error("expected error for unknown run_id")
		}
	})

	t.Run("duplicate run_id is rejected", func(t *testing.T) {
		dup := sampleRun(domain.ScriptDebug)
		dup.RunID = run.RunID
		if err := repo.Create(context.Background(), dup); err == nil {
			t.Error("expected unique constraint violation")
		}
	})
}

func TestRunRepositoryUpdate(t *testing.T) {
	repo := newTestRepo(t)

	run := sampleRun(domain.ScriptDebug)
	if err := repo.Create(context.Background(), run); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	run.Complete(0)
	if err := repo.Update(context.Background(), run); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.FindByID(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Status != domain.RunStatusSuccess {
		t.Errorf("expected success, got %s", got.Status)
	}
	if got.ReturnCode == nil || *got.ReturnCode != 0 {
		t.Errorf("expected return code 0, got %v", got.ReturnCode)
	}
	if got.EndTime == nil {
		t.Error("expected an end time")
	}

	t.Run("missing row", func(t *testing.T) {
		ghost := sampleRun(domain.ScriptDebug)
		ghost.ID = 12345
		if err := repo.Update(context.Background(), ghost); err == nil {
			t.Error("expected error updating a missing row")
		}
	})
}

func TestRunRepositoryFindRunning(t *testing.T) {
	repo := newTestRepo(t)

	running := sampleRun(domain.ScriptPanorama)
	if err := repo.Create(context.Background(), running); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	finished := sampleRun(domain.ScriptDebug)
	finished.Complete(1)
	if err := repo.Create(context.Background(), finished); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.FindRunning(context.Background())
	if err != nil {
		t.Fatalf("FindRunning failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 running run, got %d", len(got))
	}
	if got[0].RunID != running.RunID {
		t.Errorf("expected %s, got %s", running.RunID, got[0].RunID)
	}
}

func TestRunRepositoryListAndCount(t *testing.T) {
	repo := newTestRepo(t)

	baseTime := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	scripts := []domain.Script{
		domain.ScriptPanorama,
		domain.ScriptDebug,
		domain.ScriptPanorama,
		domain.ScriptDebug,
		domain.ScriptPanorama,
	}
	for i, script := range scripts {
		run := sampleRun(script)
		run.StartTime = baseTime.Add(time.Duration(i) * 24 * time.Hour)
		if i%2 == 0 {
			run.Complete(0)
		}
		if err := repo.Create(context.Background(), run); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	t.Run("list all defaults to newest first", func(t *testing.T) {
		got, err := repo.List(context.Background(), repository.RunFilter{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 5 {
			t.Fatalf("expected 5 runs, got %d", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].StartTime.After(got[i-1].StartTime) {
				t.Errorf("runs not ordered newest first at %d", i)
			}
		}
	})

	t.Run("filter by script", func(t *testing.T) {
		filter := repository.RunFilter{ListFilter: util.ListFilter{
			Filters: []util.QueryFilter{{Field: "script", Operator: util.OpEq, Value: "debug"}},
		}}

		got, err := repo.List(context.Background(), filter)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 debug runs, got %d", len(got))
		}

		count, err := repo.Count(context.Background(), filter)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 2 {
			t.Errorf("expected count 2, got %d", count)
		}
	})

	t.Run("filter by null end_time", func(t *testing.T) {
		filter := repository.RunFilter{ListFilter: util.ListFilter{
			Filters: []util.QueryFilter{{Field: "end_time", Operator: util.OpIsNull}},
		}}

		got, err := repo.List(context.Background(), filter)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 incomplete runs, got %d", len(got))
		}
	})

	t.Run("filter by start_time boundary", func(t *testing.T) {
		filter := repository.RunFilter{ListFilter: util.ListFilter{
			Filters: []util.QueryFilter{{Field: "start_time", Operator: util.OpGte, Value: "2026-08-03"}},
		}}

		count, err := repo.Count(context.Background(), filter)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 runs on or after Aug 3, got %d", count)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		filter := repository.RunFilter{ListFilter: util.ListFilter{
			Order:   []util.OrderClause{{Field: "start_time", Direction: util.OrderAsc}},
			Page:    2,
			PerPage: 2,
		}}

		got, err := repo.List(context.Background(), filter)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 runs on page 2, got %d", len(got))
		}
		if !got[0].StartTime.Equal(baseTime.Add(2 * 24 * time.Hour)) {
			t.Errorf("unexpected first run on page 2: %v", got[0].StartTime)
		}
	})
}

func TestNormalizeDateTime(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2026-08-01T10:30:00Z", "2026-08-01 10:30:00"},
		{"2026-08-01 10:30:00", "2026-08-01 10:30:00"},
		{"2026-08-01", "2026-08-01 00:00:00"},
		{"2026-08-01T10:30", "2026-08-01 10:30:00"},
		{"not a date", "not a date"},
	}

	for _, tt := range tests {
		if got := normalizeDateTime(tt.input); !strings.HasPrefix(got, tt.want) && got != tt.want {
			t.Errorf("normalizeDateTime(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
