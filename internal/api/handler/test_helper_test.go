package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JulHeg/LeRobotPanorama/internal/api/dto"
	"github.com/JulHeg/LeRobotPanorama/internal/core/domain"
	"github.com/JulHeg/LeRobotPanorama/internal/core/repository"
	"github.com/JulHeg/LeRobotPanorama/internal/core/service"
	"github.com/JulHeg/LeRobotPanorama/internal/infrastructure/sqlite"
	"github.com/JulHeg/LeRobotPanorama/pkg/config"
)

// testEnv holds all test dependencies
type testEnv struct {
	db         *sqlite.DB
	router     *gin.Engine
	runRepo    repository.RunRepository
	runService *service.RunService
	logsDir    string
}

// setupTestEnv creates a test environment backed by a throwaway SQLite
// file, so every pooled connection sees the same database. Runs spawn
// /bin/echo instead of a Python interpreter so they start for real and
// finish immediately.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logsDir := t.TempDir()

	cfg := &config.Config{
		ScriptsDir: t.TempDir(),
		PythonBin:  "echo",
		LogsDir:    logsDir,
		Defaults: config.RunDefaults{
			RobotType:      "so101_follower",
			RobotPort:      "COM4",
			RobotID:        "my_awesome_follower_arm",
			StepFolder:     "robot_steps",
			PhotoFolder:    "photos",
			SecondsPerStep: 4,
			FPS:            60,
			NumSteps:       6,
			InterpSeconds:  1.0,
		},
	}

	runRepo := sqlite.NewRunRepository(db)
	runService := service.NewRunService(runRepo, cfg)
	logService := service.NewLogService(logsDir, nil)

	runHandler := NewRunHandler(runService)
	logHandler := NewLogHandler(logService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Register routes without auth middleware
	router.POST("/runs", runHandler.CreateRun)
	router.GET("/runs", runHandler.ListRuns)
	router.GET("/runs/:id", runHandler.GetRun)
	router.GET("/status/:run_id", runHandler.GetRunByRunID)
	router.GET("/logs", logHandler.ListLogs)
	router.GET("/logs/latest", logHandler.GetLatestLog)

	return &testEnv{
		db:         db,
		router:     router,
		runRepo:    runRepo,
		runService: runService,
		logsDir:    logsDir,
	}
}

// seedRuns inserts completed runs with predictable timestamps for
// filtering and ordering tests.
func (env *testEnv) seedRuns(t *testing.T) []*domain.Run {
	t.Helper()

	baseTime := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	specs := []struct {
		script     domain.Script
		status     domain.RunStatus
		returnCode *int
		offset     time.Duration
	}{
		{domain.ScriptPanorama, domain.RunStatusSuccess, ptr(0), 0},
		{domain.ScriptPanorama, domain.RunStatusFailed, ptr(1), 24 * time.Hour},
		{domain.ScriptDebug, domain.RunStatusSuccess, ptr(0), 2 * 24 * time.Hour},
		{domain.ScriptPanorama, domain.RunStatusSuccess, ptr(0), 3 * 24 * time.Hour},
		{domain.ScriptDebug, domain.RunStatusFailed, ptr(2), 4 * 24 * time.Hour},
	}

	runs := make([]*domain.Run, 0, len(specs))
	for _, s := range specs {
		run := domain.NewRun(s.script, "echo test", "/tmp/test.log", domain.RunConfiguration{})
		run.StartTime = baseTime.Add(s.offset)
		run.Status = s.status
		run.ReturnCode = s.returnCode
		end := run.StartTime.Add(time.Minute)
		run.EndTime = &end
		run.SetPID(12345)

		if err := env.runRepo.Create(context.Background(), run); err != nil {
			t.Fatalf("failed to seed run: %v", err)
		}
		runs = append(runs, run)
	}

	return runs
}

// makeRequest performs a GET request and returns the response
func (env *testEnv) makeRequest(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// postJSON performs a POST request with a JSON body
func (env *testEnv) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// waitForRun polls the status endpoint until the run leaves running state
func (env *testEnv) waitForRun(t *testing.T, runID string) dto.RunResponse {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		w := env.makeRequest(t, "/status/"+runID)
		if w.Code != http.StatusOK {
			t.Fatalf("status poll returned %d: %s", w.Code, w.Body.String())
		}

		var resp dto.RunResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse run response: %v", err)
		}
		if resp.Status != string(domain.RunStatusRunning) {
			return resp
		}

		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("run %s did not finish in time", runID)
	return dto.RunResponse{}
}

// parseRunListResponse parses the response body into RunListResponse
func parseRunListResponse(t *testing.T, w *httptest.ResponseRecorder) dto.RunListResponse {
	t.Helper()

	var resp dto.RunListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

// ptr is a helper to create a pointer to a value
func ptr[T any](v T) *T {
	return &v
}
