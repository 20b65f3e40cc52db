package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/JulHeg/LeRobotPanorama/internal/core/domain"
	"github.com/JulHeg/LeRobotPanorama/internal/core/repository"
	"github.com/JulHeg/LeRobotPanorama/internal/runner"
	"github.com/JulHeg/LeRobotPanorama/pkg/config"
)

type RunService struct {
	runRepo    repository.RunRepository
	pythonBin  string
	scriptsDir string
	logsDir    string
	defaults   domain.RunConfiguration

	// Serializes the launch path so concurrent requests cannot both pass
	// the active-run check before either has recorded its run.
	launchMu sync.Mutex
}

func NewRunService(runRepo repository.RunRepository, cfg *config.Config) *RunService {
	return &RunService{
		runRepo:    runRepo,
		pythonBin:  cfg.PythonBin,
		scriptsDir: cfg.ScriptsDir,
		logsDir:    cfg.LogsDir,
		defaults:   defaultsFromConfig(cfg.Defaults),
	}
}

// StartRun validates the configuration, spawns the chosen script with its
// output captured into a fresh timestamped log file, and records the run.
// It returns as soon as the process has started; the returned channel
// yields the completed run after the process exits.
//
// Only one run may be active at a time: a second request is rejected with
// ErrRunAlreadyActive while the first run's process is still alive.
func (s *RunService) StartRun(ctx context.Context, script domain.Script, cfg domain.RunConfiguration) (*domain.Run, <-chan *domain.Run, error) {
	cfg = cfg.WithDefaults(s.defaults)
	if err := cfg.Validate(script); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	s.launchMu.Lock()
	defer s.launchMu.Unlock()

	if err := s.gateActiveRun(ctx); err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(s.logsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logName := fmt.Sprintf("%s_%s.log", script, time.Now().Format("20060102_150405"))
	logPath := filepath.Join(s.logsDir, logName)
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log file: %w", err)
	}

	argv := s.buildCommand(script, cfg)

	handle, err := runner.Start(argv, logFile)
	if err != nil {
		// A failed spawn should leave no trace besides the error
		logFile.Close()
		os.Remove(logPath)
		return nil, nil, fmt.Errorf("%w: %v", ErrSpawnFailure, err)
	}

	run := domain.NewRun(script, strings.Join(argv, " "), logPath, cfg)
	run.SetPID(handle.PID)

	// The process is already committed, so the record is written even if
	// the request context has been canceled. Losing it would blind the
	// active-run check to a live process.
	if err := s.runRepo.Create(context.Background(), run); err != nil {
		log.Printf("failed to create run record: %v", err)
	}

	done := make(chan *domain.Run, 1)
	go s.waitForCompletion(run, handle, done)

	return run, done, nil
}

// gateActiveRun rejects a new run while one is active. Rows left in
// running state by a dead process are marked failed so a crashed server
// never wedges the launcher.
func (s *RunService) gateActiveRun(ctx context.Context) error {
	running, err := s.runRepo.FindRunning(ctx)
	if err != nil {
		return fmt.Errorf("failed to check active runs: %w", err)
	}

	for _, r := range running {
		if r.PID != nil && runner.Alive(*r.PID) {
			return ErrRunAlreadyActive
		}

		r.Fail()
		if err := s.runRepo.Update(ctx, r); err != nil {
			log.Printf("failed to mark stale run %d failed: %v", r.ID, err)
		}
	}

	return nil
}

func (s *RunService) buildCommand(script domain.Script, cfg domain.RunConfiguration) []string {
	argv := []string{s.pythonBin, filepath.Join(s.scriptsDir, script.File())}
	return append(argv, cfg.Argv(script)...)
}

func (s *RunService) waitForCompletion(run *domain.Run, handle *runner.Handle, done chan<- *domain.Run) {
	defer close(done)

	returnCode := handle.Wait()
	run.Complete(returnCode)

	// The request context is long gone by the time the script exits
	if err := s.runRepo.Update(context.Background(), run); err != nil {
		log.Printf("failed to update run %d status: %v", run.ID, err)
	}

	done <- run
}

// GetRun retrieves a run by ID
func (s *RunService) GetRun(ctx context.Context, id int64) (*domain.Run, error) {
	return s.runRepo.FindByID(ctx, id)
}

// GetRunByRunID retrieves a run by its UUID
func (s *RunService) GetRunByRunID(ctx context.Context, runID string) (*domain.Run, error) {
	return s.runRepo.FindByRunID(ctx, runID)
}

// ListRuns lists runs with filtering
func (s *RunService) ListRuns(ctx context.Context, filter repository.RunFilter) ([]*domain.Run, error) {
	return s.runRepo.List(ctx, filter)
}

// CountRuns counts runs with filtering
func (s *RunService) CountRuns(ctx context.Context, filter repository.RunFilter) (int, error) {
	return s.runRepo.Count(ctx, filter)
}

func defaultsFromConfig(d config.RunDefaults) domain.RunConfiguration {
	return domain.RunConfiguration{
		RobotType:      d.RobotType,
		RobotPort:      d.RobotPort,
		RobotID:        d.RobotID,
		StepFolder:     d.StepFolder,
		PhotoFolder:    d.PhotoFolder,
		SecondsPerStep: d.SecondsPerStep,
		FPS:            d.FPS,
		NumSteps:       d.NumSteps,
		InterpSeconds:  d.InterpSeconds,
	}
}
