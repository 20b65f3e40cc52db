package domain

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// Run identifies one launched script process. Its only mutation after
// creation is the running -> success/failed transition.
type Run struct {
	ID         int64            `db:"id"`
	RunID      string           `db:"run_id"` // UUID for API polling
	Script     Script           `db:"script"`
	Command    string           `db:"command"`
	PID        *int             `db:"pid"`
	Status     RunStatus        `db:"status"`
	ReturnCode *int             `db:"return_code"`
	LogFile    string           `db:"log_file"`
	StartTime  time.Time        `db:"start_time"`
	EndTime    *time.Time       `db:"end_time"`
	Config     RunConfiguration `db:"config"` // stored as JSON
}

func NewRun(script Script, command, logFile string, config RunConfiguration) *Run {
	return &Run{
		RunID:     uuid.New().String(),
		Script:    script,
		Command:   command,
		Status:    RunStatusRunning,
		LogFile:   logFile,
		StartTime: time.Now(),
		Config:    config,
	}
}

func (r *Run) SetPID(pid int) {
	r.PID = &pid
}

func (r *Run) Complete(returnCode int) {
	now := time.Now()
	r.EndTime = &now
	r.ReturnCode = &returnCode

	if returnCode == 0 {
		r.Status = RunStatusSuccess
	} else {
		r.Status = RunStatusFailed
	}
}

// Fail marks the run failed without a return code, used for runs whose
// process disappeared without the server observing its exit.
func (r *Run) Fail() {
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
}

func (r *Run) IsComplete() bool {
	return r.Status == RunStatusSuccess || r.Status == RunStatusFailed
}
