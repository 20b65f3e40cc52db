package dto

import (
	"time"

	"github.com/JulHeg/LeRobotPanorama/internal/core/domain"
)

// CreateRunRequest represents the run creation request. Omitted robot
// parameters fall back to the configured defaults.
type CreateRunRequest struct {
	Script         string  `json:"script" binding:"required,oneof=panorama debug"`
	RobotType      string  `json:"robot_type"`
	RobotPort      string  `json:"robot_port"`
	RobotID        string  `json:"robot_id"`
	StepFolder     string  `json:"step_folder"`
	PhotoFolder    string  `json:"photo_folder"`
	SecondsPerStep float64 `json:"seconds_per_step"`
	FPS            int     `json:"fps"`
	NumSteps       int     `json:"num_steps"`
	InterpSeconds  float64 `json:"interp_seconds"`
}

// Configuration extracts the robot parameters from the request.
func (r CreateRunRequest) Configuration() domain.RunConfiguration {
	return domain.RunConfiguration{
		RobotType:      r.RobotType,
		RobotPort:      r.RobotPort,
		RobotID:        r.RobotID,
		StepFolder:     r.StepFolder,
		PhotoFolder:    r.PhotoFolder,
		SecondsPerStep: r.SecondsPerStep,
		FPS:            r.FPS,
		NumSteps:       r.NumSteps,
		InterpSeconds:  r.InterpSeconds,
	}
}

// RunResponse represents a run
type RunResponse struct {
	ID         int64                   `json:"id"`
	RunID      string                  `json:"run_id"`
	Script     string                  `json:"script"`
	Command    string                  `json:"command"`
	PID        *int                    `json:"pid,omitempty"`
	Status     string                  `json:"status"`
	ReturnCode *int                    `json:"return_code,omitempty"`
	LogFile    string                  `json:"log_file"`
	StartTime  time.Time               `json:"start_time"`
	EndTime    *time.Time              `json:"end_time,omitempty"`
	Config     domain.RunConfiguration `json:"config"`
	Link       *string                 `json:"link,omitempty"` // Link to status endpoint
}

// RunListResponse represents a list of runs
type RunListResponse struct {
	Items      []RunResponse  `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// AsyncResponse represents an async run start (202 Accepted)
type AsyncResponse struct {
	Status  string  `json:"status"`
	Link    *string `json:"link,omitempty"`
	RunID   *string `json:"run_id,omitempty"`
	LogFile *string `json:"log_file,omitempty"`
}
