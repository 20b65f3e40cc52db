package domain

import (
	"fmt"
	"strings"
)

// RunConfiguration is the set of named parameters describing the target
// robot and file locations for a run. Values are passed verbatim to the
// script as command-line flags.
type RunConfiguration struct {
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

// WithDefaults returns a copy with zero-valued fields filled in from d.
func (c RunConfiguration) WithDefaults(d RunConfiguration) RunConfiguration {
	if c.RobotType == "" {
		c.RobotType = d.RobotType
	}
	if c.RobotPort == "" {
		c.RobotPort = d.RobotPort
	}
	if c.RobotID == "" {
		c.RobotID = d.RobotID
	}
	if c.StepFolder == "" {
		c.StepFolder = d.StepFolder
	}
	if c.PhotoFolder == "" {
		c.PhotoFolder = d.PhotoFolder
	}
	if c.SecondsPerStep == 0 {
		c.SecondsPerStep = d.SecondsPerStep
	}
	if c.FPS == 0 {
		c.FPS = d.FPS
	}
	if c.NumSteps == 0 {
		c.NumSteps = d.NumSteps
	}
	if c.InterpSeconds == 0 {
		c.InterpSeconds = d.InterpSeconds
	}
	return c
}

// Validate checks the fields the given script requires.
func (c RunConfiguration) Validate(script Script) error {
	for _, f := range []struct{ name, value string }{
		{"robot_type", c.RobotType},
		{"robot_port", c.RobotPort},
		{"robot_id", c.RobotID},
		{"step_folder", c.StepFolder},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s is required", f.name)
		}
		if strings.ContainsAny(f.value, " \t\n") {
			return fmt.Errorf("%s must not contain whitespace: %q", f.name, f.value)
		}
	}

	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}

	switch script {
	case ScriptPanorama:
		if strings.TrimSpace(c.PhotoFolder) == "" {
			return fmt.Errorf("photo_folder is required")
		}
		if c.SecondsPerStep <= 0 {
			return fmt.Errorf("seconds_per_step must be positive, got %v", c.SecondsPerStep)
		}
	case ScriptDebug:
		if c.NumSteps <= 0 {
			return fmt.Errorf("num_steps must be positive, got %d", c.NumSteps)
		}
		if c.InterpSeconds < 0 {
			return fmt.Errorf("interp_seconds must not be negative, got %v", c.InterpSeconds)
		}
	}

	return nil
}

// Argv builds the script's flag list. Flag names and order follow what the
// scripts expect from the original operator panel.
func (c RunConfiguration) Argv(script Script) []string {
	args := []string{
		fmt.Sprintf("--robot.type=%s", c.RobotType),
		fmt.Sprintf("--robot.port=%s", c.RobotPort),
		"--robot.cameras={}",
		fmt.Sprintf("--robot.id=%s", c.RobotID),
		fmt.Sprintf("--step_folder=%s", c.StepFolder),
	}

	if script == ScriptPanorama {
		args = append(args,
			fmt.Sprintf("--photo_folder=%s", c.PhotoFolder),
			fmt.Sprintf("--seconds_per_step=%v", c.SecondsPerStep),
			fmt.Sprintf("--fps=%d", c.FPS),
		)
	} else {
		args = append(args,
			fmt.Sprintf("--num_steps=%d", c.NumSteps),
			fmt.Sprintf("--interp_seconds=%v", c.InterpSeconds),
			fmt.Sprintf("--fps=%d", c.FPS),
		)
	}

	return args
}
