package domain

import "fmt"

// Script selects which of the two operator scripts a run launches.
type Script string

const (
	ScriptPanorama Script = "panorama"
	ScriptDebug    Script = "debug"
)

func ParseScript(s string) (Script, error) {
	switch Script(s) {
	case ScriptPanorama, ScriptDebug:
		return Script(s), nil
	}
	return "", fmt.Errorf("invalid script type: %q (expected panorama or debug)", s)
}

// File returns the script's filename inside the configured scripts directory.
func (s Script) File() string {
	if s == ScriptDebug {
		return "debug_shell.py"
	}
	return "take_panorama_images.py"
}
