package dto

import "time"

// LogResponse represents one log file's contents
type LogResponse struct {
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mod_time"`
	Content  string    `json:"content"`
}

// LogListResponse represents all log files, newest first
type LogListResponse struct {
	Items []LogResponse `json:"items"`
}
