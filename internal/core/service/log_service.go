package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/JulHeg/LeRobotPanorama/internal/logwatch"
)

// LogContent is one log file's name and full current contents. Reads of a
// live run return a non-decreasing prefix of the final content because the
// file is append-only.
type LogContent struct {
	Name    string
	Size    int64
	ModTime time.Time
	Content string
}

// LogService reads run log files. Each call is independent; the newest
// file is derived from the filesystem (or the watcher's cache) per read.
type LogService struct {
	logsDir string
	watcher *logwatch.Watcher // optional, may be nil
}

func NewLogService(logsDir string, watcher *logwatch.Watcher) *LogService {
	return &LogService{
		logsDir: logsDir,
		watcher: watcher,
	}
}

// Latest returns the most recent log file's contents, or ErrNoLogsAvailable
// when no run has been started yet.
func (s *LogService) Latest() (*LogContent, error) {
	if s.watcher != nil {
		if name := s.watcher.Latest(); name != "" {
			content, err := s.read(name)
			if err == nil {
				return content, nil
			}
			// Cache went stale; fall back to scanning
		}
	}

	names, err := s.logNames()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoLogsAvailable
	}

	return s.read(names[0])
}

// List returns every log file with contents, newest first. An empty log
// directory yields an empty slice, not an error.
func (s *LogService) List() ([]*LogContent, error) {
	names, err := s.logNames()
	if err != nil {
		return nil, err
	}

	logs := make([]*LogContent, 0, len(names))
	for _, name := range names {
		content, err := s.read(name)
		if err != nil {
			// Skip files that vanished between listing and reading
			continue
		}
		logs = append(logs, content)
	}

	return logs, nil
}

// logNames lists *.log files, most recently written first. Recency comes
// from file modification times, so log names only need the .log suffix.
func (s *LogService) logNames() ([]string, error) {
	entries, err := os.ReadDir(s.logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}

	type logEntry struct {
		name    string
		modTime time.Time
	}

	var logs []logEntry
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logs = append(logs, logEntry{name: entry.Name(), modTime: info.ModTime()})
	}

	sort.Slice(logs, func(i, j int) bool {
		if !logs[i].modTime.Equal(logs[j].modTime) {
			return logs[i].modTime.After(logs[j].modTime)
		}
		return logs[i].name > logs[j].name
	})

	names := make([]string, len(logs))
	for i, l := range logs {
		names[i] = l.name
	}
	return names, nil
}

func (s *LogService) read(name string) (*LogContent, error) {
	path := filepath.Join(s.logsDir, name)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	return &LogContent{
		Name:    name,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Content: string(data),
	}, nil
}
