package commands

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// LogSummary is what the status views read from the log file
type LogSummary struct {
	Lines   []string
	LastRun time.Time
	Files   int
	Folders int
}

// ParseLogFile reads the last maxLines lines of the log file and finds the
// most recent completed generation
func ParseLogFile(logPath string, maxLines int) LogSummary {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return LogSummary{Lines: []string{"Unable to read log file"}}
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	summary := LogSummary{Lines: lines[startIdx:]}

	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if !strings.Contains(line, "generation completed") {
			continue
		}

		// Format: 2025-11-27 14:11:57 INFO generation completed run_id=... files=3 folders=1
		if len(line) > 19 {
			if t, err := time.ParseInLocation(time.DateTime, line[:19], time.Local); err == nil {
				summary.LastRun = t
			}
		}

		// Best effort, counts stay zero when missing
		if idx := strings.Index(line, " files="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx+1:], "files=%d", &summary.Files) //nolint:errcheck // best effort parsing
		}
		if idx := strings.Index(line, " folders="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx+1:], "folders=%d", &summary.Folders) //nolint:errcheck // best effort parsing
		}
		break
	}

	return summary
}
