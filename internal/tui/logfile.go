package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If WPSTARTER_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.wpstarter/logs/wpstarter.log
func GetLogFilePath() string {
	if customPath := os.Getenv("WPSTARTER_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home dir
		return "wpstarter.log"
	}

	return filepath.Join(homeDir, ".wpstarter", "logs", "wpstarter.log")
}
