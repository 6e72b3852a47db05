// Package tui provides the terminal output of wpstarter.
//
// It handles:
//   - Structured logging and status reporting (Splog)
//   - Terminal styling and colors (using lipgloss)
//   - The spinner shown while releases download (using bubbletea)
package tui
