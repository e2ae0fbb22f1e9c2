// SPDX-License-Identifier: AGPL-3.0-only
package model

import "time"

// Result captures one completed conversation run.
type Result struct {
	RunID      string    `json:"run_id"`
	Query      string    `json:"query"`
	Answer     string    `json:"answer,omitempty"`
	Error      string    `json:"error,omitempty"`
	Answered   bool      `json:"answered"`
	Iterations int       `json:"iterations"`
	ToolCalls  int       `json:"tool_calls"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	ExitCode   int       `json:"exit_code"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Duration   string    `json:"duration"`
}

// ResultStore persists run results.
type ResultStore interface {
	// SaveResult persists a run result.
	SaveResult(result *Result) error
	// GetLatestResult returns the most recent result, or nil if none exist.
	GetLatestResult() (*Result, error)
	// GetResults returns up to limit results, most recent first.
	GetResults(limit int) ([]*Result, error)
	// Close releases store resources.
	Close() error
}
