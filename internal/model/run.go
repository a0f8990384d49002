package model

import "time"

// Run is one recorded batch enrichment run.
type Run struct {
	ID         string     `json:"id"`
	InputFile  string     `json:"input_file"`
	Sources    []string   `json:"sources"`
	Stats      BatchStats `json:"stats"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}
