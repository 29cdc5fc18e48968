package domain

import "time"

// GenerationStatus is the live per-user record the worker keeps current
// while a job runs. IsRunning is a hint only: readers must cross-check the
// queue's active/waiting rows, since a crashed worker can leave it stale.
type GenerationStatus struct {
	UserID         string         `json:"userId"`
	IsRunning      bool           `json:"isRunning"`
	Mode           GenerationMode `json:"mode"`
	JobID          string         `json:"jobId,omitempty"`
	TotalGenerated int            `json:"totalGenerated"`
	Message        string         `json:"message,omitempty"`
	StartedAt      time.Time      `json:"startedAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}
