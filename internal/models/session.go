package models

import "time"

// SessionStatus represents the status of a report session.
type SessionStatus string

const (
	SessionStatusPending  SessionStatus = "pending"
	SessionStatusComplete SessionStatus = "complete"
	SessionStatusError    SessionStatus = "error"
)

// ReportSession holds the latest report computed for one browser session.
type ReportSession struct {
	ID           string        `json:"id"`
	File         *FileInfo     `json:"file,omitempty"`
	Status       SessionStatus `json:"status"`
	LoaderName   string        `json:"loaderName,omitempty"`
	Report       *Report       `json:"report,omitempty"`
	Error        string        `json:"error,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	LastAccessed time.Time     `json:"lastAccessed"`
}

// NewReportSession creates a new ReportSession in pending status.
func NewReportSession(id string) *ReportSession {
	now := time.Now()
	return &ReportSession{
		ID:           id,
		Status:       SessionStatusPending,
		CreatedAt:    now,
		LastAccessed: now,
	}
}
