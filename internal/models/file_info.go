package models

import "time"

// FileInfo describes an uploaded spreadsheet. The file itself is never stored.
type FileInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
	Rows       int       `json:"rows"`
	Fields     []string  `json:"fields"`
}
