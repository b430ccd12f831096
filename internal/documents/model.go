package documents

import (
	"encoding/json"
	"time"
)

// Document status lifecycle: pending is the only initial state; processed
// and error are terminal. Processing is attempted at most once.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusError     = "error"
)

// ValidStatus reports whether s is a known document status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessed, StatusError:
		return true
	}
	return false
}

// Document is a metadata record plus one backing file, tracked through the
// ingestion/processing lifecycle. File fields are captured at ingestion time
// and immutable afterwards. At most one of ProcessedData / ErrorMessage is
// set, and exactly one once the status leaves pending.
type Document struct {
	ID          string
	Title       string
	Description string
	Category    string
	Tags        string

	FileName string
	FilePath string
	FileSize int64
	MimeType string

	Status        string
	ProcessedData json.RawMessage
	ErrorMessage  string

	UploadedBy     string
	UploadedByName string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
