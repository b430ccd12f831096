package documents

import (
	"encoding/json"
	"time"
)

// documentResponse is the wire shape of a document record.
type documentResponse struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category"`
	Tags           string          `json:"tags,omitempty"`
	FileName       string          `json:"file_name"`
	FilePath       string          `json:"file_path"`
	FileSize       int64           `json:"file_size"`
	MimeType       string          `json:"mime_type"`
	Status         string          `json:"status"`
	ProcessedData  json.RawMessage `json:"processed_data,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	UploadedBy     string          `json:"uploaded_by,omitempty"`
	UploadedByName string          `json:"uploaded_by_name,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toResponse(d Document) documentResponse {
	return documentResponse{
		ID:             d.ID,
		Title:          d.Title,
		Description:    d.Description,
		Category:       d.Category,
		Tags:           d.Tags,
		FileName:       d.FileName,
		FilePath:       d.FilePath,
		FileSize:       d.FileSize,
		MimeType:       d.MimeType,
		Status:         d.Status,
		ProcessedData:  d.ProcessedData,
		ErrorMessage:   d.ErrorMessage,
		UploadedBy:     d.UploadedBy,
		UploadedByName: d.UploadedByName,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toResponseList(docs []Document) []documentResponse {
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toResponse(d))
	}
	return out
}
