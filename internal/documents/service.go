package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"docuhub-backend/internal/shared/apperr"
	"docuhub-backend/internal/shared/metrics"
	"docuhub-backend/internal/shared/storage/files"
	"docuhub-backend/internal/shared/telemetry"
)

const defaultCategory = "general"

// Dispatcher hands a newly ingested document to the processing pipeline
// without blocking the caller.
type Dispatcher interface {
	Dispatch(documentID, filePath string)
}

// MediaPolicy is the upload allow-list: a file is accepted only when both
// its extension and its declared MIME type pass.
type MediaPolicy struct {
	MaxFileSize int64
	extensions  map[string]struct{}
	mimeTypes   map[string]struct{}
}

// NewMediaPolicy builds a policy from the configured extension and MIME
// allow-lists.
func NewMediaPolicy(maxFileSize int64, extensions, mimeTypes []string) MediaPolicy {
	p := MediaPolicy{
		MaxFileSize: maxFileSize,
		extensions:  make(map[string]struct{}, len(extensions)),
		mimeTypes:   make(map[string]struct{}, len(mimeTypes)),
	}
	for _, ext := range extensions {
		p.extensions[strings.ToLower(ext)] = struct{}{}
	}
	for _, mt := range mimeTypes {
		p.mimeTypes[strings.ToLower(mt)] = struct{}{}
	}
	return p
}

// Allows reports whether the file name's extension and the declared MIME
// type are both on the allow-list.
func (p MediaPolicy) Allows(fileName, mimeType string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := p.extensions[ext]; !ok {
		return false
	}
	declared := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	_, ok := p.mimeTypes[declared]
	return ok
}

// Service owns the document lifecycle: ingestion, reads, metadata updates,
// and the compensating cleanup that keeps the metadata store and the file
// store consistent.
type Service struct {
	Repo       Repo
	Files      files.Store
	Dispatcher Dispatcher
	Policy     MediaPolicy
	Metrics    *metrics.Metrics
}

// IngestInput carries an upload into the gateway.
type IngestInput struct {
	Title       string
	Description string
	Category    string
	Tags        string
	UploadedBy  string

	FileName string
	MimeType string
	Size     int64
	File     io.Reader
}

// Ingest validates the upload, writes the file, creates the metadata record
// with status pending, and hands the document to the dispatcher. The file
// write always precedes record creation; if the record cannot be created the
// just-written file is reclaimed before the error propagates.
func (s *Service) Ingest(ctx context.Context, in IngestInput) (Document, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Document{}, fmt.Errorf("%w: title is required", apperr.ErrValidation)
	}
	if in.File == nil || strings.TrimSpace(in.FileName) == "" {
		return Document{}, fmt.Errorf("%w: file is required", apperr.ErrValidation)
	}
	if in.Size <= 0 {
		return Document{}, fmt.Errorf("%w: file is empty", apperr.ErrValidation)
	}
	if in.Size > s.Policy.MaxFileSize {
		return Document{}, fmt.Errorf("%w: file exceeds the %d byte limit", apperr.ErrPayloadTooLarge, s.Policy.MaxFileSize)
	}
	if !s.Policy.Allows(in.FileName, in.MimeType) {
		return Document{}, fmt.Errorf("%w: %s (%s)", apperr.ErrUnsupportedMedia, filepath.Ext(in.FileName), in.MimeType)
	}

	saved, err := s.Files.Save(ctx, "file", in.FileName, in.File)
	if err != nil {
		return Document{}, fmt.Errorf("store file: %w", err)
	}
	if saved.Size == 0 {
		s.removeFile(ctx, saved.Path)
		return Document{}, fmt.Errorf("%w: file is empty", apperr.ErrValidation)
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = defaultCategory
	}

	now := time.Now().UTC()
	doc := Document{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		Tags:        strings.TrimSpace(in.Tags),
		FileName:    in.FileName,
		FilePath:    saved.Path,
		FileSize:    saved.Size,
		MimeType:    in.MimeType,
		Status:      StatusPending,
		UploadedBy:  in.UploadedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		// The file was written first; reclaim it so no orphan remains.
		s.removeFile(ctx, saved.Path)
		return Document{}, fmt.Errorf("create document record: %w", err)
	}

	if s.Metrics != nil {
		s.Metrics.DocumentsIngestedTotal.Inc()
	}
	telemetry.Info("document.ingested", map[string]any{
		"document_id": doc.ID,
		"file_name":   doc.FileName,
		"file_size":   doc.FileSize,
		"status":      doc.Status,
	})

	s.Dispatcher.Dispatch(doc.ID, doc.FilePath)
	return doc, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Document{}, fmt.Errorf("document %w", apperr.ErrNotFound)
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns a page of documents, newest-first, with the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Document, int, error) {
	return s.Repo.List(ctx, limit, offset)
}

// ListByStatus returns documents in the given lifecycle status.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]Document, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, status)
	}
	return s.Repo.ListByStatus(ctx, status)
}

// Search returns documents matching the query in title, description, or tags.
func (s *Service) Search(ctx context.Context, query string) ([]Document, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", apperr.ErrValidation)
	}
	return s.Repo.Search(ctx, query)
}

// Update replaces the user-editable metadata fields.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("document %w", apperr.ErrNotFound)
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", apperr.ErrValidation)
	}
	if strings.TrimSpace(in.Category) == "" {
		in.Category = defaultCategory
	}
	return s.Repo.Update(ctx, id, in)
}

// Delete loads the document and reclaims both the record and the backing
// file. A file that is already gone does not fail the delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reclaim(ctx, doc); err != nil {
		return err
	}
	if s.Metrics != nil {
		s.Metrics.DocumentsDeletedTotal.Inc()
	}
	telemetry.Info("document.deleted", map[string]any{"document_id": doc.ID})
	return nil
}

// Download resolves the record and opens the backing file for streaming.
func (s *Service) Download(ctx context.Context, id string) (Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return Document{}, nil, err
	}
	rc, err := s.Files.Open(ctx, doc.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, nil, fmt.Errorf("%w: file missing from storage", apperr.ErrNotFound)
		}
		return Document{}, nil, fmt.Errorf("open file: %w", err)
	}
	return doc, rc, nil
}

// reclaim deletes the metadata record (if still present) and then the
// backing file. A missing record or file at this point means the work was
// already done; only real storage failures are reported, aggregated so one
// does not mask the other.
func (s *Service) reclaim(ctx context.Context, doc Document) error {
	var errs *multierror.Error

	if _, err := s.Repo.Delete(ctx, doc.ID); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("delete record: %w", err))
	}
	if err := s.Files.Remove(ctx, doc.FilePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = multierror.Append(errs, fmt.Errorf("remove file: %w", err))
	}
	return errs.ErrorOrNil()
}

func (s *Service) removeFile(ctx context.Context, path string) {
	if err := s.Files.Remove(ctx, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		telemetry.Error("document.rollback_file", map[string]any{
			"file_path": path,
			"error":     err.Error(),
		})
	}
}
