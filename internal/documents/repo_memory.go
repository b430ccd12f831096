package documents

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"docuhub-backend/internal/shared/apperr"
)

// MemoryRepo is an in-memory implementation of Repo, used when no database
// is configured and in tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Document)}
}

// Create stores a new document record.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[doc.ID]; exists {
		return fmt.Errorf("%w: document id", apperr.ErrDuplicate)
	}
	r.data[doc.ID] = doc
	return nil
}

// GetByID returns a document by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, fmt.Errorf("document %w", apperr.ErrNotFound)
	}
	return doc, nil
}

// List returns documents newest-first with the total count.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Document, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	docs := r.snapshot(func(Document) bool { return true })
	total := len(docs)
	if offset >= total {
		return []Document{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return docs[offset:end], total, nil
}

// ListByStatus returns documents in the given status, newest-first.
func (r *MemoryRepo) ListByStatus(ctx context.Context, status string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.snapshot(func(d Document) bool { return d.Status == status }), nil
}

// Search returns documents matching the query in title, description, or
// tags, newest-first.
func (r *MemoryRepo) Search(ctx context.Context, query string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	return r.snapshot(func(d Document) bool {
		return strings.Contains(strings.ToLower(d.Title), q) ||
			strings.Contains(strings.ToLower(d.Description), q) ||
			strings.Contains(strings.ToLower(d.Tags), q)
	}), nil
}

// Update replaces the user-editable metadata fields.
func (r *MemoryRepo) Update(ctx context.Context, id string, in UpdateInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return fmt.Errorf("document %w", apperr.ErrNotFound)
	}
	doc.Title = in.Title
	doc.Description = in.Description
	doc.Category = in.Category
	doc.Tags = in.Tags
	doc.UpdatedAt = time.Now().UTC()
	r.data[id] = doc
	return nil
}

// Complete records a successful processing outcome while the row is pending.
func (r *MemoryRepo) Complete(ctx context.Context, id string, payload []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok || doc.Status != StatusPending {
		return false, nil
	}
	doc.Status = StatusProcessed
	doc.ProcessedData = append([]byte(nil), payload...)
	doc.ErrorMessage = ""
	doc.UpdatedAt = time.Now().UTC()
	r.data[id] = doc
	return true, nil
}

// Fail records a failed processing outcome while the row is pending.
func (r *MemoryRepo) Fail(ctx context.Context, id, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok || doc.Status != StatusPending {
		return false, nil
	}
	doc.Status = StatusError
	doc.ErrorMessage = message
	doc.ProcessedData = nil
	doc.UpdatedAt = time.Now().UTC()
	r.data[id] = doc
	return true, nil
}

// Delete removes a document record, reporting whether it existed.
func (r *MemoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return false, nil
	}
	delete(r.data, id)
	return true, nil
}

func (r *MemoryRepo) snapshot(keep func(Document) bool) []Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Document, 0, len(r.data))
	for _, doc := range r.data {
		if keep(doc) {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

var _ Repo = (*MemoryRepo)(nil)
