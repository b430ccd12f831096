package documents

import "context"

// UpdateInput carries the user-editable metadata fields.
type UpdateInput struct {
	Title       string
	Description string
	Category    string
	Tags        string
}

// Repo defines persistence operations for documents. Complete and Fail are
// conditional: they apply only while the row exists with status pending, and
// report whether they took effect. A dispatch outcome arriving after a
// delete (or after another terminal write) is therefore a no-op instead of a
// resurrection.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, limit, offset int) ([]Document, int, error)
	ListByStatus(ctx context.Context, status string) ([]Document, error)
	Search(ctx context.Context, query string) ([]Document, error)
	Update(ctx context.Context, id string, in UpdateInput) error
	Complete(ctx context.Context, id string, payload []byte) (bool, error)
	Fail(ctx context.Context, id, message string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
