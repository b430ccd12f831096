package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"docuhub-backend/internal/shared/apperr"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `
SELECT d.id, d.title, d.description, d.category, d.tags,
       d.file_name, d.file_path, d.file_size, d.mime_type,
       d.status, d.processed_data, d.error_message,
       d.uploaded_by, u.name AS uploaded_by_name,
       d.created_at, d.updated_at
FROM documents d
LEFT JOIN users u ON d.uploaded_by = u.id`

// Create inserts a new document record.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id, title, description, category, tags,
    file_name, file_path, file_size, mime_type,
    status, uploaded_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	var uploadedBy sql.NullString
	if doc.UploadedBy != "" {
		uploadedBy = sql.NullString{String: doc.UploadedBy, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.Title,
		nullString(doc.Description),
		doc.Category,
		nullString(doc.Tags),
		doc.FileName,
		doc.FilePath,
		doc.FileSize,
		doc.MimeType,
		doc.Status,
		uploadedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return translatePGError(err)
	}
	return nil
}

// GetByID fetches a document with its uploader's name.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := selectColumns + `
WHERE d.id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, fmt.Errorf("document %w", apperr.ErrNotFound)
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns documents newest-first with the total count for pagination.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Document, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := selectColumns + `
ORDER BY d.created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	docs, err := collectDocuments(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// ListByStatus returns documents in the given status, newest-first.
func (r *PGRepo) ListByStatus(ctx context.Context, status string) ([]Document, error) {
	query := selectColumns + `
WHERE d.status = $1
ORDER BY d.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// Search returns documents whose title, description, or tags contain the
// query as a substring, newest-first.
func (r *PGRepo) Search(ctx context.Context, query string) ([]Document, error) {
	stmt := selectColumns + `
WHERE d.title ILIKE $1 OR d.description ILIKE $1 OR d.tags ILIKE $1
ORDER BY d.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, stmt, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// Update replaces the user-editable metadata fields.
func (r *PGRepo) Update(ctx context.Context, id string, in UpdateInput) error {
	const query = `
UPDATE documents
SET title = $2, description = $3, category = $4, tags = $5, updated_at = now()
WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, id, in.Title, nullString(in.Description), in.Category, nullString(in.Tags))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("document %w", apperr.ErrNotFound)
	}
	return nil
}

// Complete records a successful processing outcome. It applies only while
// the row is still pending.
func (r *PGRepo) Complete(ctx context.Context, id string, payload []byte) (bool, error) {
	const query = `
UPDATE documents
SET status = 'processed', processed_data = $2, error_message = NULL, updated_at = now()
WHERE id = $1 AND status = 'pending'`

	res, err := r.DB.ExecContext(ctx, query, id, payload)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Fail records a failed processing outcome. It applies only while the row is
// still pending.
func (r *PGRepo) Fail(ctx context.Context, id, message string) (bool, error) {
	const query = `
UPDATE documents
SET status = 'error', error_message = $2, processed_data = NULL, updated_at = now()
WHERE id = $1 AND status = 'pending'`

	res, err := r.DB.ExecContext(ctx, query, id, message)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete removes a document record, reporting whether a row existed.
func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var description, tags, errorMessage, uploadedBy, uploadedByName sql.NullString
	var processedData []byte

	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&description,
		&doc.Category,
		&tags,
		&doc.FileName,
		&doc.FilePath,
		&doc.FileSize,
		&doc.MimeType,
		&doc.Status,
		&processedData,
		&errorMessage,
		&uploadedBy,
		&uploadedByName,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return Document{}, err
	}

	doc.Description = description.String
	doc.Tags = tags.String
	doc.ErrorMessage = errorMessage.String
	doc.UploadedBy = uploadedBy.String
	doc.UploadedByName = uploadedByName.String
	if len(processedData) > 0 {
		doc.ProcessedData = processedData
	}
	return doc, nil
}

func collectDocuments(rows *sql.Rows) ([]Document, error) {
	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func translatePGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", apperr.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

var _ Repo = (*PGRepo)(nil)
