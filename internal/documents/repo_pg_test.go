package documents

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateInsertsPendingRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	doc := Document{
		ID:        "doc-1",
		Title:     "Quarterly Report",
		Category:  "general",
		FileName:  "file-1700000000000-12345.pdf",
		FilePath:  "uploads/file-1700000000000-12345.pdf",
		FileSize:  2048,
		MimeType:  "application/pdf",
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.Title,
			nil, // description
			doc.Category,
			nil, // tags
			doc.FileName,
			doc.FilePath,
			doc.FileSize,
			doc.MimeType,
			doc.Status,
			nil, // uploaded_by
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCompleteOnlyAppliesToPendingRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	payload := []byte(`{"summary":"ok"}`)

	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", payload).
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := repo.Complete(context.Background(), "doc-1", payload)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !applied {
		t.Fatalf("expected Complete to apply")
	}

	// Second attempt finds no pending row.
	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", payload).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err = repo.Complete(context.Background(), "doc-1", payload)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if applied {
		t.Fatalf("expected Complete on a settled row to be a no-op")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoFailSkipsMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-gone", "processor unreachable").
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.Fail(context.Background(), "doc-gone", "processor unreachable")
	if err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if applied {
		t.Fatalf("expected Fail on a deleted row to be a no-op")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteReportsExistence(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("DELETE FROM documents").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	existed, err := repo.Delete(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !existed {
		t.Fatalf("expected Delete to report an existing row")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
