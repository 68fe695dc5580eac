package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks enterprise-rag/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// Insert inserts a new document record.
	Insert(ctx context.Context, doc *DocumentRecord) error
	// GetByFilename gets a document by its filename. Returns ErrNotFound if not found.
	GetByFilename(ctx context.Context, filename string) (*DocumentRecord, error)
	// ListFilenames returns all distinct document filenames, sorted.
	ListFilenames(ctx context.Context) ([]string, error)
	// Delete removes a document record by ID.
	Delete(ctx context.Context, id string) error
	// UpdateTotalChunks sets the chunk count for a document.
	UpdateTotalChunks(ctx context.Context, id string, totalChunks int) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Insert inserts a new document record.
func (r *DocumentRepo) Insert(ctx context.Context, doc *DocumentRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO documents (id, filename, total_chunks) VALUES (?, ?, ?)",
		doc.ID, doc.Filename, doc.TotalChunks,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetByFilename gets a document by its filename. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByFilename(ctx context.Context, filename string) (*DocumentRecord, error) {
	var doc DocumentRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, filename, total_chunks, uploaded_at FROM documents WHERE filename = ?",
		filename,
	).Scan(&doc.ID, &doc.Filename, &doc.TotalChunks, &doc.UploadedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return &doc, nil
}

// ListFilenames returns all distinct document filenames, sorted.
// Returns an empty slice if no documents exist (not an error).
func (r *DocumentRepo) ListFilenames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT filename FROM documents ORDER BY filename")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var filenames []string
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, fmt.Errorf("failed to scan filename: %w", err)
		}
		filenames = append(filenames, filename)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return filenames, nil
}

// Delete removes a document record by ID.
// Chunk rows cascade via the foreign key.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// UpdateTotalChunks sets the chunk count for a document.
func (r *DocumentRepo) UpdateTotalChunks(ctx context.Context, id string, totalChunks int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE documents SET total_chunks = ? WHERE id = ?",
		totalChunks, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update document chunk count: %w", err)
	}
	return nil
}
