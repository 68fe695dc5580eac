package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

// setupTestDB creates a temporary database with migrations applied.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// insertTestDocument inserts a document row and returns its ID.
func insertTestDocument(t *testing.T, db *sql.DB, id, filename string) string {
	t.Helper()

	repo := NewDocumentRepo(db)
	err := repo.Insert(context.Background(), &DocumentRecord{
		ID:       id,
		Filename: filename,
	})
	if err != nil {
		t.Fatalf("failed to insert test document: %v", err)
	}
	return id
}

func TestChunkRepoInsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	docID := insertTestDocument(t, db, "doc-1", "handbook.txt")

	repo := NewChunkRepo(db)
	chunk := &ChunkRecord{
		ID:         "chunk-1",
		DocumentID: docID,
		ChunkIndex: 0,
		Source:     "handbook.txt",
		Page:       3,
		Text:       "Vacation policy allows 25 days per year.",
	}

	if err := repo.Insert(ctx, chunk); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	got, err := repo.GetByID(ctx, "chunk-1")
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Text != chunk.Text || got.Source != "handbook.txt" || got.Page != 3 {
		t.Errorf("GetByID() = %+v, want %+v", got, chunk)
	}
}

func TestChunkRepoGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChunkRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestChunkRepoListAllPreservesInsertionOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	docID := insertTestDocument(t, db, "doc-1", "handbook.txt")

	repo := NewChunkRepo(db)
	texts := []string{"first chunk", "second chunk", "third chunk"}
	for i, text := range texts {
		chunk := &ChunkRecord{
			ID:         "chunk-" + text,
			DocumentID: docID,
			ChunkIndex: i,
			Source:     "handbook.txt",
			Text:       text,
		}
		if err := repo.Insert(ctx, chunk); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	chunks, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(chunks) != len(texts) {
		t.Fatalf("expected %d chunks, got %d", len(texts), len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Text != texts[i] {
			t.Errorf("chunk %d text = %q, want %q", i, chunk.Text, texts[i])
		}
	}
}

func TestChunkRepoListAllEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChunkRepo(db)

	chunks, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected empty slice, got %d chunks", len(chunks))
	}
}

func TestChunkRepoDeleteByDocument(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	docA := insertTestDocument(t, db, "doc-a", "a.txt")
	docB := insertTestDocument(t, db, "doc-b", "b.txt")

	repo := NewChunkRepo(db)
	for i, docID := range []string{docA, docA, docB} {
		chunk := &ChunkRecord{
			ID:         "chunk-" + string(rune('0'+i)),
			DocumentID: docID,
			ChunkIndex: i,
			Source:     docID,
			Text:       "text",
		}
		if err := repo.Insert(ctx, chunk); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	if err := repo.DeleteByDocument(ctx, docA); err != nil {
		t.Fatalf("DeleteByDocument() error: %v", err)
	}

	chunks, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk after delete, got %d", len(chunks))
	}
	if chunks[0].DocumentID != docB {
		t.Errorf("wrong chunk survived delete: %+v", chunks[0])
	}
}

func TestChunkRepoListIDsByDocument(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	docID := insertTestDocument(t, db, "doc-1", "handbook.txt")

	repo := NewChunkRepo(db)
	// Insert out of index order; listing must be ordered by chunk_index.
	for _, idx := range []int{2, 0, 1} {
		chunk := &ChunkRecord{
			ID:         "chunk-" + string(rune('0'+idx)),
			DocumentID: docID,
			ChunkIndex: idx,
			Source:     "handbook.txt",
			Text:       "text",
		}
		if err := repo.Insert(ctx, chunk); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	ids, err := repo.ListIDsByDocument(ctx, docID)
	if err != nil {
		t.Fatalf("ListIDsByDocument() error: %v", err)
	}
	want := []string{"chunk-0", "chunk-1", "chunk-2"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d IDs, got %d", len(want), len(ids))
	}
	for i, id := range ids {
		if id != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, id, want[i])
		}
	}
}
