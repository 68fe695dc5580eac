package storage

import (
	"context"
	"errors"
	"testing"
)

func TestDocumentRepoInsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewDocumentRepo(db)

	doc := &DocumentRecord{
		ID:          "doc-1",
		Filename:    "policies.txt",
		TotalChunks: 12,
	}
	if err := repo.Insert(ctx, doc); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	got, err := repo.GetByFilename(ctx, "policies.txt")
	if err != nil {
		t.Fatalf("GetByFilename() error: %v", err)
	}
	if got.ID != "doc-1" || got.TotalChunks != 12 {
		t.Errorf("GetByFilename() = %+v, want %+v", got, doc)
	}
}

func TestDocumentRepoGetByFilenameNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDocumentRepo(db)

	_, err := repo.GetByFilename(context.Background(), "missing.txt")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDocumentRepoListFilenamesSorted(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewDocumentRepo(db)

	for i, filename := range []string{"zebra.txt", "alpha.md", "middle.txt"} {
		doc := &DocumentRecord{
			ID:       "doc-" + string(rune('0'+i)),
			Filename: filename,
		}
		if err := repo.Insert(ctx, doc); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	filenames, err := repo.ListFilenames(ctx)
	if err != nil {
		t.Fatalf("ListFilenames() error: %v", err)
	}
	want := []string{"alpha.md", "middle.txt", "zebra.txt"}
	if len(filenames) != len(want) {
		t.Fatalf("expected %d filenames, got %d", len(want), len(filenames))
	}
	for i, filename := range filenames {
		if filename != want[i] {
			t.Errorf("filenames[%d] = %s, want %s", i, filename, want[i])
		}
	}
}

func TestDocumentRepoDeleteCascadesChunks(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	docRepo := NewDocumentRepo(db)
	chunkRepo := NewChunkRepo(db)

	docID := insertTestDocument(t, db, "doc-1", "handbook.txt")
	chunk := &ChunkRecord{
		ID:         "chunk-1",
		DocumentID: docID,
		ChunkIndex: 0,
		Source:     "handbook.txt",
		Text:       "text",
	}
	if err := chunkRepo.Insert(ctx, chunk); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	if err := docRepo.Delete(ctx, docID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	chunks, err := chunkRepo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected chunks to cascade on document delete, got %d", len(chunks))
	}
}

func TestDocumentRepoUpdateTotalChunks(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewDocumentRepo(db)

	docID := insertTestDocument(t, db, "doc-1", "handbook.txt")
	if err := repo.UpdateTotalChunks(ctx, docID, 7); err != nil {
		t.Fatalf("UpdateTotalChunks() error: %v", err)
	}

	got, err := repo.GetByFilename(ctx, "handbook.txt")
	if err != nil {
		t.Fatalf("GetByFilename() error: %v", err)
	}
	if got.TotalChunks != 7 {
		t.Errorf("TotalChunks = %d, want 7", got.TotalChunks)
	}
}
