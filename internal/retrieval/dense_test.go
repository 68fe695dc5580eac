package retrieval

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"enterprise-rag/internal/storage"
	storagemocks "enterprise-rag/internal/storage/mocks"
	"enterprise-rag/internal/vectorstore"
	vectormocks "enterprise-rag/internal/vectorstore/mocks"
)

type fakeEmbedder struct {
	vectors [][]float32
	err     error
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors, nil
}

func TestVectorSearchRetrieverSimilaritySearch(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := vectormocks.NewMockVectorStore(ctrl)
	chunks := storagemocks.NewMockChunkStore(ctrl)
	embedder := &fakeEmbedder{vectors: [][]float32{{0.1, 0.2, 0.3}}}

	store.EXPECT().
		Search(gomock.Any(), "documents", []float32{0.1, 0.2, 0.3}, 2).
		Return([]vectorstore.SearchResult{
			{PointID: "p1", Score: 0.95},
			{PointID: "p2", Score: 0.80},
		}, nil)
	chunks.EXPECT().GetByID(gomock.Any(), "p1").Return(&storage.ChunkRecord{
		ID: "p1", Source: "handbook.md", Page: 3, ChunkIndex: 0, Text: "first chunk",
	}, nil)
	chunks.EXPECT().GetByID(gomock.Any(), "p2").Return(&storage.ChunkRecord{
		ID: "p2", Source: "handbook.md", Page: 4, ChunkIndex: 1, Text: "second chunk",
	}, nil)

	r := NewVectorSearchRetriever(embedder, store, chunks, "documents")
	got, err := r.SimilaritySearch(context.Background(), "vacation policy", 2)
	if err != nil {
		t.Fatalf("SimilaritySearch() error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(got))
	}
	if got[0].Text != "first chunk" || got[1].Text != "second chunk" {
		t.Errorf("passages out of order: %q, %q", got[0].Text, got[1].Text)
	}
	if got[0].Identity() != "p1" {
		t.Errorf("Identity() = %q, want p1", got[0].Identity())
	}
	if got[0].Source() != "handbook.md" || got[0].Page() != 3 {
		t.Errorf("metadata mismatch: source=%q page=%d", got[0].Source(), got[0].Page())
	}
}

func TestVectorSearchRetrieverSkipsMissingChunks(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := vectormocks.NewMockVectorStore(ctrl)
	chunks := storagemocks.NewMockChunkStore(ctrl)
	embedder := &fakeEmbedder{vectors: [][]float32{{0.5}}}

	store.EXPECT().
		Search(gomock.Any(), "documents", gomock.Any(), 3).
		Return([]vectorstore.SearchResult{
			{PointID: "kept"},
			{PointID: "gone"},
		}, nil)
	chunks.EXPECT().GetByID(gomock.Any(), "kept").Return(&storage.ChunkRecord{
		ID: "kept", Source: "a.txt", Text: "still here",
	}, nil)
	chunks.EXPECT().GetByID(gomock.Any(), "gone").Return(nil, storage.ErrNotFound)

	r := NewVectorSearchRetriever(embedder, store, chunks, "documents")
	got, err := r.SimilaritySearch(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("SimilaritySearch() error: %v", err)
	}
	if len(got) != 1 || got[0].Identity() != "kept" {
		t.Errorf("expected only the surviving chunk, got %v", got)
	}
}

func TestVectorSearchRetrieverEmbedErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)

	embedErr := errors.New("embedding service down")
	r := NewVectorSearchRetriever(
		&fakeEmbedder{err: embedErr},
		vectormocks.NewMockVectorStore(ctrl),
		storagemocks.NewMockChunkStore(ctrl),
		"documents",
	)

	_, err := r.SimilaritySearch(context.Background(), "q", 5)
	if !errors.Is(err, embedErr) {
		t.Fatalf("expected embed error to propagate, got %v", err)
	}
}

func TestVectorSearchRetrieverSearchErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := vectormocks.NewMockVectorStore(ctrl)
	searchErr := errors.New("qdrant unavailable")
	store.EXPECT().
		Search(gomock.Any(), "documents", gomock.Any(), 5).
		Return(nil, searchErr)

	r := NewVectorSearchRetriever(
		&fakeEmbedder{vectors: [][]float32{{1}}},
		store,
		storagemocks.NewMockChunkStore(ctrl),
		"documents",
	)

	_, err := r.SimilaritySearch(context.Background(), "q", 5)
	if !errors.Is(err, searchErr) {
		t.Fatalf("expected search error to propagate, got %v", err)
	}
}

func TestChunkCorpusAllPassages(t *testing.T) {
	ctrl := gomock.NewController(t)

	chunks := storagemocks.NewMockChunkStore(ctrl)
	chunks.EXPECT().ListAll(gomock.Any()).Return([]storage.ChunkRecord{
		{ID: "c1", Source: "a.txt", Page: 1, ChunkIndex: 0, Text: "alpha"},
		{ID: "c2", Source: "a.txt", Page: 1, ChunkIndex: 1, Text: "beta"},
	}, nil)

	corpus := NewChunkCorpus(chunks)
	got, err := corpus.AllPassages(context.Background())
	if err != nil {
		t.Fatalf("AllPassages() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(got))
	}
	if got[0].Text != "alpha" || got[1].Text != "beta" {
		t.Errorf("passages out of order: %q, %q", got[0].Text, got[1].Text)
	}
	if got[1].Identity() != "c2" {
		t.Errorf("Identity() = %q, want c2", got[1].Identity())
	}
}
