package embedding

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrProviderUnavailable is returned when no embeddings could be produced at
// all. Callers treat it as fatal for the batch run; partial failures degrade
// to zero similarity instead.
var ErrProviderUnavailable = errors.New("embedding provider unavailable")

// SimilarityMatrix embeds the row and column texts once each and returns the
// full pairwise cosine similarity matrix, rows x cols.
//
// Each batch is embedded in a single call; the two batches run concurrently.
// Empty texts are never sent to the provider and embed to a zero vector, so
// their similarity is exactly 0. When one batch fails, every similarity
// involving it degrades to 0 and the failure is logged. Only when both
// batches fail is the provider considered unreachable.
func SimilarityMatrix(ctx context.Context, embedder Embedder, logger *zap.Logger, rowTexts, colTexts []string) ([][]float64, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var rowVecs, colVecs [][]float64
	var rowErr, colErr error

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		rowVecs, rowErr = embedBatch(gctx, embedder, rowTexts)
		return nil
	})
	group.Go(func() error {
		colVecs, colErr = embedBatch(gctx, embedder, colTexts)
		return nil
	})
	_ = group.Wait()

	if rowErr != nil && colErr != nil && len(rowTexts) > 0 && len(colTexts) > 0 {
		return nil, errors.Join(ErrProviderUnavailable, rowErr, colErr)
	}

	if rowErr != nil {
		logger.Warn("embedding batch failed, degrading similarities to zero", zap.Error(rowErr), zap.Int("texts", len(rowTexts)))
		rowVecs = make([][]float64, len(rowTexts))
	}
	if colErr != nil {
		logger.Warn("embedding batch failed, degrading similarities to zero", zap.Error(colErr), zap.Int("texts", len(colTexts)))
		colVecs = make([][]float64, len(colTexts))
	}

	matrix := make([][]float64, len(rowTexts))
	for i := range matrix {
		matrix[i] = make([]float64, len(colTexts))
		for j := range matrix[i] {
			matrix[i][j] = Cosine(rowVecs[i], colVecs[j])
		}
	}

	return matrix, nil
}

// embedBatch sends only the non-empty texts to the embedder and re-inserts
// zero vectors at the positions of empty ones.
func embedBatch(ctx context.Context, embedder Embedder, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	if len(texts) == 0 {
		return vectors, nil
	}

	indices := make([]int, 0, len(texts))
	payload := make([]string, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		indices = append(indices, i)
		payload = append(payload, text)
	}

	if len(payload) == 0 {
		return vectors, nil
	}

	embedded, err := embedder.EmbedTexts(ctx, payload)
	if err != nil {
		return nil, err
	}

	for pos, idx := range indices {
		if pos >= len(embedded) {
			break
		}
		vectors[idx] = embedded[pos]
	}

	return vectors, nil
}
