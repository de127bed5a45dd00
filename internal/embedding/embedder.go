package embedding

import "context"

// Embedder maps a batch of texts to fixed-length vectors using a frozen
// sentence-embedding model. The model is consumed as an external capability:
// implementations must not be required for the ranking logic to be testable.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)
}
