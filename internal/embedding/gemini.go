package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/pycode1094/job-recoder/internal/logger"
	"github.com/pycode1094/job-recoder/internal/utils"
)

const (
	defaultModel      = "gemini-embedding-001"
	defaultBatchSize  = 100
	defaultMaxRetries = 2
	retryBackoff      = 2 * time.Second
)

// contentEmbedder is the minimal surface of the GenAI models API used here.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Gemini embeds texts with the Gemini embedding API.
type Gemini struct {
	models     contentEmbedder
	modelName  string
	maxRetries int
	batchSize  int
	backoff    time.Duration
	logger     *zap.Logger
}

// NewGemini creates an embedder backed by the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string, maxRetries int, log *zap.Logger) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	return &Gemini{
		models:     client.Models,
		modelName:  model,
		maxRetries: maxRetries,
		batchSize:  defaultBatchSize,
		backoff:    retryBackoff,
		logger:     logger.WithCommonFields(log, "gemini", model),
	}, nil
}

// Model returns the configured embedding model name.
func (g *Gemini) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

// EmbedTexts implements Embedder. Texts are sent in chunks; each chunk is
// retried on temporary API errors before the whole call fails.
func (g *Gemini) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	if g == nil || g.models == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}

	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += g.batchSize {
		end := start + g.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		chunk, err := g.embedChunk(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, chunk...)
	}

	return vectors, nil
}

func (g *Gemini) embedChunk(ctx context.Context, texts []string) ([][]float64, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	var resp *genai.EmbedContentResponse
	var err error
	for attempt := 0; ; attempt++ {
		resp, err = g.models.EmbedContent(ctx, g.modelName, contents, nil)
		if err == nil {
			break
		}

		if attempt >= g.maxRetries || !isTemporary(err) {
			return nil, fmt.Errorf("embed content: %w", err)
		}

		g.logger.Debug("retrying embedding request",
			zap.Int("attempt", attempt+1),
			zap.Int("texts", len(texts)),
			zap.String("first_text", utils.TruncateForLog(texts[0], 80)),
			zap.Error(err),
		)

		if err := utils.WaitFor(ctx, g.backoff); err != nil {
			return nil, err
		}
	}

	if resp == nil || len(resp.Embeddings) != len(texts) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("embed content: expected %d embeddings, got %d", len(texts), got)
	}

	vectors := make([][]float64, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			vectors[i] = nil
			continue
		}
		vec := make([]float64, len(emb.Values))
		for j, v := range emb.Values {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}

	return vectors, nil
}

func isTemporary(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
}
