package search

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder generates vector embeddings from text. Implementations wrap a
// model provider (OpenAI, Ollama, a local model) or compute vectors locally.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// DefaultDimensions is the embedding width used when none is configured.
const DefaultDimensions = 256

// HashingEmbedder is a deterministic, dependency-free embedder. Tokens are
// hashed into a fixed number of buckets (signed feature hashing) and the
// resulting vector is L2-normalized. It captures token overlap rather than
// meaning, which is enough for offline tests and for hybrid search to break
// lexical ties.
type HashingEmbedder struct {
	dim int
}

// NewHashingEmbedder creates a hashing embedder with the given vector width.
// Zero or negative dim selects DefaultDimensions.
func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &HashingEmbedder{dim: dim}
}

// Dimensions returns the vector width.
func (e *HashingEmbedder) Dimensions() int { return e.dim }

// Embed hashes the text's tokens into a normalized vector. Empty text
// produces a zero vector.
func (e *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	for _, tok := range Tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum32()
		bucket := int(sum % uint32(e.dim))
		// Use one hash bit for the sign so colliding tokens can cancel
		// rather than always accumulate.
		if sum&0x80000000 != 0 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}
	return vec, nil
}

var _ Embedder = (*HashingEmbedder)(nil)
