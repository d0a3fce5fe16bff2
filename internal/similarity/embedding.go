package similarity

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strconv"
	"sync"

	"bibliometric-api/internal/preprocess"
)

// Embedder turns text into a fixed-length dense vector. Both BERT and
// sentence-embedding backends satisfy this interface; this
// note that no network model fetch happens at runtime, so both ship as an
// in-process deterministic hash-projection stand-in rather than a real
// transformer forward pass.
type Embedder interface {
	Name() string
	Dim() int
	Embed(text string) []float64
}

// ModelCache lazily constructs and caches Embedder backends, guarded by a
// mutex per the documented model lifecycle/concurrency note: backends are
// expensive to "load" and safe to share across concurrent comparisons once
// built.
type ModelCache struct {
	mu       sync.Mutex
	backends map[string]Embedder
}

// NewModelCache returns an empty, ready-to-use cache.
func NewModelCache() *ModelCache {
	return &ModelCache{backends: make(map[string]Embedder)}
}

// Get returns the cached backend for name, constructing it via build on
// first use. Concurrent callers racing on the same uncached name block on
// the mutex and share the one built instance.
func (c *ModelCache) Get(name string, build func() Embedder) Embedder {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.backends[name]; ok {
		return e
	}
	e := build()
	c.backends[name] = e
	return e
}

// hashEmbedder is the deterministic stand-in shared by the BERT and
// sentence-embedding backends: it hashes each preprocessed word token
// into a fixed-width vector and mean-pools, then L2-normalizes. Same text
// and config always yields the same vector, satisfying the determinism
// property a cosine-comparable embedding needs without a network fetch.
type hashEmbedder struct {
	name string
	dim  int
	cfg  preprocess.Config
}

func newHashEmbedder(name string, dim int, cfg preprocess.Config) *hashEmbedder {
	return &hashEmbedder{name: name, dim: dim, cfg: cfg}
}

func (h *hashEmbedder) Name() string { return h.name }
func (h *hashEmbedder) Dim() int     { return h.dim }

func (h *hashEmbedder) Embed(text string) []float64 {
	tokens := preprocess.Preprocess(text, h.cfg)
	vec := make([]float64, h.dim)
	if len(tokens) == 0 {
		return vec
	}

	for _, tok := range tokens {
		tokenVec := h.projectToken(tok)
		for i, v := range tokenVec {
			vec[i] += v
		}
	}
	n := float64(len(tokens))
	for i := range vec {
		vec[i] /= n
	}
	return l2Normalize(vec)
}

// projectToken hashes a single token into a dim-length vector using
// SHA-256 over "backend-name:token:dimension-index" so that the same
// token always maps to the same coordinate values within a given backend,
// while different backends (different names) project the same token
// differently.
func (h *hashEmbedder) projectToken(token string) []float64 {
	out := make([]float64, h.dim)
	for i := 0; i < h.dim; i++ {
		sum := sha256.Sum256([]byte(h.name + ":" + token + ":" + strconv.Itoa(i)))
		bits := binary.BigEndian.Uint64(sum[:8])
		// Map to [-1, 1].
		out[i] = (float64(bits)/float64(^uint64(0)))*2 - 1
	}
	return out
}

func l2Normalize(vec []float64) []float64 {
	var sumSq float64
	for _, v := range vec {
		sumSq += v * v
	}
	if sumSq == 0 {
		return vec
	}
	norm := math.Sqrt(sumSq)
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}

// l2Norm returns the Euclidean length of vec.
func l2Norm(vec []float64) float64 {
	var sumSq float64
	for _, v := range vec {
		sumSq += v * v
	}
	return math.Sqrt(sumSq)
}

func cosineSimDense(v1, v2 []float64) float64 {
	if len(v1) != len(v2) || len(v1) == 0 {
		return 0
	}
	var dot, mag1, mag2 float64
	for i := range v1 {
		dot += v1[i] * v2[i]
		mag1 += v1[i] * v1[i]
		mag2 += v2[i] * v2[i]
	}
	if mag1 == 0 || mag2 == 0 {
		return 0
	}
	return dot / (math.Sqrt(mag1) * math.Sqrt(mag2))
}
