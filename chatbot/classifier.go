package chatbot

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Classifier maps a batch of bag-of-words vectors to probability rows, one
// entry per label.
type Classifier interface {
	Predict(ctx context.Context, batch [][]float32) ([][]float32, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, batch [][]float32) ([][]float32, error)

// Predict implements Classifier.
func (f ClassifierFunc) Predict(ctx context.Context, batch [][]float32) ([][]float32, error) {
	return f(ctx, batch)
}

// TableClassifier answers from a fixed vector → distribution table and falls
// back to Default for vectors it does not know.
type TableClassifier struct {
	Rows    map[string][]float32
	Default []float32
}

// Set registers the distribution returned for vec.
func (t *TableClassifier) Set(vec []float32, dist []float32) {
	if t.Rows == nil {
		t.Rows = make(map[string][]float32)
	}
	t.Rows[vectorKey(vec)] = cloneVector(dist)
}

// Predict implements Classifier.
func (t *TableClassifier) Predict(_ context.Context, batch [][]float32) ([][]float32, error) {
	out := make([][]float32, len(batch))
	for i, vec := range batch {
		dist, ok := t.Rows[vectorKey(vec)]
		if !ok {
			if t.Default == nil {
				return nil, fmt.Errorf("no distribution for vector %d", i)
			}
			dist = t.Default
		}
		out[i] = cloneVector(dist)
	}
	return out, nil
}

// CachedClassifier memoizes predictions per input vector. Inference is
// deterministic so entries never expire.
type CachedClassifier struct {
	next    Classifier
	modelID string
	cache   *gocache.Cache
}

// NewCachedClassifier wraps next with an in-memory prediction cache.
func NewCachedClassifier(next Classifier, modelID string) *CachedClassifier {
	return &CachedClassifier{
		next:    next,
		modelID: modelID,
		cache:   gocache.New(gocache.NoExpiration, 0),
	}
}

// Predict implements Classifier; only vectors missing from the cache reach the model.
func (c *CachedClassifier) Predict(ctx context.Context, batch [][]float32) ([][]float32, error) {
	out := make([][]float32, len(batch))
	var missIdx []int
	var misses [][]float32
	for i, vec := range batch {
		if v, ok := c.cache.Get(c.cacheKey(vec)); ok {
			out[i] = cloneVector(v.([]float32))
			continue
		}
		missIdx = append(missIdx, i)
		misses = append(misses, vec)
	}
	if len(misses) == 0 {
		return out, nil
	}
	rows, err := c.next.Predict(ctx, misses)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(misses) {
		return nil, fmt.Errorf("classifier returned %d rows for %d inputs", len(rows), len(misses))
	}
	for j, i := range missIdx {
		c.cache.Set(c.cacheKey(batch[i]), cloneVector(rows[j]), gocache.NoExpiration)
		out[i] = rows[j]
	}
	return out, nil
}

// Len returns the number of cached predictions.
func (c *CachedClassifier) Len() int { return c.cache.ItemCount() }

// Close releases the wrapped classifier when it holds resources.
func (c *CachedClassifier) Close() error {
	c.cache.Flush()
	if closer, ok := c.next.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *CachedClassifier) cacheKey(vec []float32) string {
	h := sha1.New()
	_, _ = io.WriteString(h, c.modelID)
	_, _ = io.WriteString(h, "|")
	_, _ = io.WriteString(h, vectorKey(vec))
	return hex.EncodeToString(h.Sum(nil))
}

// vectorKey renders a bag-of-words vector as a compact bit string.
func vectorKey(vec []float32) string {
	var b strings.Builder
	b.Grow(len(vec))
	for _, v := range vec {
		if v != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
