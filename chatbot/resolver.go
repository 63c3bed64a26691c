package chatbot

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Resolver turns raw text into ranked intent candidates.
type Resolver struct {
	normalizer Normalizer
	vocab      *Vocabulary
	labels     *LabelSet
	classifier Classifier
}

// NewResolver wires the normalization pipeline to a classifier.
func NewResolver(normalizer Normalizer, vocab *Vocabulary, labels *LabelSet, classifier Classifier) (*Resolver, error) {
	if normalizer.Tokenizer == nil {
		return nil, errors.New("tokenizer is required")
	}
	if vocab == nil || labels == nil {
		return nil, errors.New("vocabulary and labels are required")
	}
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if lem, ok := normalizer.Lemmatizer.(*NounLemmatizer); ok && !lem.HasDictionary() {
		normalizer.Lemmatizer = lem.WithDictionary(vocab.Contains)
	}
	return &Resolver{
		normalizer: normalizer,
		vocab:      vocab,
		labels:     labels,
		classifier: classifier,
	}, nil
}

// Vectorize normalizes text and returns its bag-of-words vector.
func (r *Resolver) Vectorize(text string) ([]float32, error) {
	tokens, err := r.normalizer.Normalize(text)
	if err != nil {
		return nil, err
	}
	return r.vocab.Vectorize(tokens), nil
}

// Resolve returns the labels whose probability exceeds ConfidenceThreshold,
// most likely first. An empty slice means nothing cleared the threshold.
func (r *Resolver) Resolve(ctx context.Context, text string) ([]Candidate, error) {
	bag, err := r.Vectorize(text)
	if err != nil {
		return nil, err
	}
	rows, err := r.classifier.Predict(ctx, [][]float32{bag})
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("classifier returned %d rows for 1 input", len(rows))
	}
	return rankProbabilities(rows[0], r.labels)
}

type scoredIndex struct {
	index int
	prob  float32
}

func rankProbabilities(probs []float32, labels *LabelSet) ([]Candidate, error) {
	if len(probs) != labels.Len() {
		return nil, fmt.Errorf("classifier returned %d probabilities for %d labels", len(probs), labels.Len())
	}
	kept := make([]scoredIndex, 0, len(probs))
	for i, p := range probs {
		if p > ConfidenceThreshold {
			kept = append(kept, scoredIndex{index: i, prob: p})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].prob > kept[j].prob })
	out := make([]Candidate, len(kept))
	for i, k := range kept {
		out[i] = Candidate{Label: labels.At(k.index), Probability: formatProbability(k.prob)}
	}
	return out, nil
}
