package chatbot

// Vocabulary is the ordered token list defining the bag-of-words dimensions.
type Vocabulary struct {
	tokens []string
	index  map[string][]int
}

// NewVocabulary indexes tokens by position. A token listed twice sets every
// position it occupies.
func NewVocabulary(tokens []string) *Vocabulary {
	v := &Vocabulary{
		tokens: cloneStrings(tokens),
		index:  make(map[string][]int, len(tokens)),
	}
	for i, tok := range v.tokens {
		v.index[tok] = append(v.index[tok], i)
	}
	return v
}

// Len returns the vector dimensionality.
func (v *Vocabulary) Len() int { return len(v.tokens) }

// Tokens returns a copy of the ordered tokens.
func (v *Vocabulary) Tokens() []string { return cloneStrings(v.tokens) }

// Contains reports whether tok is part of the vocabulary.
func (v *Vocabulary) Contains(tok string) bool {
	_, ok := v.index[tok]
	return ok
}

// Vectorize builds the 0/1 bag-of-words vector for already normalized tokens.
// Unknown tokens are ignored and repeated tokens collapse to a single 1.
func (v *Vocabulary) Vectorize(tokens []string) []float32 {
	bag := make([]float32, len(v.tokens))
	for _, tok := range tokens {
		for _, i := range v.index[tok] {
			bag[i] = 1
		}
	}
	return bag
}

// LabelSet is the ordered list of class labels aligned with classifier output.
type LabelSet struct {
	labels []string
}

// NewLabelSet copies labels into an immutable set.
func NewLabelSet(labels []string) *LabelSet {
	return &LabelSet{labels: cloneStrings(labels)}
}

// Len returns the number of labels.
func (l *LabelSet) Len() int { return len(l.labels) }

// At returns the label at index i.
func (l *LabelSet) At(i int) string { return l.labels[i] }

// Labels returns a copy of the ordered labels.
func (l *LabelSet) Labels() []string { return cloneStrings(l.labels) }

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
