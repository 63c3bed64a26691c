package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorizeIsDeterministic(t *testing.T) {
	vocab := NewVocabulary([]string{"hi", "there", "bye"})
	n := Normalizer{Tokenizer: WordTokenizer{}}

	for _, text := range []string{"hi there", "bye bye", "", "hi, there!"} {
		tokens, err := n.Normalize(text)
		require.NoError(t, err)
		first := vocab.Vectorize(tokens)
		second := vocab.Vectorize(tokens)
		assert.Equal(t, first, second, text)
		assert.Len(t, first, vocab.Len())
	}
}

func TestVectorizeIgnoresUnknownTokens(t *testing.T) {
	vocab := NewVocabulary([]string{"hi", "there", "bye"})

	known := vocab.Vectorize([]string{"hi", "there"})
	noisy := vocab.Vectorize([]string{"zxq", "hi", "blorp", "there", "qq"})
	assert.Equal(t, known, noisy)
	assert.Equal(t, []float32{0, 0, 0}, vocab.Vectorize([]string{"nothing", "known"}))
}

func TestVectorizeCollapsesRepeats(t *testing.T) {
	vocab := NewVocabulary([]string{"hi", "there", "bye"})

	assert.Equal(t, []float32{0, 0, 1}, vocab.Vectorize([]string{"bye", "bye", "bye"}))
}

func TestVectorizeRepeatedVocabularyEntry(t *testing.T) {
	vocab := NewVocabulary([]string{"a", "b", "a"})

	assert.Equal(t, []float32{1, 0, 1}, vocab.Vectorize([]string{"a"}))
	assert.True(t, vocab.Contains("b"))
	assert.False(t, vocab.Contains("c"))
}

func TestVocabularyIsImmutable(t *testing.T) {
	src := []string{"a", "b"}
	vocab := NewVocabulary(src)
	src[0] = "z"
	tokens := vocab.Tokens()
	tokens[1] = "y"

	assert.Equal(t, []string{"a", "b"}, vocab.Tokens())

	labels := NewLabelSet([]string{"x"})
	assert.Equal(t, "x", labels.At(0))
	assert.Equal(t, 1, labels.Len())
}
