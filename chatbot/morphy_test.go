package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func dictionary(words ...string) func(string) bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return func(s string) bool { return set[s] }
}

func TestNounLemmatizer(t *testing.T) {
	lem := NewNounLemmatizer(dictionary("hi", "dog", "church", "box", "wolf", "city", "man", "child", "glass", "thanks", "wa"))

	cases := []struct {
		in, want string
	}{
		{"hi", "hi"},
		{"Hello", "Hello"},
		{"Is", "Is"},
		{"dogs", "dog"},
		{"churches", "church"},
		{"boxes", "box"},
		{"wolves", "wolf"},
		{"cities", "city"},
		{"men", "man"},
		{"children", "child"},
		{"glasses", "glass"},
		{"thanks", "thanks"},
		{"was", "wa"},
		{"Dogs", "Dogs"},
		{"unknowns", "unknowns"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, lem.Lemma(tc.in), tc.in)
	}
}

func TestNounLemmatizerWithoutDictionary(t *testing.T) {
	lem := NewNounLemmatizer(nil)

	assert.False(t, lem.HasDictionary())
	assert.Equal(t, "dogs", lem.Lemma("dogs"))
	assert.Equal(t, "mouse", lem.Lemma("mice"))
	assert.Equal(t, "hi", lem.Lemma("hi"))
}

func TestNounLemmatizerPrefersShortestKnownForm(t *testing.T) {
	lem := NewNounLemmatizer(dictionary("data", "datum"))
	assert.Equal(t, "data", lem.Lemma("data"))

	lem = lem.WithDictionary(dictionary("datum"))
	assert.True(t, lem.HasDictionary())
	assert.Equal(t, "datum", lem.Lemma("data"))
}
