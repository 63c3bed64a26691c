package chatbot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greetingTable() *IntentTable {
	return NewIntentTable([]IntentRecord{
		{Tag: "greeting", Responses: []string{"Hello!", "Hi there!"}},
		{Tag: "farewell", Responses: []string{"Bye!"}},
	})
}

func TestSelectReturnsConfiguredResponse(t *testing.T) {
	s := NewSelector(greetingTable(), NewRandomSource(7))
	ranked := []Candidate{{Label: "greeting", Probability: "0.9"}}

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		got, err := s.Select(ranked)
		require.NoError(t, err)
		require.Contains(t, []string{"Hello!", "Hi there!"}, got)
		seen[got] = true
	}
	assert.Len(t, seen, 2)
}

func TestSelectUsesTopCandidateOnly(t *testing.T) {
	s := NewSelector(greetingTable(), nil)

	got, err := s.Select([]Candidate{
		{Label: "farewell", Probability: "0.6"},
		{Label: "greeting", Probability: "0.3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bye!", got)
}

func TestSelectIsDeterministicForSeed(t *testing.T) {
	ranked := []Candidate{{Label: "greeting", Probability: "0.9"}}
	a := NewSelector(greetingTable(), NewRandomSource(42))
	b := NewSelector(greetingTable(), NewRandomSource(42))

	for i := 0; i < 20; i++ {
		x, err := a.Select(ranked)
		require.NoError(t, err)
		y, err := b.Select(ranked)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}
}

type fixedRandom int

func (f fixedRandom) IntN(int) int { return int(f) }

func TestSelectUsesInjectedRandomSource(t *testing.T) {
	s := NewSelector(greetingTable(), fixedRandom(1))

	got, err := s.Select([]Candidate{{Label: "greeting", Probability: "0.9"}})
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", got)
}

func TestSelectEmptyCandidates(t *testing.T) {
	s := NewSelector(greetingTable(), nil)

	_, err := s.Select(nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
	_, err = s.Select([]Candidate{})
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestSelectUnmatchedTag(t *testing.T) {
	s := NewSelector(greetingTable(), nil)

	_, err := s.Select([]Candidate{{Label: "greet", Probability: "0.9"}})
	var unmatched *UnmatchedTagError
	require.ErrorAs(t, err, &unmatched)
	assert.Equal(t, "greet", unmatched.Tag)
	assert.Contains(t, unmatched.Similar, "greeting")
	assert.Contains(t, err.Error(), `no response configured for tag "greet"`)
}

func TestSelectUnavailableTable(t *testing.T) {
	loadErr := errors.New("file vanished")
	s := NewSelector(UnavailableIntentTable(loadErr), nil)

	_, err := s.Select([]Candidate{{Label: "greeting", Probability: "0.9"}})
	assert.ErrorIs(t, err, ErrIntentTableUnavailable)
	assert.ErrorIs(t, err, loadErr)
}

func TestSelectNilTable(t *testing.T) {
	s := NewSelector(nil, nil)

	_, err := s.Select([]Candidate{{Label: "greeting", Probability: "0.9"}})
	assert.ErrorIs(t, err, ErrIntentTableUnavailable)
}
