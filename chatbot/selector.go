package chatbot

import (
	"fmt"
	"math/rand/v2"
)

// RandomSource picks an index in [0, n).
type RandomSource interface {
	IntN(n int) int
}

// NewRandomSource returns a PCG source. Seed 0 draws a random seed.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Selector chooses the reply for the top ranked candidate.
type Selector struct {
	intents *IntentTable
	rnd     RandomSource
}

// NewSelector builds a selector over intents. A nil rnd uses a randomly seeded source.
func NewSelector(intents *IntentTable, rnd RandomSource) *Selector {
	if rnd == nil {
		rnd = NewRandomSource(0)
	}
	return &Selector{intents: intents, rnd: rnd}
}

// Select returns one response of the intent matching ranked[0], chosen
// uniformly at random.
func (s *Selector) Select(ranked []Candidate) (string, error) {
	if len(ranked) == 0 {
		return "", ErrNoCandidates
	}
	if err := s.intents.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrIntentTableUnavailable, err)
	}
	tag := ranked[0].Label
	rec, ok := s.intents.Lookup(tag)
	if !ok {
		return "", &UnmatchedTagError{Tag: tag, Similar: s.intents.Similar(tag, 3)}
	}
	if len(rec.Responses) == 0 {
		return "", fmt.Errorf("intent %q has no responses", tag)
	}
	return rec.Responses[s.rnd.IntN(len(rec.Responses))], nil
}
