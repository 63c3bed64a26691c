package chatbot

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/rivo/uniseg"
	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Tokenizer splits raw text into word tokens.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}

// Lemmatizer reduces a token to its dictionary base form.
type Lemmatizer interface {
	Lemma(token string) string
}

// WordTokenizer segments text on Unicode word boundaries (UAX #29).
// Punctuation marks become tokens of their own and whitespace is dropped.
type WordTokenizer struct{}

// Tokenize implements Tokenizer.
func (WordTokenizer) Tokenize(text string) ([]string, error) {
	var out []string
	state := -1
	for len(text) > 0 {
		var word string
		word, text, state = uniseg.FirstWordInString(text, state)
		if strings.TrimSpace(word) == "" {
			continue
		}
		out = append(out, word)
	}
	return out, nil
}

// HFTokenizer wraps a HuggingFace tokenizer.json definition.
type HFTokenizer struct {
	tk *tokenizer.Tokenizer
}

// NewHFTokenizer loads the tokenizer definition at path.
func NewHFTokenizer(path string) (*HFTokenizer, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, notFoundOr(ArtifactTokenizer, path, err)
	}
	return &HFTokenizer{tk: tk}, nil
}

// Tokenize implements Tokenizer. Special tokens are not added.
func (h *HFTokenizer) Tokenize(text string) ([]string, error) {
	enc, err := h.tk.EncodeSingle(text, false)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return enc.GetTokens(), nil
}

// GolemLemmatizer looks tokens up in the English golem dictionary. Known
// words are lowercased and mapped to a lemma of any part of speech.
type GolemLemmatizer struct {
	lem *golem.Lemmatizer
}

// NewGolemLemmatizer loads the embedded English dictionary.
func NewGolemLemmatizer() (*GolemLemmatizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer: %w", err)
	}
	return &GolemLemmatizer{lem: lem}, nil
}

// Lemma implements Lemmatizer. Unknown words are returned as given.
func (g *GolemLemmatizer) Lemma(token string) string {
	return g.lem.Lemma(token)
}

// IdentityLemmatizer leaves tokens untouched.
type IdentityLemmatizer struct{}

// Lemma implements Lemmatizer.
func (IdentityLemmatizer) Lemma(token string) string { return token }

// Normalizer turns text into the token form stored in the vocabulary.
type Normalizer struct {
	Tokenizer  Tokenizer
	Lemmatizer Lemmatizer
}

// Normalize tokenizes text and lemmatizes every token.
func (n Normalizer) Normalize(text string) ([]string, error) {
	tokens, err := n.Tokenizer.Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	if n.Lemmatizer == nil {
		return tokens, nil
	}
	for i, tok := range tokens {
		tokens[i] = n.Lemmatizer.Lemma(tok)
	}
	return tokens, nil
}

// NewNormalizer builds the normalizer described by cfg. The default
// lemmatizer gets its dictionary from the vocabulary once NewResolver binds it.
func NewNormalizer(cfg Config) (Normalizer, error) {
	var n Normalizer
	switch cfg.Tokenizer.Kind {
	case TokenizerHuggingFace:
		tk, err := NewHFTokenizer(cfg.Tokenizer.Path)
		if err != nil {
			return n, err
		}
		n.Tokenizer = tk
	case TokenizerWords, "":
		n.Tokenizer = WordTokenizer{}
	default:
		return n, fmt.Errorf("unknown tokenizer kind %q", cfg.Tokenizer.Kind)
	}
	if !cfg.LemmatizeEnabled() {
		n.Lemmatizer = IdentityLemmatizer{}
		return n, nil
	}
	switch cfg.Lemmatizer {
	case LemmatizerWordNet, "":
		n.Lemmatizer = NewNounLemmatizer(nil)
	case LemmatizerGolem:
		lem, err := NewGolemLemmatizer()
		if err != nil {
			return n, err
		}
		n.Lemmatizer = lem
	default:
		return n, fmt.Errorf("unknown lemmatizer kind %q", cfg.Lemmatizer)
	}
	return n, nil
}
