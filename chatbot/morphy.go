package chatbot

import "strings"

// NounLemmatizer reduces English nouns to their singular form the way
// WordNet's morphy does: irregular plurals come from an exception list,
// regular ones from suffix-detachment rules, and a candidate is only
// accepted when the dictionary knows it. Case is preserved.
//
// The dictionary is normally the vocabulary itself. Tokens outside the
// vocabulary never reach the bag-of-words vector, so checking candidates
// against it yields the same vectors as checking them against WordNet.
type NounLemmatizer struct {
	known func(string) bool
}

// NewNounLemmatizer builds a lemmatizer that accepts candidates known
// reports as present. With a nil dictionary only the exception list applies.
func NewNounLemmatizer(known func(string) bool) *NounLemmatizer {
	return &NounLemmatizer{known: known}
}

// WithDictionary returns a copy of the lemmatizer using known.
func (n *NounLemmatizer) WithDictionary(known func(string) bool) *NounLemmatizer {
	return &NounLemmatizer{known: known}
}

// HasDictionary reports whether candidates are checked against a dictionary.
func (n *NounLemmatizer) HasDictionary() bool { return n != nil && n.known != nil }

// Lemma implements Lemmatizer. Among the known candidates, including the
// token itself, the shortest wins; with none known the token is returned.
func (n *NounLemmatizer) Lemma(token string) string {
	if token == "" {
		return token
	}
	if !n.HasDictionary() {
		if forms, ok := nounExceptions[token]; ok {
			return forms[0]
		}
		return token
	}
	best := ""
	for _, cand := range nounCandidates(token) {
		if !n.known(cand) {
			continue
		}
		if best == "" || len(cand) < len(best) {
			best = cand
		}
	}
	if best == "" {
		return token
	}
	return best
}

type suffixRule struct {
	suffix, replacement string
}

var nounRules = []suffixRule{
	{"s", ""},
	{"ses", "s"},
	{"ves", "f"},
	{"xes", "x"},
	{"zes", "z"},
	{"ches", "ch"},
	{"shes", "sh"},
	{"men", "man"},
	{"ies", "y"},
}

// nounCandidates lists token followed by its possible base forms.
func nounCandidates(token string) []string {
	out := []string{token}
	if forms, ok := nounExceptions[token]; ok {
		return append(out, forms...)
	}
	for _, r := range nounRules {
		if !strings.HasSuffix(token, r.suffix) {
			continue
		}
		base := token[:len(token)-len(r.suffix)] + r.replacement
		if base != "" && base != token {
			out = append(out, base)
		}
	}
	return out
}

// nounExceptions holds common irregular plurals from WordNet's noun.exc.
var nounExceptions = map[string][]string{
	"alumni":     {"alumnus"},
	"analyses":   {"analysis"},
	"appendices": {"appendix"},
	"bases":      {"basis", "base"},
	"cacti":      {"cactus"},
	"calves":     {"calf"},
	"children":   {"child"},
	"crises":     {"crisis"},
	"criteria":   {"criterion"},
	"data":       {"datum"},
	"dice":       {"die"},
	"feet":       {"foot"},
	"fungi":      {"fungus"},
	"geese":      {"goose"},
	"halves":     {"half"},
	"hooves":     {"hoof"},
	"indices":    {"index"},
	"knives":     {"knife"},
	"leaves":     {"leaf"},
	"lice":       {"louse"},
	"lives":      {"life"},
	"loaves":     {"loaf"},
	"matrices":   {"matrix"},
	"men":        {"man"},
	"mice":       {"mouse"},
	"nuclei":     {"nucleus"},
	"oxen":       {"ox"},
	"phenomena":  {"phenomenon"},
	"radii":      {"radius"},
	"selves":     {"self"},
	"shelves":    {"shelf"},
	"stimuli":    {"stimulus"},
	"teeth":      {"tooth"},
	"theses":     {"thesis"},
	"thieves":    {"thief"},
	"vertices":   {"vertex"},
	"wives":      {"wife"},
	"wolves":     {"wolf"},
	"women":      {"woman"},
}
