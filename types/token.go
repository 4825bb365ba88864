package types

import "strings"

const (
	// coarse part-of-speech tags inspected by the engine
	PosVerb = "VERB"
	PosAux  = "AUX"
	PosPart = "PART"
	PosAdv  = "ADV"

	// dependency labels inspected by the engine
	DepRoot    = "ROOT"
	DepNsubj   = "nsubj"
	DepAux     = "aux"
	DepAuxPass = "auxpass"
	DepNeg     = "neg"
	DepCcomp   = "ccomp"
	DepConj    = "conj"
	DepXcomp   = "xcomp"
)

// Token is a word (or punctuation mark) of a parsed sentence. Tokens are
// produced by the parsing service and never mutated afterwards.
type Token struct {
	// The index of the word in the sentence, starting at 0.
	Index int `json:"index" yaml:"index"`

	// The unmodified word
	Text string `json:"text" yaml:"text"`

	Pos string `json:"pos" yaml:"pos"`
	Dep string `json:"dep" yaml:"dep"`

	// Index of the syntactic head. The root points to itself.
	Head int `json:"head" yaml:"head"`
}

func (token Token) Lower() string {
	return strings.ToLower(token.Text)
}

func (token Token) IsRoot() bool {
	return token.Dep == DepRoot
}

func (token Token) HasDep(deps ...string) bool {
	for _, dep := range deps {
		if token.Dep == dep {
			return true
		}
	}
	return false
}

// Texts returns the surface text of every token, in order.
func Texts(tokens []Token) []string {
	texts := make([]string, len(tokens))
	for i, token := range tokens {
		texts[i] = token.Text
	}
	return texts
}
