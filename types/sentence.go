package types

import (
	"errors"
	"fmt"
)

var ErrParseFailure = errors.New("parse failure")

// Sentence is an ordered, validated sequence of tokens whose head relations
// form a tree rooted at the single ROOT token.
type Sentence struct {
	tokens   []Token
	root     int
	children map[int][]int
}

// NewSentence validates the parser output and builds the child adjacency.
// Any violation of the tree invariant is reported as ErrParseFailure.
func NewSentence(tokens []Token) (*Sentence, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: sentence has no tokens", ErrParseFailure)
	}

	sent := Sentence{
		tokens:   make([]Token, len(tokens)),
		root:     -1,
		children: make(map[int][]int, len(tokens)),
	}
	copy(sent.tokens, tokens)

	for i, token := range sent.tokens {
		if token.Index != i {
			return nil, fmt.Errorf("%w: token %q has index %d at position %d", ErrParseFailure, token.Text, token.Index, i)
		}
		if token.Head < 0 || token.Head >= len(tokens) {
			return nil, fmt.Errorf("%w: token %d has head %d out of range", ErrParseFailure, i, token.Head)
		}
		if token.IsRoot() {
			if sent.root >= 0 {
				return nil, fmt.Errorf("%w: more than one ROOT (%d and %d)", ErrParseFailure, sent.root, i)
			}
			sent.root = i
			continue
		}
		if token.Head == i {
			return nil, fmt.Errorf("%w: non-root token %d is its own head", ErrParseFailure, i)
		}
		sent.children[token.Head] = append(sent.children[token.Head], i)
	}

	if sent.root < 0 {
		return nil, fmt.Errorf("%w: no ROOT token", ErrParseFailure)
	}

	// every token must reach the root in less than len(tokens) steps
	for i := range sent.tokens {
		current := i
		for steps := 0; current != sent.root; steps++ {
			if steps >= len(sent.tokens) {
				return nil, fmt.Errorf("%w: head cycle through token %d", ErrParseFailure, i)
			}
			current = sent.tokens[current].Head
		}
	}

	return &sent, nil
}

func (sent *Sentence) Len() int {
	return len(sent.tokens)
}

func (sent *Sentence) Token(i int) Token {
	return sent.tokens[i]
}

// Tokens returns a copy of the sentence tokens.
func (sent *Sentence) Tokens() []Token {
	tokens := make([]Token, len(sent.tokens))
	copy(tokens, sent.tokens)
	return tokens
}

func (sent *Sentence) Root() Token {
	return sent.tokens[sent.root]
}

func (sent *Sentence) Head(token Token) Token {
	return sent.tokens[token.Head]
}

// Children returns the direct dependents of token i in ascending index order.
func (sent *Sentence) Children(i int) []Token {
	indices := sent.children[i]
	children := make([]Token, len(indices))
	for n, idx := range indices {
		children[n] = sent.tokens[idx]
	}
	return children
}

func (sent *Sentence) Last() Token {
	return sent.tokens[len(sent.tokens)-1]
}

// Slice returns the tokens in the closed index range [begin, end].
func (sent *Sentence) Slice(begin int, end int) []Token {
	span := make([]Token, end-begin+1)
	copy(span, sent.tokens[begin:end+1])
	return span
}

func (sent *Sentence) Texts() []string {
	return Texts(sent.tokens)
}
