package negation

import (
	"context"
	"errors"

	"qualibot.com/qualifier/logger"
	"qualibot.com/qualifier/tense"
	"qualibot.com/qualifier/types"
)

var (
	ErrEmptyClause    = errors.New("negation: clause has no verb")
	ErrTooManyClauses = errors.New("negation: too many clauses")
)

const Not = "not"

// ClauseNegator returns the texts of one clause span, negated when negate is
// set. An already negated clause loses its negation instead.
type ClauseNegator func(ctx context.Context, span []types.Token, negate bool) ([]string, error)

// VerbSelector tells whether a span token is the verb of its clause.
type VerbSelector func(token types.Token) bool

func NewVerbSelector(policy string) VerbSelector {
	if policy == types.VerbSelectionStrict {
		return func(token types.Token) bool {
			return token.Pos == types.PosVerb
		}
	}
	return func(token types.Token) bool {
		if token.Pos == types.PosVerb {
			return true
		}
		return token.Pos == types.PosAux &&
			token.HasDep(types.DepRoot, types.DepCcomp, types.DepConj, types.DepXcomp)
	}
}

func NewClauseNegator(classify tense.Classifier, isVerb VerbSelector) ClauseNegator {
	negatorLogger := logger.NewLogger("Clause Negator")

	doSupport := func(ctx context.Context, verb types.Token) ([]string, error) {
		verbTense, lemma, err := classify(ctx, verb.Text)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			negatorLogger.Debug().Err(err).Str("verb", verb.Text).Msg("Morphology lookup failed, using default do-support")
			verbTense = types.TenseUnknown
		}
		if lemma == "" {
			lemma = verb.Text
		}

		switch verbTense {
		case types.TenseAux:
			return []string{verb.Text, Not}, nil
		case types.TensePast:
			return []string{"did", Not, lemma}, nil
		case types.TenseThird:
			return []string{"does", Not, lemma}, nil
		default:
			return []string{"do", Not, lemma}, nil
		}
	}

	return func(ctx context.Context, span []types.Token, negate bool) ([]string, error) {
		if !negate {
			return types.Texts(span), nil
		}

		verbIdx := -1
		hasNeg := false
		auxIdx := -1
		for i, token := range span {
			if verbIdx < 0 && isVerb(token) {
				verbIdx = i
			}
			if token.Dep == types.DepNeg {
				hasNeg = true
			}
			if auxIdx < 0 && token.HasDep(types.DepAux, types.DepAuxPass) {
				auxIdx = i
			}
		}
		if verbIdx < 0 {
			return nil, ErrEmptyClause
		}

		texts := make([]string, 0, len(span)+2)
		switch {
		case hasNeg:
			for _, token := range span {
				if token.Dep != types.DepNeg {
					texts = append(texts, token.Text)
				}
			}
		case auxIdx >= 0:
			for i, token := range span {
				texts = append(texts, token.Text)
				if i == auxIdx {
					texts = append(texts, Not)
				}
			}
		default:
			supported, err := doSupport(ctx, span[verbIdx])
			if err != nil {
				return nil, err
			}
			for i, token := range span {
				if i == verbIdx {
					texts = append(texts, supported...)
					continue
				}
				texts = append(texts, token.Text)
			}
		}
		return texts, nil
	}
}
