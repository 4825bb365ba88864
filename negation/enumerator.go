package negation

import (
	"context"
	"fmt"

	"qualibot.com/qualifier/render"
	"qualibot.com/qualifier/types"
)

// AlternatesGenerator returns every combination of negated clauses of a
// declarative sentence. An empty result means no alternate can be produced.
type AlternatesGenerator func(ctx context.Context, sent *types.Sentence) ([]string, error)

func NewAlternatesGenerator(negate ClauseNegator, cfg types.Configuration) AlternatesGenerator {
	maxClauses := cfg.MaxClauses
	if maxClauses <= 0 {
		maxClauses = types.DefaultMaxClauses
	}
	if maxClauses > types.MaxClausesLimit {
		maxClauses = types.MaxClausesLimit
	}

	return func(ctx context.Context, sent *types.Sentence) ([]string, error) {
		if !cfg.IsTerminal(sent.Last().Text) {
			return nil, nil
		}

		clauses := LocateClauses(sent)
		if len(clauses) == 0 {
			return nil, nil
		}
		if len(clauses) > maxClauses {
			return nil, fmt.Errorf("%w: %d clauses, at most %d allowed", ErrTooManyClauses, len(clauses), maxClauses)
		}

		// both renditions of every clause, indexed by the negate flag
		renditions := make([][2][]string, len(clauses))
		clauseAt := make(map[int]int, len(clauses))
		for i, clause := range clauses {
			for flag, negated := range []bool{false, true} {
				texts, err := negate(ctx, clause.Span, negated)
				if err != nil {
					return nil, err
				}
				renditions[i][flag] = texts
			}
			clauseAt[clause.Begin] = i
		}

		total := uint64(1) << uint(len(clauses))
		alternates := make([]string, 0, total)
		for k := uint64(0); k < total; k++ {
			choice := types.NewNegationChoice(k, len(clauses))

			texts := make([]string, 0, sent.Len()+len(clauses)*2)
			for idx := 0; idx < sent.Len(); {
				if i, ok := clauseAt[idx]; ok {
					flag := 0
					if choice[i] {
						flag = 1
					}
					texts = append(texts, renditions[i][flag]...)
					idx = clauses[i].End + 1
					continue
				}
				texts = append(texts, sent.Token(idx).Text)
				idx++
			}
			alternates = append(alternates, render.Join(texts))
		}
		return alternates, nil
	}
}
