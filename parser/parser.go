package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"qualibot.com/qualifier/types"
)

// Parser is the dependency parsing service. A returned sentence always
// satisfies the tree invariant; anything else is reported as
// types.ErrParseFailure.
type Parser interface {
	Parse(ctx context.Context, text string) (*types.Sentence, error)
}

type Func func(ctx context.Context, text string) (*types.Sentence, error)

func (parse Func) Parse(ctx context.Context, text string) (*types.Sentence, error) {
	return parse(ctx, text)
}

// ParseRows reads the compact "text POS dep head" token notation, one token
// per row.
func ParseRows(rows []string) ([]types.Token, error) {
	tokens := make([]types.Token, len(rows))
	for i, row := range rows {
		fields := strings.Fields(row)
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: row %d %q: expected 4 fields", types.ErrParseFailure, i, row)
		}
		head, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d %q: %v", types.ErrParseFailure, i, row, err)
		}
		tokens[i] = types.Token{Index: i, Text: fields[0], Pos: fields[1], Dep: fields[2], Head: head}
	}
	return tokens, nil
}
