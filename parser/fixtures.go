package parser

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"qualibot.com/qualifier/types"
)

type fixture struct {
	Text   string        `yaml:"text"`
	Tokens []types.Token `yaml:"tokens"`
	Rows   []string      `yaml:"rows"`
}

type fixtureFile struct {
	Sentences []fixture `yaml:"sentences"`
}

// FixtureParser answers from parses recorded in a YAML file. Tokens are given
// either in full or in the compact rows notation.
type FixtureParser struct {
	sentences map[string][]types.Token
}

func NewFixtureParser(filePath string) (*FixtureParser, error) {
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var file fixtureFile
	if err := yaml.Unmarshal(buf, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	parser := FixtureParser{sentences: make(map[string][]types.Token, len(file.Sentences))}
	for _, sentence := range file.Sentences {
		tokens := sentence.Tokens
		if len(tokens) == 0 {
			if tokens, err = ParseRows(sentence.Rows); err != nil {
				return nil, fmt.Errorf("%s: %q: %w", filePath, sentence.Text, err)
			}
		}
		parser.sentences[sentence.Text] = tokens
	}
	return &parser, nil
}

func (parser *FixtureParser) Parse(ctx context.Context, text string) (*types.Sentence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens, ok := parser.sentences[text]
	if !ok {
		return nil, fmt.Errorf("%w: no recorded parse for %q", types.ErrParseFailure, text)
	}
	return types.NewSentence(tokens)
}
