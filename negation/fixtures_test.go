package negation

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"qualibot.com/qualifier/lemmatizer"
	"qualibot.com/qualifier/tense"
	"qualibot.com/qualifier/types"
)

// parse builds a sentence from "text POS dep head" rows.
func parse(t *testing.T, rows ...string) *types.Sentence {
	t.Helper()
	tokens := make([]types.Token, len(rows))
	for i, row := range rows {
		fields := strings.Fields(row)
		require.Len(t, fields, 4, row)
		head, err := strconv.Atoi(fields[3])
		require.NoError(t, err)
		tokens[i] = types.Token{Index: i, Text: fields[0], Pos: fields[1], Dep: fields[2], Head: head}
	}
	sent, err := types.NewSentence(tokens)
	require.NoError(t, err)
	return sent
}

func classifier(t *testing.T) tense.Classifier {
	t.Helper()
	lexicon, err := lemmatizer.DefaultLexicon()
	require.NoError(t, err)
	return tense.NewClassifier(lexicon)
}

func generator(t *testing.T, cfg types.Configuration) AlternatesGenerator {
	t.Helper()
	negator := NewClauseNegator(classifier(t), NewVerbSelector(cfg.VerbSelection))
	return NewAlternatesGenerator(negator, cfg)
}

var background = context.Background()

func iAmHappy(t *testing.T) *types.Sentence {
	return parse(t,
		"I PRON nsubj 1",
		"am AUX ROOT 1",
		"happy ADJ acomp 1",
		". PUNCT punct 1",
	)
}

func catRanToTheDog(t *testing.T) *types.Sentence {
	return parse(t,
		"I PRON nsubj 1",
		"said VERB ROOT 1",
		"that SCONJ mark 5",
		"the DET det 4",
		"cat NOUN nsubj 5",
		"ran VERB ccomp 1",
		"to ADP prep 5",
		"the DET det 8",
		"dog NOUN pobj 6",
		". PUNCT punct 1",
	)
}

func bobAndAlice(t *testing.T) *types.Sentence {
	return parse(t,
		"Bob PROPN nsubj 1",
		"ate VERB ROOT 1",
		"the DET det 3",
		"apple NOUN dobj 1",
		", PUNCT punct 1",
		"and CCONJ cc 1",
		"Alice PROPN nsubj 7",
		"ate VERB conj 1",
		"the DET det 9",
		"orange NOUN dobj 7",
		". PUNCT punct 1",
	)
}

// complement clause before its governing verb
func thatHeLeft(t *testing.T) *types.Sentence {
	return parse(t,
		"That SCONJ mark 2",
		"he PRON nsubj 2",
		"left VERB ccomp 5",
		", PUNCT punct 5",
		"she PRON nsubj 5",
		"said VERB ROOT 5",
		". PUNCT punct 5",
	)
}

func catDidNotRun(t *testing.T) *types.Sentence {
	return parse(t,
		"The DET det 1",
		"cat NOUN nsubj 4",
		"did AUX aux 4",
		"not PART neg 4",
		"run VERB ROOT 4",
		". PUNCT punct 4",
	)
}
