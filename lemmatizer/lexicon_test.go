package lemmatizer

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"qualibot.com/qualifier/types"
)

func defaultLexicon(t *testing.T) *Lexicon {
	t.Helper()
	lexicon, err := DefaultLexicon()
	require.NoError(t, err)
	return lexicon
}

func TestLemmaOf(t *testing.T) {
	lexicon := defaultLexicon(t)
	ctx := context.Background()

	cases := map[string]string{
		"said":     "say",
		"ran":      "run",
		"Ran":      "run",
		"walks":    "walk",
		"walked":   "walk",
		"walking":  "walk",
		"stopped":  "stop",
		"hoped":    "hope",
		"hopes":    "hope",
		"tries":    "try",
		"tried":    "try",
		"called":   "call",
		"went":     "go",
		"gone":     "go",
		"lay":      "lay",
		"left":     "leave",
		"examined": "examine",
		"glorped":  "glorp",
		"glorping": "glorp",
	}
	for form, expected := range cases {
		lemma, err := lexicon.LemmaOf(ctx, form, types.PosVerb)
		require.NoError(t, err, form)
		require.Equal(t, expected, lemma, form)
	}
}

func TestLemmaOfFailures(t *testing.T) {
	lexicon := defaultLexicon(t)
	ctx := context.Background()

	_, err := lexicon.LemmaOf(ctx, "xyzzy", types.PosVerb)
	require.True(t, errors.Is(err, ErrLemmaNotFound))

	_, err = lexicon.LemmaOf(ctx, "", types.PosVerb)
	require.True(t, errors.Is(err, ErrLemmaNotFound))

	_, err = lexicon.LemmaOf(ctx, "cats", "NOUN")
	require.True(t, errors.Is(err, ErrUnsupportedPos))

	// base forms missing from the lexicon that only look inflected
	for _, form := range []string{"proceed", "exceed", "fling", "string", "focus", "embed"} {
		_, err = lexicon.LemmaOf(ctx, form, types.PosVerb)
		require.True(t, errors.Is(err, ErrLemmaNotFound), form)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = lexicon.LemmaOf(cancelled, "ran", types.PosVerb)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestInflectionsOf(t *testing.T) {
	lexicon := defaultLexicon(t)
	ctx := context.Background()

	cases := []struct {
		lemma    string
		tag      string
		expected []string
	}{
		{"say", VBD, []string{"said"}},
		{"run", VBD, []string{"ran"}},
		{"walk", VBD, []string{"walked"}},
		{"walk", VBP, []string{"walk"}},
		{"walk", VBZ, []string{"walks"}},
		{"stop", VBD, []string{"stopped"}},
		{"hope", VBD, []string{"hoped"}},
		{"try", VBZ, []string{"tries"}},
		{"try", VBD, []string{"tried"}},
		{"wish", VBZ, []string{"wishes"}},
		{"visit", VBD, []string{"visited"}},
		{"be", VBD, []string{"was", "were"}},
		{"be", VBP, []string{"am", "are"}},
		{"go", VBZ, []string{"goes"}},
	}
	for _, c := range cases {
		forms, err := lexicon.InflectionsOf(ctx, c.lemma, c.tag)
		require.NoError(t, err)
		require.Equal(t, c.expected, forms, "%s %s", c.lemma, c.tag)
	}

	_, err := lexicon.InflectionsOf(ctx, "walk", "VBN")
	require.True(t, errors.Is(err, ErrUnsupportedTag))
}

func TestLoadLexiconFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		verbBaseFile:      {Data: []byte("jump\n")},
		verbRuleFile:      {Data: []byte("s|\ned|\n")},
		verbExcFile:       {Data: []byte("sprung|spring\n")},
		verbIrregularFile: {Data: []byte("spring|sprang|spring|springs\n")},
	}
	lexicon, err := LoadLexicon(fsys)
	require.NoError(t, err)

	ctx := context.Background()
	for form, expected := range map[string]string{"jumps": "jump", "sprang": "spring", "sprung": "spring"} {
		lemma, err := lexicon.LemmaOf(ctx, form, types.PosVerb)
		require.NoError(t, err)
		require.Equal(t, expected, lemma)
	}

	_, err = LoadLexicon(fstest.MapFS{})
	require.Error(t, err)
}
