package tense

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"qualibot.com/qualifier/types"
)

var errNotFound = errors.New("not found")

type morphologyStub struct {
	lemmas      map[string]string
	inflections map[string]map[string][]string
	calls       int
}

func (stub *morphologyStub) LemmaOf(_ context.Context, word string, pos string) (string, error) {
	stub.calls++
	if pos != types.PosVerb {
		return "", errors.New("unexpected pos " + pos)
	}
	lemma, ok := stub.lemmas[word]
	if !ok {
		return "", errNotFound
	}
	return lemma, nil
}

func (stub *morphologyStub) InflectionsOf(_ context.Context, lemma string, tag string) ([]string, error) {
	stub.calls++
	return stub.inflections[lemma][tag], nil
}

func newStub() *morphologyStub {
	return &morphologyStub{
		lemmas: map[string]string{
			"said": "say", "says": "say", "say": "say",
			"walking": "walk",
		},
		inflections: map[string]map[string][]string{
			"say":  {"VBD": {"said"}, "VBP": {"say"}, "VBZ": {"says"}},
			"walk": {"VBD": {"walked"}, "VBP": {"walk"}, "VBZ": {"walks"}},
		},
	}
}

func TestClassifier(t *testing.T) {
	cases := []struct {
		verb  string
		tense types.Tense
		lemma string
	}{
		{"said", types.TensePast, "say"},
		{"say", types.TensePresent, "say"},
		{"says", types.TenseThird, "say"},
		{"walking", types.TenseUnknown, "walk"},
		{"Was", types.TenseAux, "Was"},
		{"ought", types.TenseAux, "ought"},
	}
	for _, c := range cases {
		t.Run(c.verb, func(t *testing.T) {
			classify := NewClassifier(newStub())
			tense, lemma, err := classify(context.Background(), c.verb)
			require.NoError(t, err)
			require.Equal(t, c.tense, tense)
			require.Equal(t, c.lemma, lemma)
		})
	}
}

func TestClassifierAuxSkipsMorphology(t *testing.T) {
	stub := newStub()
	classify := NewClassifier(stub)
	_, _, err := classify(context.Background(), "could")
	require.NoError(t, err)
	require.Zero(t, stub.calls)
}

func TestClassifierLemmaFailure(t *testing.T) {
	classify := NewClassifier(newStub())
	tense, lemma, err := classify(context.Background(), "xyzzy")
	require.True(t, errors.Is(err, errNotFound))
	require.Equal(t, types.TenseUnknown, tense)
	require.Empty(t, lemma)
}
