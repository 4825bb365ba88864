package tense

import (
	"context"
	"strings"

	"qualibot.com/qualifier/types"
)

// Morphology is the lemma/inflection lookup the classifier consumes.
type Morphology interface {
	LemmaOf(ctx context.Context, word string, pos string) (string, error)
	InflectionsOf(ctx context.Context, lemma string, tag string) ([]string, error)
}

// Classifier returns the tense tag and the lemma of a verb surface form. A
// lemma lookup failure is returned as error together with TenseUnknown.
type Classifier func(ctx context.Context, verb string) (types.Tense, string, error)

var auxVerbs = map[string]bool{
	"am": true, "is": true, "are": true, "was": true, "were": true,
	"have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true,
	"will": true, "would": true, "shall": true, "should": true,
	"may": true, "might": true, "must": true, "can": true, "could": true,
	"ought": true,
}

func IsAuxVerb(word string) bool {
	return auxVerbs[strings.ToLower(word)]
}

func NewClassifier(morphology Morphology) Classifier {
	return func(ctx context.Context, verb string) (types.Tense, string, error) {
		if IsAuxVerb(verb) {
			return types.TenseAux, verb, nil
		}

		lemma, err := morphology.LemmaOf(ctx, verb, types.PosVerb)
		if err != nil {
			return types.TenseUnknown, "", err
		}

		form := strings.ToLower(verb)
		for _, tense := range types.Inflected() {
			forms, err := morphology.InflectionsOf(ctx, lemma, string(tense))
			if err != nil {
				return types.TenseUnknown, lemma, err
			}
			for _, inflected := range forms {
				if strings.ToLower(inflected) == form {
					return tense, lemma, nil
				}
			}
		}
		return types.TenseUnknown, lemma, nil
	}
}
