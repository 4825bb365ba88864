package lemmatizer

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"qualibot.com/qualifier/logger"
	"qualibot.com/qualifier/types"
	"qualibot.com/qualifier/utils"
)

var (
	ErrLemmaNotFound  = errors.New("lemmatizer: lemma not found")
	ErrUnsupportedPos = errors.New("lemmatizer: unsupported part of speech")
	ErrUnsupportedTag = errors.New("lemmatizer: unsupported inflection tag")
)

const (
	verbBaseFile      = "verb_base.txt"
	verbRuleFile      = "verb_rule.bsv"
	verbExcFile       = "verb_exc.bsv"
	verbIrregularFile = "verb_irregular.bsv"
)

//go:embed resources
var embedded embed.FS

// Lexicon is the local morphology service: verb lemmas and their inflections.
type Lexicon struct {
	rules *MorphologicalRules
}

// DefaultLexicon loads the lexicon shipped with the binary.
func DefaultLexicon() (*Lexicon, error) {
	resources, err := fs.Sub(embedded, "resources")
	if err != nil {
		return nil, err
	}
	return LoadLexicon(resources)
}

// NewLexicon loads the lexicon resources from a directory. An empty path
// falls back to the embedded resources.
func NewLexicon(resPath string) (*Lexicon, error) {
	if resPath == "" {
		return DefaultLexicon()
	}
	return LoadLexicon(os.DirFS(resPath))
}

func LoadLexicon(fsys fs.FS) (*Lexicon, error) {
	lexiconLogger := logger.NewLogger("Lexicon")

	rules := MorphologicalRules{
		VerbExc:       map[string]string{},
		VerbIrregular: map[string]map[string][]string{},
	}
	var err error
	if rules.VerbBase, err = utils.ReadSet(fsys, verbBaseFile); err != nil {
		return nil, err
	}
	if rules.VerbRule, err = utils.ReadRows(fsys, verbRuleFile, 2); err != nil {
		return nil, err
	}
	irregular, err := utils.ReadRows(fsys, verbIrregularFile, 4)
	if err != nil {
		return nil, err
	}
	exceptions, err := utils.ReadMap(fsys, verbExcFile)
	if err != nil {
		return nil, err
	}

	tags := []string{VBD, VBP, VBZ}
	for _, row := range irregular {
		lemma := row[0]
		rules.VerbBase[lemma] = true
		forms := make(map[string][]string, len(tags))
		for i, tag := range tags {
			forms[tag] = strings.Split(row[i+1], ",")
		}
		rules.VerbIrregular[lemma] = forms
	}
	for lemma, forms := range rules.VerbIrregular {
		for _, tagForms := range forms {
			for _, form := range tagForms {
				// a form that is a lemma of its own ("lay") keeps pointing to itself
				if _, isLemma := rules.VerbIrregular[form]; isLemma && form != lemma {
					continue
				}
				rules.VerbExc[form] = lemma
			}
		}
	}
	for form, lemma := range exceptions {
		rules.VerbExc[form] = lemma
	}

	lexiconLogger.Debug().
		Int("base", len(rules.VerbBase)).
		Int("irregular", len(rules.VerbIrregular)).
		Int("exceptions", len(rules.VerbExc)).
		Msg("Loaded verb lexicon")

	return &Lexicon{rules: &rules}, nil
}

// LemmaOf returns the base form of word. Only verbs are supported.
func (lexicon *Lexicon) LemmaOf(ctx context.Context, word string, pos string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.ToUpper(pos) != types.PosVerb {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPos, pos)
	}

	form := strings.ToLower(strings.TrimSpace(word))
	if form == "" {
		return "", fmt.Errorf("%w: empty word", ErrLemmaNotFound)
	}

	if exception, ok := lexicon.rules.getException(form); ok {
		return exception, nil
	}
	if base, ok := lexicon.rules.getBase(form); ok {
		return base, nil
	}
	if guess, ok := lexicon.rules.guess(form); ok {
		return guess, nil
	}
	return "", fmt.Errorf("%w: %q", ErrLemmaNotFound, word)
}

// InflectionsOf returns the forms of lemma for one of the VBD, VBP and VBZ
// tags.
func (lexicon *Lexicon) InflectionsOf(ctx context.Context, lemma string, tag string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch tag {
	case VBD, VBP, VBZ:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTag, tag)
	}
	return lexicon.rules.inflections(strings.ToLower(lemma), tag), nil
}
