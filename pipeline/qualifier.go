package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"qualibot.com/qualifier/logger"
	"qualibot.com/qualifier/negation"
	"qualibot.com/qualifier/parser"
	"qualibot.com/qualifier/perspective"
	"qualibot.com/qualifier/render"
	"qualibot.com/qualifier/tense"
	"qualibot.com/qualifier/types"
)

// Qualifier ties the parsing and morphology services to the sentence
// transformations.
type Qualifier struct {
	parser   parser.Parser
	generate negation.AlternatesGenerator
	cfg      types.Configuration
	logger   zerolog.Logger
}

func NewQualifier(p parser.Parser, morphology tense.Morphology, cfg types.Configuration) *Qualifier {
	negator := negation.NewClauseNegator(tense.NewClassifier(morphology), negation.NewVerbSelector(cfg.VerbSelection))
	return &Qualifier{
		parser:   p,
		generate: negation.NewAlternatesGenerator(negator, cfg),
		cfg:      cfg,
		logger:   logger.NewLogger("Qualifier"),
	}
}

// RewritePerspective swaps first and second person in text.
func (q *Qualifier) RewritePerspective(ctx context.Context, text string) (string, error) {
	sent, err := q.parser.Parse(ctx, text)
	if err != nil {
		return "", err
	}
	return render.Join(perspective.Rewrite(sent)), nil
}

// GenerateAlternates returns every clause negation combination of text. An
// empty result means no alternate could be produced; the error, if any, tells
// why.
func (q *Qualifier) GenerateAlternates(ctx context.Context, text string) ([]string, error) {
	sent, err := q.parser.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	return q.generate(ctx, sent)
}

// Qualify answers a message: the perspective is swapped, the result parsed
// again and its alternates formatted into the reply. Failures are scoped to
// the message and end up in the fallback reply.
func (q *Qualifier) Qualify(ctx context.Context, request Request) Response {
	log := q.logger.With().Str("tid", request.Tid).Logger()
	response := Response{Tid: request.Tid, Text: request.Text}

	rewritten, err := q.RewritePerspective(ctx, request.Text)
	if err == nil {
		response.Perspective = rewritten
		response.Alternates, err = q.GenerateAlternates(ctx, rewritten)
	}

	switch {
	case err == nil && len(response.Alternates) == 0:
		log.Info().Msg("No alternates for message")
	case errors.Is(err, types.ErrParseFailure):
		log.Info().Err(err).Msg("Message could not be parsed")
	case errors.Is(err, negation.ErrEmptyClause), errors.Is(err, negation.ErrTooManyClauses):
		log.Info().Err(err).Msg("Message has no usable clause structure")
	case err != nil:
		log.Warn().Err(err).Msg("Failed to qualify message")
	default:
		log.Debug().Int("alternates", len(response.Alternates)).Msg("Generated alternates")
	}
	if err != nil {
		response.Error = err.Error()
		response.Alternates = nil
	}
	if response.Alternates == nil {
		response.Alternates = []string{}
	}

	response.Reply = render.Reply(q.cfg.Reply, response.Alternates)
	return response
}

func (q *Qualifier) String() string {
	return fmt.Sprintf("qualifier(%s)", q.cfg.Name)
}
