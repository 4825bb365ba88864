package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"qualibot.com/qualifier/logger"
	"qualibot.com/qualifier/utils"
)

type QualifyParams struct {
	// upper bound for one request, parsing included; zero means no limit
	Timeout time.Duration `json:"timeout"`
}

func NewQualifyPipeline(qualifier *Qualifier, params QualifyParams) Pipeline {
	pplnLogger := logger.NewLogger("Qualify pipeline")
	pplnLogger.Info().
		Str("qualifier", qualifier.String()).
		Dur("timeout", params.Timeout).
		Msg("Starting qualify pipeline")

	return func(request Request) <-chan string {
		responseChan := make(chan string, 1)
		pplnLog := pplnLogger.With().Str("tid", request.Tid).Logger()
		errLogger := pplnLog.With().Caller().Logger()

		go func() {
			defer close(responseChan)

			ctx := context.Background()
			if params.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, params.Timeout)
				defer cancel()
			}

			response, err := qualify(ctx, qualifier, request)
			if err != nil {
				errLogger.Err(err).Msg("Qualify pipeline panicked")
				response = Response{
					Tid:        request.Tid,
					Text:       request.Text,
					Alternates: []string{},
					Reply:      qualifier.cfg.Reply.Fallback,
					Error:      err.Error(),
				}
			}

			buf, err := json.Marshal(response)
			if err != nil {
				errLogger.Err(err).Msg("Failed to marshall response")
			}
			pplnLog.Info().Int("alternates", len(response.Alternates)).Msg("Finished qualify pipeline")
			responseChan <- string(buf)
		}()

		return responseChan
	}
}

func qualify(ctx context.Context, qualifier *Qualifier, request Request) (response Response, err error) {
	defer utils.RecoverWithError(&err)
	return qualifier.Qualify(ctx, request), nil
}
