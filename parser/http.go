package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"qualibot.com/qualifier/logger"
	"qualibot.com/qualifier/types"
)

type HTTPConfig struct {
	URL     string        `envconfig:"QUALIFIER_PARSER_URL" default:"http://localhost:8090/parse"`
	Timeout time.Duration `envconfig:"QUALIFIER_PARSER_TIMEOUT" default:"10s"`
}

func NewHTTPConfig() (HTTPConfig, error) {
	var config HTTPConfig
	err := envconfig.Process("", &config)
	return config, err
}

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Tokens []types.Token `json:"tokens"`
}

// HTTPParser calls an external dependency parse service:
// POST {"text": "..."} -> {"tokens": [{index, text, pos, dep, head}, ...]}.
type HTTPParser struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

func NewHTTPParser(config HTTPConfig) *HTTPParser {
	return &HTTPParser{
		url:    config.URL,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.NewLogger("HTTP Parser"),
	}
}

func (parser *HTTPParser) Parse(ctx context.Context, text string) (*types.Sentence, error) {
	parserLogger := parser.logger
	body, err := json.Marshal(parseRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, parser.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrParseFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := parser.client.Do(req)
	if err != nil {
		parserLogger.Err(err).Str("url", parser.url).Msg("Parse request failed")
		return nil, fmt.Errorf("%w: %v", types.ErrParseFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		parserLogger.Error().Int("status", resp.StatusCode).Str("body", string(msg)).Msg("Parse service returned an error")
		return nil, fmt.Errorf("%w: parse service returned status %d", types.ErrParseFailure, resp.StatusCode)
	}

	var result parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrParseFailure, err)
	}
	return types.NewSentence(result.Tokens)
}
