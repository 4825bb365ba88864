package main

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"qualibot.com/qualifier/pipeline"
)

func TestChildArgs(t *testing.T) {
	require.Equal(t, []string{"-text", "I am happy."}, childArgs([]string{"-supervise", "-text", "I am happy."}))
	require.Empty(t, childArgs([]string{"--supervise"}))
}

func TestNewParserFixtures(t *testing.T) {
	p, err := newParser(Config{ParserFixtures: "../parser/testdata/parses.yaml"})
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestNewPipeline(t *testing.T) {
	config := Config{ParserFixtures: "../parser/testdata/parses.yaml", RequestTimeout: time.Second}
	ppln, err := newPipeline(config, zerolog.Nop())
	require.NoError(t, err)

	var response pipeline.Response
	require.NoError(t, json.Unmarshal([]byte(<-ppln(pipeline.Request{Tid: "cli", Text: "I am happy."})), &response))
	require.Equal(t, "cli", response.Tid)
	require.Equal(t, []string{"You are happy.", "You are not happy."}, response.Alternates)
	require.Empty(t, response.Error)

	_, err = newPipeline(Config{ConfigPath: "missing.yaml"}, zerolog.Nop())
	require.Error(t, err)
}
