package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"qualibot.com/qualifier/api"
	"qualibot.com/qualifier/lemmatizer"
	"qualibot.com/qualifier/logger"
	"qualibot.com/qualifier/parser"
	"qualibot.com/qualifier/pipeline"
	"qualibot.com/qualifier/types"
	"qualibot.com/qualifier/worker"
)

type Config struct {
	ConfigPath     string        `envconfig:"QUALIFIER_CONFIG_PATH" default:""`
	LexiconPath    string        `envconfig:"QUALIFIER_LEXICON_PATH" default:""`
	ParserFixtures string        `envconfig:"QUALIFIER_PARSER_FIXTURES" default:""`
	RequestTimeout time.Duration `envconfig:"QUALIFIER_REQUEST_TIMEOUT" default:"30s"`
	RestAPIActive  bool          `envconfig:"QUALIFIER_REST_API_ACTIVE" default:"false"`
	RestAPIPort    string        `envconfig:"QUALIFIER_REST_API_PORT" default:"10000"`
	BatchLimit     int           `envconfig:"QUALIFIER_BATCH_LIMIT" default:"8"`
	WorkerActive   bool          `envconfig:"QUALIFIER_WORKER_ACTIVE" default:"true"`
}

const pipelineStartMaxRetries = 5

func main() {
	text := flag.String("text", "", "qualify one message, print the JSON response and exit")
	supervise := flag.Bool("supervise", false, "run the service as a supervised child process")
	flag.Parse()

	if *supervise {
		logger.WrapProcess(os.Args[0], childArgs(os.Args[1:])...)
		return
	}

	logger.SetupLogging()
	mainLogger := logger.NewLogger("Main")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		mainLogger.Fatal().Caller().Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}

	ppln := loadPipeline(config, mainLogger)

	if *text != "" {
		fmt.Println(<-ppln(pipeline.Request{Tid: "cli", Text: *text}))
		return
	}

	if config.RestAPIActive {
		go serveAPI(config, ppln, mainLogger)
	}
	if !config.WorkerActive {
		if !config.RestAPIActive {
			mainLogger.Fatal().Msg("Neither the REST API nor the worker is active, exiting")
			os.Exit(1)
		}
		mainLogger.Info().Msg("Worker disabled, serving REST API only")
		select {}
	}

	mainLogger.Info().Msg("Start qualifier worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			mainLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		if err = rmqWorker.StartWorker(); err != nil {
			mainLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}

func childArgs(args []string) []string {
	var child []string
	for _, arg := range args {
		if arg == "-supervise" || arg == "--supervise" {
			continue
		}
		child = append(child, arg)
	}
	return child
}

// loadPipeline retries the resource loading a few times, the parse service
// may still be starting.
func loadPipeline(config Config, mainLogger zerolog.Logger) pipeline.Pipeline {
	for retry := 0; retry < pipelineStartMaxRetries; retry++ {
		ppln, err := newPipeline(config, mainLogger)
		if err == nil {
			mainLogger.Info().Msg("Pipeline loaded")
			return ppln
		}
		mainLogger.Err(err).Msg("Failed to start qualify pipeline. Retrying in 5 sec")
		time.Sleep(5 * time.Second)
	}
	mainLogger.Fatal().Caller().Msg("Could not start pipeline after 5 retries, exiting")
	os.Exit(1)
	return nil
}

func newPipeline(config Config, mainLogger zerolog.Logger) (pipeline.Pipeline, error) {
	cfg, err := types.LoadConfiguration(config.ConfigPath)
	if err != nil {
		return nil, err
	}
	mainLogger.Info().Interface("configuration", cfg).Msg("Loaded configuration")

	lexicon, err := lemmatizer.NewLexicon(config.LexiconPath)
	if err != nil {
		return nil, err
	}

	p, err := newParser(config)
	if err != nil {
		return nil, err
	}

	qualifier := pipeline.NewQualifier(p, lexicon, cfg)
	return pipeline.NewQualifyPipeline(qualifier, pipeline.QualifyParams{Timeout: config.RequestTimeout}), nil
}

func newParser(config Config) (parser.Parser, error) {
	if config.ParserFixtures != "" {
		return parser.NewFixtureParser(config.ParserFixtures)
	}
	httpConfig, err := parser.NewHTTPConfig()
	if err != nil {
		return nil, err
	}
	return parser.NewHTTPParser(httpConfig), nil
}

func serveAPI(config Config, ppln pipeline.Pipeline, mainLogger zerolog.Logger) {
	apiRequest := &api.Request{
		Pipeline:   ppln,
		BatchLimit: config.BatchLimit,
	}
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.RestAPIPort),
		Handler: api.NewServeMux(apiRequest),
	}
	mainLogger.Info().Msgf("REST API on %s", server.Addr)
	err := server.ListenAndServe()
	mainLogger.Fatal().Caller().Err(err).Msg("REST API stopped with error")
	os.Exit(1)
}
