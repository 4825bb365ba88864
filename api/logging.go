package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"qualibot.com/qualifier/logger"
)

var defaultLogger = logger.NewLogger("API")

type endpointLoggerFields struct {
	Method     string `json:"method"`
	Url        string `json:"url"`
	RemoteAddr string `json:"remote_addr"`
}

const RequestInfoFieldsKey = "request_info"

func makeRequestLogger(request *http.Request) zerolog.Logger {
	fields := endpointLoggerFields{
		Method:     request.Method,
		Url:        request.URL.String(),
		RemoteAddr: request.RemoteAddr,
	}
	return defaultLogger.
		With().Interface(RequestInfoFieldsKey, fields).Logger()
}
