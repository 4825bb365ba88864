package logger

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		LOG_LEVEL_DEBUG: zerolog.DebugLevel,
		LOG_LEVEL_INFO:  zerolog.InfoLevel,
		LOG_LEVEL_WARN:  zerolog.WarnLevel,
		LOG_LEVEL_ERROR: zerolog.ErrorLevel,
		LOG_LEVEL_FATAL: zerolog.FatalLevel,
		LOG_LEVEL_PANIC: zerolog.PanicLevel,
		"verbose":       zerolog.InfoLevel,
	}
	for name, expected := range cases {
		require.Equal(t, expected, ParseLevel(name), name)
	}
}

func TestHandleLogLine(t *testing.T) {
	log := zerolog.Nop()
	var builder strings.Builder

	found := handleLogLine([]byte(`{"level_name":"info"}`), false, &builder, log)
	require.False(t, found)

	found = handleLogLine([]byte("panic: runtime error"), false, &builder, log)
	require.True(t, found)

	found = handleLogLine([]byte("goroutine 1 [running]:"), found, &builder, log)
	require.True(t, found)
	require.Equal(t, "panic: runtime error\ngoroutine 1 [running]:\n", builder.String())
}
