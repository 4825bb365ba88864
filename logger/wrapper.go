package logger

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
)

// WrapProcess runs executable as a child process and forwards its JSON log
// lines. Anything printed after a "panic" line is collected and reported as a
// single structured record when the child exits.
func WrapProcess(executable string, arg ...string) {
	supervisorLogger := NewLogger("Supervisor")
	defer handlePanic(supervisorLogger)

	r, w, err := os.Pipe()
	if err != nil {
		supervisorLogger.Fatal().Err(err).Msg("Could not create pipe for logs")
		os.Exit(1)
	}

	cmd := exec.Command(executable, arg...)
	cmd.Stderr = w
	cmd.Stdout = os.Stdout

	if err = cmd.Start(); err != nil {
		supervisorLogger.Fatal().Err(err).Msg("Could not launch qualifier process")
		os.Exit(1)
	}
	exitCodeCh := make(chan int)
	logsCh := make(chan []byte)

	go waitForExit(cmd, supervisorLogger, exitCodeCh)
	go scanLogs(r, supervisorLogger, logsCh)

	var panicLogs strings.Builder
	foundPanic := false
	for {
		select {
		case exitCode := <-exitCodeCh:
			handleExit(exitCode, panicLogs.String(), supervisorLogger)
		case line := <-logsCh:
			foundPanic = handleLogLine(line, foundPanic, &panicLogs, supervisorLogger)
		}
	}
}

func waitForExit(cmd *exec.Cmd, supervisorLogger zerolog.Logger, exitCodeCh chan<- int) {
	defer handlePanic(supervisorLogger)
	err := cmd.Wait()
	if err == nil {
		exitCodeCh <- 0
		return
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		exitCodeCh <- 1
		return
	}
	exitCodeCh <- exitErr.ExitCode()
}

func scanLogs(r io.Reader, supervisorLogger zerolog.Logger, logsCh chan<- []byte) {
	defer handlePanic(supervisorLogger)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		logsCh <- line
	}
	if err := scanner.Err(); err != nil {
		supervisorLogger.Fatal().Err(err).Msg("Error scanning child stderr")
		os.Exit(1)
	}
}

func handleExit(exitCode int, panicLogs string, supervisorLogger zerolog.Logger) {
	if exitCode == 0 {
		supervisorLogger.Info().Msg("Exited with code 0")
		os.Exit(0)
	}
	supervisorLogger.Error().
		Err(errors.New(panicLogs)).
		Msgf("Qualifier process exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func handleLogLine(line []byte, foundPanic bool, builder *strings.Builder, supervisorLogger zerolog.Logger) bool {
	text := string(line)
	if !foundPanic && strings.HasPrefix(text, "panic") {
		foundPanic = true
	}
	switch {
	case len(line) == 0:
	case foundPanic:
		builder.WriteString(text)
		builder.WriteString("\n")
	case isJSON(line):
		_, _ = fmt.Fprintln(os.Stderr, text)
	default:
		supervisorLogger.Warn().Str("line", text).Msg("Got log line that is not JSON formatted")
	}
	return foundPanic
}

func handlePanic(supervisorLogger zerolog.Logger) {
	r := recover()
	if r == nil {
		return
	}
	supervisorLogger.Error().
		Caller().
		Str("error", fmt.Sprint(r)).
		Str("stack_trace", string(debug.Stack())).
		Msg("Supervisor panicked")
	os.Exit(1)
}

func isJSON(b []byte) bool {
	var js json.RawMessage
	return json.Unmarshal(b, &js) == nil && js != nil
}
