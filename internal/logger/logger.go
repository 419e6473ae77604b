package logger

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects the log level and destination.
type Options struct {
	Level string // DEBUG, INFO, WARN, ERROR, DISABLED
	File  string // append to this file instead of stderr
	Quiet bool   // discard output unless File is set
}

// Init configures the global zerolog logger and returns a function that
// releases the log file, if any.
func Init(opts Options) (func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(level)

	var (
		out     io.Writer = os.Stderr
		closeFn           = func() error { return nil }
		noColor bool
	)
	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, closeFn, noColor = f, f.Close, true
	case opts.Quiet:
		out = io.Discard
	}

	log.Logger = New(out, noColor)
	return closeFn, nil
}

// New builds a console logger writing to out.
func New(out io.Writer, noColor bool) zerolog.Logger {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		if i := strings.LastIndex(file, "/"); i >= 0 {
			file = file[i+1:]
		}
		return file + ":" + strconv.Itoa(line)
	}

	w := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: "02-01-2006 15:04:05.000",
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("%-6s", i))
		},
	}
	return zerolog.New(w).With().Timestamp().Caller().Str("app", "glucoguard").Logger()
}

// ParseLevel maps an upper-case level name to a zerolog level.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "INFO":
		return zerolog.InfoLevel, nil
	case "WARN", "":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "DISABLED":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
