// SPDX-License-Identifier: Apache-2.0

package zerolog

import (
	"io"
	stdlog "log"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	loglib "github.com/xataio/indexschema/pkg/log"
	zerologlib "github.com/xataio/indexschema/pkg/log/zerolog"
)

type Config struct {
	LogLevel string
	// Out defaults to stderr, so that command output written to stdout can
	// be piped.
	Out io.Writer
	// JSON disables the console writer.
	JSON bool
}

const consoleTimeFormat = "15:04:05.000"

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "timestamp"
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return path.Base(file) + ":" + strconv.Itoa(line)
	}
	// the v-level is redundant with the zerolog level
	zerologr.VerbosityFieldName = ""
}

// SetGlobalLogger routes the stdlib log package, the zerolog global logger
// and the OpenTelemetry internal logs through the logger on input.
func SetGlobalLogger(logger *zerolog.Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(logger)

	log.Logger = *logger
	zerolog.DefaultContextLogger = logger

	otelLogger := logger.With().Str(loglib.ModuleField, "otel").Logger()
	otel.SetLogger(zerologr.New(&otelLogger))
}

func NewStdLogger(l *zerolog.Logger) loglib.Logger {
	return zerologlib.NewLogger(l)
}

// NewLogger creates a zerolog logger with timestamps. Unknown levels default
// to info. The caller is only added at debug and trace levels.
func NewLogger(config *Config) *zerolog.Logger {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := config.Out
	if out == nil {
		out = os.Stderr
	}
	if !config.JSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: consoleTimeFormat,
		}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger().Level(level)
	return &logger
}
