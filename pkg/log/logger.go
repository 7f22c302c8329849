package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

const (
	diodeSize         = 1000
	diodePollInterval = 5 * time.Millisecond
)

// NewContextWithLogger installs the global console logger and returns a
// context carrying it. The returned func flushes the ring buffer.
func NewContextWithLogger(ctx context.Context, debug bool) (context.Context, func()) {
	return newContextWithWriter(ctx, os.Stdout, debug)
}

// NewContextWithStderrLogger is used by commands that print answers on
// stdout and must keep log lines out of it.
func NewContextWithStderrLogger(ctx context.Context, debug bool) (context.Context, func()) {
	return newContextWithWriter(ctx, os.Stderr, debug)
}

func newContextWithWriter(ctx context.Context, out io.Writer, debug bool) (context.Context, func()) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// non-blocking: a slow terminal must never stall a token stream
	wr := diode.NewWriter(out, diodeSize, diodePollInterval, func(missed int) {
		fmt.Fprintf(os.Stderr, "Logger Dropped %d messages\n", missed)
	})

	output := zerolog.ConsoleWriter{
		Out:        wr,
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.LevelFieldName,
			zerolog.TimestampFieldName,
			zerolog.MessageFieldName,
		},
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Logger()

	log.Logger = logger

	return logger.WithContext(ctx), func() {
		wr.Close()
	}
}

// FromCtx returns the context logger, or a disabled logger when none is set.
func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}

// WithComponent tags every line logged through the returned context.
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromCtx(ctx).With().Str("component", component).Logger()
	return logger.WithContext(ctx)
}
