package pg

import (
	"context"
	"strings"

	"branchsync/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one statement as seen by the store adapter
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives an event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer returns a tracer that prints SQL regardless of the process-wide level
// Lines carry the request and run ids found on ctx
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	l := z.log
	if id := logger.RunID(ctx); id != "" {
		l = l.With().Str("run_id", id).Logger()
	}
	evt := l.Info()
	switch {
	case ev.Err != nil:
		evt = l.Error()
	case ev.Slow:
		evt = l.Warn()
	}

	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds runs of whitespace into single spaces
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
