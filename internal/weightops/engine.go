package weightops

import (
	"fmt"
	"time"

	"github.com/banshee-data/skinweights/internal/monitoring"
	"github.com/banshee-data/skinweights/internal/progress"
	"github.com/banshee-data/skinweights/internal/timeutil"
)

// Reporter receives a human-readable completion message per operation.
type Reporter interface {
	Report(msg string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(msg string)

func (f ReporterFunc) Report(msg string) { f(msg) }

// Config wires the engine's advisory side channels. All fields are optional.
type Config struct {
	Progress progress.Sink
	Reporter Reporter
	Clock    timeutil.Clock
}

// Engine runs weight operations. It holds no per-operation state and may
// be reused; it is not safe for concurrent use on the same objects.
type Engine struct {
	progress progress.Sink
	reporter Reporter
	clock    timeutil.Clock
}

// NewEngine returns an engine with cfg's side channels, defaulting to no
// progress, no reporting and the real clock.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		progress: cfg.Progress,
		reporter: cfg.Reporter,
		clock:    cfg.Clock,
	}
	if e.progress == nil {
		e.progress = progress.Nop{}
	}
	if e.clock == nil {
		e.clock = timeutil.RealClock{}
	}
	return e
}

// finish logs the summary line and reports the elapsed time as
// "1.2 Seconds".
func (e *Engine) finish(start time.Time, format string, args ...interface{}) {
	elapsed := e.clock.Since(start)
	monitoring.Logf("%s in %s", fmt.Sprintf(format, args...), elapsed.Round(time.Millisecond))
	if e.reporter != nil {
		e.reporter.Report(fmt.Sprintf("%.1f Seconds", elapsed.Seconds()))
	}
}
