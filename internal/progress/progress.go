// Package progress carries advisory progress reports from long-running
// weight operations to whatever is watching them. Reports never affect
// results.
package progress

import "github.com/banshee-data/skinweights/internal/monitoring"

// MaxUpdates bounds how many Update calls a Tracker makes per phase.
const MaxUpdates = 200

// Sink receives progress for one phase at a time.
type Sink interface {
	Begin(total int)
	Update(count int)
	End()
}

// Nop discards progress.
type Nop struct{}

func (Nop) Begin(int)  {}
func (Nop) Update(int) {}
func (Nop) End()       {}

// Tracker throttles a Sink to roughly MaxUpdates updates per phase.
type Tracker struct {
	sink  Sink
	step  int
	count int
}

// Start begins a phase of total units on sink. A nil sink is allowed.
func Start(sink Sink, total int) *Tracker {
	if sink == nil {
		sink = Nop{}
	}
	sink.Begin(total)
	return &Tracker{sink: sink, step: total/MaxUpdates + 1}
}

// Tick records one unit of work.
func (t *Tracker) Tick() {
	t.count++
	if t.count%t.step == 0 {
		t.sink.Update(t.count)
	}
}

// Count returns the units recorded so far.
func (t *Tracker) Count() int { return t.count }

// Done ends the phase.
func (t *Tracker) Done() {
	t.sink.End()
}

// LogSink writes progress through monitoring.Logf at 10% boundaries.
type LogSink struct {
	Label string

	total   int
	lastPct int
}

func (s *LogSink) Begin(total int) {
	s.total = total
	s.lastPct = 0
	monitoring.Logf("%s: started (%d steps)", s.Label, total)
}

func (s *LogSink) Update(count int) {
	if s.total <= 0 {
		return
	}
	pct := count * 100 / s.total
	if pct/10 > s.lastPct/10 {
		s.lastPct = pct
		monitoring.Logf("%s: %d%%", s.Label, pct)
	}
}

func (s *LogSink) End() {
	monitoring.Logf("%s: done", s.Label)
}
