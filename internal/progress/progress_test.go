package progress

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/skinweights/internal/monitoring"
)

type recordingSink struct {
	began   []int
	updates []int
	ended   int
}

func (r *recordingSink) Begin(total int)  { r.began = append(r.began, total) }
func (r *recordingSink) Update(count int) { r.updates = append(r.updates, count) }
func (r *recordingSink) End()             { r.ended++ }

func TestTracker_Throttles(t *testing.T) {
	tests := []struct {
		total       int
		wantUpdates int
	}{
		{0, 0},
		{5, 5},
		{199, 199},
		{200, 100},     // step 2
		{10_000, 196},  // step 51
		{100_000, 199}, // step 501
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.total), func(t *testing.T) {
			sink := &recordingSink{}
			tr := Start(sink, tt.total)
			for i := 0; i < tt.total; i++ {
				tr.Tick()
			}
			tr.Done()

			assert.Equal(t, []int{tt.total}, sink.began)
			assert.Len(t, sink.updates, tt.wantUpdates)
			assert.LessOrEqual(t, len(sink.updates), MaxUpdates)
			assert.Equal(t, 1, sink.ended)
			assert.Equal(t, tt.total, tr.Count())
		})
	}
}

func TestTracker_NilSink(t *testing.T) {
	tr := Start(nil, 3)
	tr.Tick()
	tr.Done()
	assert.Equal(t, 1, tr.Count())
}

func TestLogSink(t *testing.T) {
	var lines []string
	original := monitoring.Logf
	defer func() { monitoring.Logf = original }()
	monitoring.SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	s := &LogSink{Label: "blur"}
	s.Begin(100)
	for i := 1; i <= 100; i++ {
		s.Update(i)
	}
	s.End()

	assert.Equal(t, "blur: started (100 steps)", lines[0])
	assert.Equal(t, "blur: 10%", lines[1])
	assert.Equal(t, "blur: 100%", lines[len(lines)-2])
	assert.Equal(t, "blur: done", lines[len(lines)-1])
	assert.Len(t, lines, 12)
}
