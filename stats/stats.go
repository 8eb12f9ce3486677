// Package stats accumulates round-trip latency samples in constant space.
package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNoSamples is returned by Finalize when no round trips were recorded.
var ErrNoSamples = errors.New("no round-trip samples recorded")

// Accumulator folds round-trip samples into streaming aggregates. It never
// retains individual samples, so a multi-million round run costs the same
// memory as a single round. The zero value is not usable; call New.
type Accumulator struct {
	start time.Time
	min   time.Duration
	max   time.Duration
	sum   time.Duration
	// sumSq accumulates squared nanoseconds. Squares of plausible
	// round-trip times overflow int64, so this must stay a float64.
	sumSq float64
	count int64
}

// New returns an Accumulator whose total-duration clock starts now. Create
// it when the measurement loop starts, not when the process does, so that
// the peer handshake is excluded from the total.
func New() *Accumulator {
	return &Accumulator{
		start: time.Now(),
		min:   time.Duration(math.MaxInt64),
	}
}

// Update folds one round-trip sample into the aggregates.
func (a *Accumulator) Update(rtt time.Duration) {
	if rtt < a.min {
		a.min = rtt
	}
	if rtt > a.max {
		a.max = rtt
	}
	a.sum += rtt
	ns := float64(rtt.Nanoseconds())
	a.sumSq += ns * ns
	a.count++
}

// Count reports how many samples have been folded in so far.
func (a *Accumulator) Count() int64 {
	return a.count
}

// Finalize computes the derived statistics for a completed run. The total
// duration covers everything since New, including the send/wait overhead
// between samples. Finalize returns ErrNoSamples when no samples were
// recorded, so a zero-round run can never produce a report.
func (a *Accumulator) Finalize(payloadSize int) (*Report, error) {
	if a.count == 0 {
		return nil, ErrNoSamples
	}
	total := time.Since(a.start)
	count := float64(a.count)
	mean := float64(a.sum.Nanoseconds()) / count
	variance := a.sumSq/count - mean*mean
	if variance < 0 {
		// Rounding can push the variance of near-constant samples
		// slightly below zero.
		variance = 0
	}
	secs := total.Seconds()
	return &Report{
		PayloadSize:  payloadSize,
		Rounds:       a.count,
		TotalTime:    total,
		AvgRTT:       time.Duration(mean),
		MinRTT:       a.min,
		MaxRTT:       a.max,
		StdDevRTT:    time.Duration(math.Sqrt(variance)),
		RoundsPerSec: count / secs,
		BytesPerSec:  count * float64(payloadSize) / secs,
	}, nil
}

// Report is the summary of a completed run. Duration fields serialize as
// integer nanoseconds.
type Report struct {
	// PayloadSize is the nominal size in bytes modeled by each round trip.
	// No payload bytes actually move; the size only scales BytesPerSec.
	PayloadSize int
	// Rounds is the number of completed round trips.
	Rounds int64

	TotalTime time.Duration
	AvgRTT    time.Duration
	MinRTT    time.Duration
	MaxRTT    time.Duration
	StdDevRTT time.Duration

	RoundsPerSec float64
	BytesPerSec  float64
}

// String renders the human-readable results block written to stdout when a
// run completes. Per-round statistics print in microseconds and the total
// in milliseconds.
func (r *Report) String() string {
	us := func(d time.Duration) float64 { return float64(d.Nanoseconds()) / 1e3 }
	b := &strings.Builder{}
	fmt.Fprintf(b, "============ RESULTS ================\n")
	fmt.Fprintf(b, "Message size:       %d\n", r.PayloadSize)
	fmt.Fprintf(b, "Message count:      %d\n", r.Rounds)
	fmt.Fprintf(b, "Total duration:     %.3f ms\n", float64(r.TotalTime.Nanoseconds())/1e6)
	fmt.Fprintf(b, "Average duration:   %.3f us\n", us(r.AvgRTT))
	fmt.Fprintf(b, "Minimum duration:   %.3f us\n", us(r.MinRTT))
	fmt.Fprintf(b, "Maximum duration:   %.3f us\n", us(r.MaxRTT))
	fmt.Fprintf(b, "Standard deviation: %.3f us\n", us(r.StdDevRTT))
	fmt.Fprintf(b, "Message rate:       %.0f msg/s\n", r.RoundsPerSec)
	fmt.Fprintf(b, "Data rate:          %.3f MB/s\n", r.BytesPerSec/(1024*1024))
	fmt.Fprintf(b, "=====================================")
	return b.String()
}
