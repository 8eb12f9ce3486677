// Package pingpong drives the strict ping-pong exchange of a benchmark run.
//
// A Server measures: it stamps the clock, notifies the client, waits for
// the echo and folds the elapsed time into an accumulator. A Client echoes:
// it waits and immediately notifies back. Every interval the protocol
// defines is measurable on the server's clock alone, so the client keeps no
// statistics and the two processes never need to agree on a clock.
//
// The package never touches signal plumbing directly. It consumes a
// receive channel and a SendFunc, so the exchange can run over real process
// signals or over plain channels in tests.
package pingpong

import "github.com/pkg/errors"

// Config carries the parameters of one run. Both roles must agree on
// Rounds; the roles exchange nothing besides the notification signals
// themselves, so that agreement has to come from whoever launches them.
type Config struct {
	// Rounds is the number of round trips to drive.
	Rounds int
	// PayloadSize is the nominal bytes-per-round used to scale the data
	// rate in the report. No payload bytes actually move.
	PayloadSize int
	// Target is the pid notifications are sent to. Zero addresses the
	// whole process group. An explicit pid trades the zero-configuration
	// group send for kernel-reported failures when the peer disappears.
	Target int
}

// Validate returns an error when the configuration cannot produce a
// meaningful run.
func (c Config) Validate() error {
	if c.Rounds < 1 {
		return errors.Errorf("rounds must be at least 1, got %d", c.Rounds)
	}
	if c.PayloadSize < 1 {
		return errors.Errorf("payload size must be at least 1 byte, got %d", c.PayloadSize)
	}
	if c.Target < 0 {
		return errors.Errorf("target pid must not be negative, got %d", c.Target)
	}
	return nil
}

// SendFunc delivers one outbound notification to the peer. Implementations
// must be cheap: the server calls it inside the measured loop.
type SendFunc func() error

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "okay"
}
