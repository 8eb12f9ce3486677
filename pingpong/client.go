package pingpong

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/m-lab/sigping/logging"
	"github.com/m-lab/sigping/metrics"
)

// Client runs the echoing side of the exchange.
type Client struct {
	config Config
	in     <-chan os.Signal
	send   SendFunc
}

// NewClient returns a Client that waits for notifications on in and
// answers through send.
func NewClient(config Config, in <-chan os.Signal, send SendFunc) *Client {
	return &Client{config: config, in: in, send: send}
}

// Run announces readiness with one unconditional send and then echoes every
// server notification until Rounds echoes have gone out. The server must
// already be waiting when the initial send happens; ordering the two
// launches is the caller's job. Canceling ctx or failing a send aborts the
// run with an error.
func (c *Client) Run(ctx context.Context) (err error) {
	metrics.ActiveRuns.WithLabelValues("client").Inc()
	defer metrics.ActiveRuns.WithLabelValues("client").Dec()
	defer func() {
		metrics.RunsTotal.WithLabelValues("client", resultLabel(err)).Inc()
	}()

	logging.Logger.Info("client: announcing readiness to the server")
	if err := c.send(); err != nil {
		metrics.SendErrors.WithLabelValues("client").Inc()
		return errors.Wrap(err, "client: initial send failed")
	}

	echoed := 0
	defer func() {
		metrics.RoundsTotal.WithLabelValues("client").Add(float64(echoed))
	}()
	logging.Logger.WithField("rounds", c.config.Rounds).Info("client: echoing")
	for ; echoed < c.config.Rounds; echoed++ {
		select {
		case <-c.in:
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "client: canceled on round %d", echoed)
		}
		if err := c.send(); err != nil {
			metrics.SendErrors.WithLabelValues("client").Inc()
			return errors.Wrapf(err, "client: send failed on round %d", echoed)
		}
	}
	logging.Logger.WithField("echoed", echoed).Debug("client: echo loop done")
	return nil
}
