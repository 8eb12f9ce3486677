package pingpong

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/m-lab/sigping/logging"
	"github.com/m-lab/sigping/metrics"
	"github.com/m-lab/sigping/stats"
)

// Server runs the measuring side of the exchange.
type Server struct {
	config Config
	in     <-chan os.Signal
	send   SendFunc
}

// NewServer returns a Server that waits for notifications on in and
// reaches the client through send.
func NewServer(config Config, in <-chan os.Signal, send SendFunc) *Server {
	return &Server{config: config, in: in, send: send}
}

// Run drives the measurement loop and returns the finalized report.
//
// Run first blocks until the client's initial notification arrives. There
// is no timeout on that wait: only the launcher knows when the client
// should have come up. Each round then performs one send and one wait,
// never two sends without a wait between them, and one received
// notification satisfies exactly one wait. Canceling ctx or failing a send
// aborts the run with an error, and an aborted run never returns a report.
func (s *Server) Run(ctx context.Context) (report *stats.Report, err error) {
	metrics.ActiveRuns.WithLabelValues("server").Inc()
	defer metrics.ActiveRuns.WithLabelValues("server").Dec()
	defer func() {
		metrics.RunsTotal.WithLabelValues("server", resultLabel(err)).Inc()
	}()

	logging.Logger.Info("server: waiting for the initial client notification")
	select {
	case <-s.in:
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "server: canceled before the client arrived")
	}
	logging.Logger.WithField("rounds", s.config.Rounds).Info("server: client is up, measuring")

	acc := stats.New()
	defer func() {
		metrics.RoundsTotal.WithLabelValues("server").Add(float64(acc.Count()))
	}()
	for round := 0; round < s.config.Rounds; round++ {
		start := time.Now()
		if err := s.send(); err != nil {
			metrics.SendErrors.WithLabelValues("server").Inc()
			return nil, errors.Wrapf(err, "server: send failed on round %d", round)
		}
		select {
		case <-s.in:
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "server: canceled on round %d", round)
		}
		acc.Update(time.Since(start))
	}
	logging.Logger.Debug("server: measurement loop done")
	return acc.Finalize(s.config.PayloadSize)
}
