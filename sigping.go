//go:build !windows
// +build !windows

// sigping measures the round-trip latency of the user-defined signals
// exchanged between two cooperating processes in one process group.
//
// The server process owns the clock and the report; the client echoes.
// Both default to group-wide sends, so they find each other without any
// pid plumbing. Start the server first, then the client in the same
// process group:
//
//	./sigping -role server &
//	./sigping -role client &
//	wait
//
// When the run completes, the server prints the results block on stdout
// and, when -datadir or -redisaddr is set, archives the run record. The
// server owns the standard metric and debug ports; the client defaults
// to ephemeral ones so both roles fit on one host.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/m-lab/go/flagx"
	"github.com/m-lab/go/httpx"
	"github.com/m-lab/go/prometheusx"
	"github.com/m-lab/go/rtx"
	"github.com/m-lab/go/warnonerror"

	"github.com/m-lab/sigping/data"
	"github.com/m-lab/sigping/logging"
	"github.com/m-lab/sigping/metrics"
	"github.com/m-lab/sigping/pingpong"
	"github.com/m-lab/sigping/redis"
	"github.com/m-lab/sigping/signalx"
	"github.com/m-lab/sigping/stats"
	"github.com/m-lab/sigping/version"
)

var (
	// Flags that can be passed in on the command line.
	flagRole      = flag.String("role", "server", "The role to play: the server measures, the client echoes")
	flagRounds    = flag.Int("rounds", 1000000, "The number of round trips to drive")
	flagSize      = flag.Int("size", 1, "The nominal payload size in bytes used to scale the data rate")
	flagTarget    = flag.Int("target", 0, "The pid to signal. 0 signals the whole process group")
	flagDataDir   = flag.String("datadir", "", "The directory for archival run records. Empty disables archival")
	flagRedisAddr = flag.String("redisaddr", "", "host:port of a Redis server to publish run records to. Empty disables publishing")
	flagDebugAddr = flag.String("debugaddr", ":9090", "The address of the pprof debug server")

	// Context for the whole program.
	ctx, cancel = context.WithCancel(context.Background())
)

// catchInterrupts cancels the run context when the process receives an
// interrupt or termination signal. The run then stops with an error; an
// interrupted run never reports partial results.
func catchInterrupts() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-c
		logging.Logger.WithField("signal", sig.String()).Warn("Interrupt received, aborting the run")
		cancel()
	}()
}

// startDebugServer serves the pprof endpoints behind the standard access
// log until main exits.
func startDebugServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	srv := &http.Server{
		Addr:    addr,
		Handler: logging.MakeAccessLogHandler(mux),
	}
	rtx.Must(httpx.ListenAndServeAsync(srv), "Could not start the debug server")
	return srv
}

// recordRTT exposes the summary of the finished run on the metrics port.
func recordRTT(report *stats.Report) {
	metrics.RTTSeconds.WithLabelValues("min").Set(report.MinRTT.Seconds())
	metrics.RTTSeconds.WithLabelValues("max").Set(report.MaxRTT.Seconds())
	metrics.RTTSeconds.WithLabelValues("avg").Set(report.AvgRTT.Seconds())
	metrics.RTTSeconds.WithLabelValues("stddev").Set(report.StdDevRTT.Seconds())
}

// archive writes the run record wherever the flags ask for it. Archival
// failures are warnings rather than fatal errors: the results block has
// already been printed, and a run that measured successfully should not
// die on a full disk.
func archive(record *data.Result) {
	if *flagDataDir != "" {
		name, err := data.Save(record, *flagDataDir)
		if err != nil {
			logging.Logger.WithError(err).Warn("Could not archive the run record")
		} else {
			logging.Logger.WithField("file", name).Info("Wrote the run record")
		}
	}
	if *flagRedisAddr != "" {
		client := redis.NewClient(*flagRedisAddr)
		defer warnonerror.Close(client, "Could not close the Redis client")
		if err := client.PublishResult(ctx, record); err != nil {
			logging.Logger.WithError(err).Warn("Could not publish the run record")
		}
	}
}

func main() {
	flag.Parse()
	rtx.Must(flagx.ArgsFromEnv(flag.CommandLine), "Could not get args from the environment")

	role, err := signalx.ParseRole(*flagRole)
	rtx.Must(err, "Could not parse -role")
	config := pingpong.Config{
		Rounds:      *flagRounds,
		PayloadSize: *flagSize,
		Target:      *flagTarget,
	}
	rtx.Must(config.Validate(), "Invalid configuration")

	// Both roles usually share a host, and only one process can own the
	// fixed metric and debug ports. The client moves to ephemeral ports
	// unless the operator picked addresses explicitly.
	if role == signalx.RoleClient {
		picked := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { picked[f.Name] = true })
		if !picked["prometheusx.listen-address"] {
			rtx.Must(flag.Set("prometheusx.listen-address", ":0"), "Could not reassign the metric server port")
		}
		if !picked["debugaddr"] {
			*flagDebugAddr = ":0"
		}
	}

	catchInterrupts()
	defer cancel()

	promSrv := prometheusx.MustServeMetrics()
	defer warnonerror.Close(promSrv, "Could not close the metrics server")
	debugSrv := startDebugServer(*flagDebugAddr)
	defer warnonerror.Close(debugSrv, "Could not close the debug server")

	// The dispositions must be in place before the peer can send anything,
	// which is why the server is always started first.
	in, err := signalx.Configure(role)
	rtx.Must(err, "Could not configure the signal dispositions")
	send := func() error { return signalx.Send(config.Target, role.Outbound()) }

	startTime := time.Now().UTC()
	if role == signalx.RoleClient {
		client := pingpong.NewClient(config, in, send)
		rtx.Must(client.Run(ctx), "The run failed")
		return
	}

	server := pingpong.NewServer(config, in, send)
	report, err := server.Run(ctx)
	rtx.Must(err, "The run failed")
	recordRTT(report)
	fmt.Println(report)

	if *flagDataDir != "" || *flagRedisAddr != "" {
		archive(&data.Result{
			GitShortCommit: prometheusx.GitShortCommit,
			Version:        version.Version,
			SchemaVersion:  data.CurrentSchemaVersion,
			UUID:           uuid.New().String(),
			Role:           string(role),
			Target:         config.Target,
			CommandLine:    strings.Join(os.Args, " "),
			StartTime:      startTime,
			EndTime:        time.Now().UTC(),
			Report:         report,
		})
	}
}
