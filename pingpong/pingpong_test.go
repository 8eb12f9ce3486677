package pingpong

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"zero value", Config{}, true},
		{"negative rounds", Config{Rounds: -1, PayloadSize: 1}, true},
		{"zero payload", Config{Rounds: 1}, true},
		{"negative target", Config{Rounds: 1, PayloadSize: 1, Target: -5}, true},
		{"minimal", Config{Rounds: 1, PayloadSize: 1}, false},
		{"explicit target", Config{Rounds: 10, PayloadSize: 64, Target: 1234}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() returned %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

// TestServerClientExchange wires a Server and a Client back to back over
// plain channels and runs a full exchange. The capacity-one channels mirror
// the single pending-notification slot of the real signal path.
func TestServerClientExchange(t *testing.T) {
	serverIn := make(chan os.Signal, 1)
	clientIn := make(chan os.Signal, 1)
	config := Config{Rounds: 100, PayloadSize: 8}

	server := NewServer(config, serverIn, func() error {
		clientIn <- os.Interrupt
		return nil
	})
	client := NewClient(config, clientIn, func() error {
		serverIn <- os.Interrupt
		return nil
	})

	var clientErr error
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		clientErr = client.Run(context.Background())
	}()

	report, err := server.Run(context.Background())
	wg.Wait()
	if err != nil {
		t.Fatalf("server.Run() returned %v, want nil", err)
	}
	if clientErr != nil {
		t.Fatalf("client.Run() returned %v, want nil", clientErr)
	}
	if report.Rounds != 100 {
		t.Errorf("report.Rounds got %d, want 100", report.Rounds)
	}
	if report.PayloadSize != 8 {
		t.Errorf("report.PayloadSize got %d, want 8", report.PayloadSize)
	}
	if report.TotalTime <= 0 {
		t.Errorf("report.TotalTime got %v, want > 0", report.TotalTime)
	}
	if report.MinRTT < 0 || report.MaxRTT < report.MinRTT || report.AvgRTT < report.MinRTT || report.AvgRTT > report.MaxRTT {
		t.Errorf("report ordering broken: min %v avg %v max %v", report.MinRTT, report.AvgRTT, report.MaxRTT)
	}
}

func TestServerCanceledBeforeClientArrives(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	server := NewServer(Config{Rounds: 1, PayloadSize: 1}, make(chan os.Signal), func() error { return nil })
	report, err := server.Run(ctx)
	if report != nil {
		t.Errorf("server.Run() returned a report after cancellation: %+v", report)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("server.Run() returned %v, want context.Canceled", err)
	}
}

func TestServerSendFailureAbortsRun(t *testing.T) {
	boom := errors.New("peer is gone")
	in := make(chan os.Signal, 1)
	in <- os.Interrupt // The client's initial notification.
	server := NewServer(Config{Rounds: 3, PayloadSize: 1}, in, func() error { return boom })
	report, err := server.Run(context.Background())
	if report != nil {
		t.Errorf("server.Run() returned a report after a send failure: %+v", report)
	}
	if !errors.Is(err, boom) {
		t.Errorf("server.Run() returned %v, want it to wrap %v", err, boom)
	}
}

func TestClientInitialSendFailureAbortsRun(t *testing.T) {
	boom := errors.New("peer is gone")
	client := NewClient(Config{Rounds: 3, PayloadSize: 1}, make(chan os.Signal), func() error { return boom })
	if err := client.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("client.Run() returned %v, want it to wrap %v", err, boom)
	}
}

func TestClientEchoesEveryRound(t *testing.T) {
	const rounds = 10
	clientIn := make(chan os.Signal, 1)
	sends := 0
	client := NewClient(Config{Rounds: rounds, PayloadSize: 1}, clientIn, func() error {
		sends++
		return nil
	})
	done := make(chan error)
	go func() { done <- client.Run(context.Background()) }()
	for i := 0; i < rounds; i++ {
		clientIn <- os.Interrupt
	}
	if err := <-done; err != nil {
		t.Fatalf("client.Run() returned %v, want nil", err)
	}
	if sends != rounds+1 {
		t.Errorf("client sent %d notifications, want %d (readiness plus one echo per round)", sends, rounds+1)
	}
}

func TestClientCanceledMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clientIn := make(chan os.Signal, 1)
	client := NewClient(Config{Rounds: 5, PayloadSize: 1}, clientIn, func() error { return nil })
	go func() {
		clientIn <- os.Interrupt
		cancel()
	}()
	if err := client.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("client.Run() returned %v, want context.Canceled", err)
	}
}
