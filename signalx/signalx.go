//go:build !windows
// +build !windows

// Package signalx installs the process-wide signal dispositions used by the
// ping-pong benchmark and delivers its notification signals.
//
// The protocol uses the two user-defined signals: SIGUSR1 travels from the
// client to the server and SIGUSR2 travels back. Each role ignores the kind
// it sends and receives the kind it waits for on a channel. Sends address
// the whole process group by default, so a sender is struck by its own
// outbound signal; the ignored disposition is what makes that harmless, and
// it must be in place before the first send happens anywhere in the group.
package signalx

import (
	"os"
	"os/signal"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// The two notification kinds of the protocol.
const (
	// ToServer is the kind the client sends and the server waits for.
	ToServer = unix.SIGUSR1
	// ToClient is the kind the server sends and the client waits for.
	ToClient = unix.SIGUSR2
)

// Role selects which side of the exchange a process plays.
type Role string

// The two recognized roles.
const (
	RoleServer Role = "server"
	RoleClient Role = "client"
)

// ParseRole converts a -role flag value into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleServer, RoleClient:
		return Role(s), nil
	}
	return "", errors.Errorf("unknown role %q: must be %q or %q", s, RoleServer, RoleClient)
}

// Inbound returns the kind this role waits for.
func (r Role) Inbound() unix.Signal {
	if r == RoleServer {
		return ToServer
	}
	return ToClient
}

// Outbound returns the kind this role sends.
func (r Role) Outbound() unix.Signal {
	if r == RoleServer {
		return ToClient
	}
	return ToServer
}

// ErrConfigured is returned by Configure when the process dispositions have
// already been installed.
var ErrConfigured = errors.New("signal dispositions are already configured")

var (
	mu         sync.Mutex
	configured bool
)

// Configure installs the dispositions for role and returns the channel on
// which the role's inbound notifications arrive.
//
// The outbound kind is ignored first, before anything can send it, because
// the default action for a user-defined signal terminates the process. The
// inbound kind is then forwarded to the returned channel. The channel holds
// at most one pending notification, matching the kernel's one-bit pending
// state for standard signals: a delivery that finds the slot occupied
// coalesces into it. The strict alternation of the protocol never leaves
// more than one notification outstanding, so coalescing never hides a
// round.
//
// Dispositions are process-wide state, so Configure may be called at most
// once per process. Every later call returns ErrConfigured.
func Configure(role Role) (<-chan os.Signal, error) {
	mu.Lock()
	defer mu.Unlock()
	if configured {
		return nil, ErrConfigured
	}
	switch role {
	case RoleServer, RoleClient:
	default:
		return nil, errors.Errorf("unknown role %q", role)
	}
	signal.Ignore(role.Outbound())
	in := make(chan os.Signal, 1)
	signal.Notify(in, role.Inbound())
	configured = true
	return in, nil
}

// Send delivers kind to target. A target of 0 addresses the caller's whole
// process group, which lets the two roles reach each other without learning
// pids first. An explicit pid makes delivery failures visible instead: the
// kernel reports ESRCH when the peer is gone, while a group send cannot
// fail that way because the sender is itself a live member of the group.
func Send(target int, kind unix.Signal) error {
	return errors.Wrapf(unix.Kill(target, kind), "kill(%d, %s) failed", target, unix.SignalName(kind))
}
