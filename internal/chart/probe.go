package chart

import (
	"context"
	"net"
	"strings"
	"time"
)

// Prober checks whether the chart server can be reached at all
type Prober interface {
	Probe(ctx context.Context, host string, timeout time.Duration) error
}

// ProberFunc adapts a function to the Prober interface
type ProberFunc func(ctx context.Context, host string, timeout time.Duration) error

func (f ProberFunc) Probe(ctx context.Context, host string, timeout time.Duration) error {
	return f(ctx, host, timeout)
}

// TCPProber opens and closes a TCP connection to the server. An ICMP echo
// needs raw sockets, which unprivileged desktop processes rarely have.
type TCPProber struct {
	// DefaultPort is used when host has no port
	DefaultPort string
}

// Probe dials host within timeout
func (p TCPProber) Probe(ctx context.Context, host string, timeout time.Duration) error {
	addr := host
	if !hasPort(host) {
		port := p.DefaultPort
		if port == "" {
			port = "80"
		}
		addr = net.JoinHostPort(strings.Trim(host, "[]"), port)
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return conn.Close()
}

func hasPort(host string) bool {
	_, port, err := net.SplitHostPort(host)
	return err == nil && port != ""
}
