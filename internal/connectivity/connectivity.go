// Package connectivity decides whether weather should come from the network or the store.
package connectivity

import (
	"context"
	"net"
	"time"

	"github.com/fakhrymubarak/weather-forecast/internal/config"
)

type Provider interface {
	IsNetworkAvailable(ctx context.Context) bool
}

// Static reports a fixed answer. Static(false) forces offline reads.
type Static bool

func (s Static) IsNetworkAvailable(context.Context) bool {
	return bool(s)
}

// DialProvider treats the network as available when a TCP connection to Address succeeds
// within Timeout.
type DialProvider struct {
	Address string
	Timeout time.Duration
}

func NewDialProviderFromConfig() *DialProvider {
	address, timeout := config.GetConnectivityProbe()
	return &DialProvider{Address: address, Timeout: timeout}
}

func (p *DialProvider) IsNetworkAvailable(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: p.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.Address)
	if err != nil {
		config.GetLogger().Debugw("network unavailable", "address", p.Address, "error", err)
		return false
	}
	_ = conn.Close()
	return true
}
