// Package dispatch fans one query out across an ordered set of
// network elements and assembles the labelled result mapping.
package dispatch

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nanoncore/nano-mml/session"
	"github.com/nanoncore/nano-mml/transport"
	"github.com/nanoncore/nano-mml/types"
)

// Dispatcher runs one query against each NE in turn through the
// management frontend. Endpoints are processed strictly sequentially;
// each gets a fresh single-use session. The first failure aborts the
// remaining endpoints and discards everything collected so far.
type Dispatcher struct {
	// Gateway is the host:port of the management frontend
	Gateway string

	// Dialer opens the transport to the gateway
	Dialer transport.Dialer

	// Credentials authenticate each session
	Credentials types.Credentials

	// Timeout bounds connect and every read
	Timeout time.Duration

	log zerolog.Logger
}

// New returns a Dispatcher with a no-op logger.
func New(gateway string, dialer transport.Dialer, creds types.Credentials, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		Gateway:     gateway,
		Dialer:      dialer,
		Credentials: creds,
		Timeout:     timeout,
		log:         zerolog.Nop(),
	}
}

// WithLogger attaches a logger and returns the dispatcher.
func (d *Dispatcher) WithLogger(log zerolog.Logger) *Dispatcher {
	d.log = log
	return d
}

// RawResult is the raw response text collected for one endpoint.
type RawResult struct {
	Label    string
	Endpoint types.NEEndpoint
	Output   string
}

// Label formats the result key for one endpoint.
func Label(ep types.NEEndpoint) string {
	return fmt.Sprintf("%s (%s)", ep.Name, ep.Address)
}

// Run executes spec against every endpoint in order and returns the
// raw output per endpoint. On failure it returns a DispatchError
// naming the failing endpoint; completed results are discarded.
func (d *Dispatcher) Run(endpoints []types.NEEndpoint, spec types.QuerySpec) ([]RawResult, error) {
	results := make([]RawResult, 0, len(endpoints))
	for _, ep := range endpoints {
		label := Label(ep)
		d.log.Debug().Str("ne", ep.Name).Str("address", ep.Address).Msg("querying element")

		output, err := d.queryOne(ep, spec)
		if err != nil {
			d.log.Warn().Str("ne", ep.Name).Err(err).Msg("query failed, aborting run")
			return nil, &types.DispatchError{Label: label, Err: err}
		}
		results = append(results, RawResult{Label: label, Endpoint: ep, Output: output})
	}
	return results, nil
}

// queryOne runs the full authenticate→register→query sequence for one
// endpoint on a fresh session. The session is torn down on every exit
// path.
func (d *Dispatcher) queryOne(ep types.NEEndpoint, spec types.QuerySpec) (string, error) {
	s, err := session.Open(d.Dialer, d.Gateway, d.Timeout)
	if err != nil {
		return "", err
	}
	defer s.Close()

	if _, err := s.Login(d.Credentials); err != nil {
		return "", err
	}
	if _, err := s.RegisterElement(ep.Address); err != nil {
		return "", err
	}
	if _, err := s.RegisterContext(spec.VNFCRole); err != nil {
		return "", err
	}
	return s.Execute(spec.Command)
}
