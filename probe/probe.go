// Package probe checks NE reachability over SNMP. It is
// monitoring-only; the MML query path never depends on it.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/gosnmp/gosnmp"
)

const (
	oidSysUpTime = "1.3.6.1.2.1.1.3.0"
	oidSysName   = "1.3.6.1.2.1.1.5.0"
)

// Prober performs SNMP liveness checks against network elements.
type Prober struct {
	Community string
	Port      uint16
	Timeout   time.Duration
}

// New returns a Prober with defaults filled in.
func New(community string, timeout time.Duration) *Prober {
	if community == "" {
		community = "public"
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Prober{Community: community, Port: 161, Timeout: timeout}
}

// Status is the result of one reachability check.
type Status struct {
	Address     string `json:"address"`
	SysName     string `json:"sys_name"`
	UptimeTicks uint64 `json:"uptime_ticks"`
}

// Check queries sysUpTime and sysName from the element at address.
func (p *Prober) Check(ctx context.Context, address string) (*Status, error) {
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}

	client := &gosnmp.GoSNMP{
		Context:   ctx,
		Target:    address,
		Port:      p.Port,
		Community: p.Community,
		Version:   gosnmp.Version2c,
		Timeout:   p.Timeout,
		Retries:   1,
	}

	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect SNMP: %w", err)
	}
	defer client.Conn.Close()

	result, err := client.Get([]string{oidSysUpTime, oidSysName})
	if err != nil {
		return nil, fmt.Errorf("SNMP get failed: %w", err)
	}

	status := &Status{Address: address}
	for _, v := range result.Variables {
		switch v.Name {
		case "." + oidSysUpTime:
			status.UptimeTicks = gosnmp.ToBigInt(v.Value).Uint64()
		case "." + oidSysName:
			if b, ok := v.Value.([]byte); ok {
				status.SysName = string(b)
			}
		}
	}
	return status, nil
}
