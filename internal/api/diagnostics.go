package api

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// CheckResult is the outcome of one read-only endpoint probe.
type CheckResult struct {
	Err      error
	Name     string
	Detail   string
	Duration time.Duration
}

// OK reports whether the probe succeeded.
func (r CheckResult) OK() bool {
	return r.Err == nil
}

// CheckAccessEndpoints probes every read-only access-grant endpoint in order
// and reports each result. The by-client and by-network probes use the first
// client and network found, and are skipped when there are none. Probing stops
// early on ErrUnauthenticated since every later call would fail the same way.
func (c *Client) CheckAccessEndpoints(ctx context.Context) []CheckResult {
	var results []CheckResult
	run := func(name string, fn func() (string, error)) bool {
		start := c.now()
		detail, err := fn()
		results = append(results, CheckResult{Name: name, Detail: detail, Err: err, Duration: c.now().Sub(start)})
		return !errors.Is(err, ErrUnauthenticated)
	}

	if !run("list all grants", func() (string, error) {
		grants, err := c.ListAccess(ctx)
		return fmt.Sprintf("%d grants", len(grants)), err
	}) {
		return results
	}

	if !run("grant statistics", func() (string, error) {
		st, err := c.GetAccessStats(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d total, %d limited, %d unlimited", st.TotalAccesses, st.AccessesWithLimits, st.UnlimitedAccesses), nil
	}) {
		return results
	}

	if !run("grants by client", func() (string, error) {
		clients, err := c.ListClients(ctx)
		if err != nil {
			return "", err
		}
		if len(clients) == 0 {
			return "skipped: no clients", nil
		}
		grants, err := c.ListClientAccess(ctx, clients[0].ID)
		return fmt.Sprintf("%s: %d grants", clients[0].Name, len(grants)), err
	}) {
		return results
	}

	run("grants by network", func() (string, error) {
		networks, err := c.ListNetworks(ctx)
		if err != nil {
			return "", err
		}
		if len(networks) == 0 {
			return "skipped: no networks", nil
		}
		grants, err := c.ListNetworkAccess(ctx, networks[0].ID)
		return fmt.Sprintf("%s: %d grants", networks[0].Label(), len(grants)), err
	})

	return results
}
