// Package health probes the dashboard service endpoints after startup.
package health

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dashboard-system/dashboard-root/internal/logging"
)

// Checker polls fixed local endpoints once after a flat settle delay. Any
// 2xx response is healthy; everything else, including transport errors, is
// not. Results are advisory.
type Checker struct {
	client      *http.Client
	endpoints   []string
	settleDelay time.Duration
}

// Result is one endpoint's probe outcome.
type Result struct {
	Endpoint string
	Healthy  bool
	Err      error
}

func NewChecker(endpoints []string, settleDelay time.Duration) Checker {
	return Checker{
		client:      &http.Client{Timeout: 5 * time.Second},
		endpoints:   endpoints,
		settleDelay: settleDelay,
	}
}

// NewCheckerWithClient allows tests to inject a client against test servers.
func NewCheckerWithClient(client *http.Client, endpoints []string) Checker {
	return Checker{client: client, endpoints: endpoints}
}

// Settle blocks for the configured flat delay before the first probe. Not a
// poll loop: the services get one grace period, then one check each.
func (c Checker) Settle() {
	if c.settleDelay > 0 {
		logger := logging.New("health")
		logger.Info().Dur("delay", c.settleDelay).Msg("waiting for services to settle")
		time.Sleep(c.settleDelay)
	}
}

// Check probes every endpoint once, in order.
func (c Checker) Check() []Result {
	logger := logging.New("health")
	results := make([]Result, 0, len(c.endpoints))
	for _, endpoint := range c.endpoints {
		result := c.probe(endpoint)
		if result.Healthy {
			logger.Info().Str("endpoint", endpoint).Msg("healthy")
		} else {
			logger.Warn().Str("endpoint", endpoint).Err(result.Err).Msg("unhealthy")
		}
		results = append(results, result)
	}
	return results
}

func (c Checker) probe(endpoint string) Result {
	resp, err := c.client.Get(endpoint)
	if err != nil {
		return Result{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{Endpoint: endpoint, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	return Result{Endpoint: endpoint, Healthy: true}
}
