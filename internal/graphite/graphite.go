// Package graphite forwards benchmark timings to a graphite backend.
// Delivery is best-effort; the pipeline treats every failure here as a
// warning, never as a reason to stop.
package graphite

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	gographite "github.com/marpaia/graphite-golang"
)

// Sender pushes metric values over the graphite line protocol.
type Sender struct {
	g *gographite.Graphite
}

// NewSender connects to a graphite server given as "host:port" (port
// defaults to 2003) and prefixes every metric path with prefix, normally
// "{host}.{branch}".
func NewSender(server, prefix string) (*Sender, error) {
	host, portStr, err := net.SplitHostPort(server)
	if err != nil {
		host = server
		portStr = "2003"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("graphite: bad port in server %q: %w", server, err)
	}

	g, err := gographite.NewGraphiteWithMetricPrefix(host, port, prefix)
	if err != nil {
		return nil, fmt.Errorf("graphite: connect %s: %w", server, err)
	}
	return &Sender{g: g}, nil
}

// SendValue sends one metric sample.
func (s *Sender) SendValue(path string, value float64, ts time.Time) error {
	metric := gographite.NewMetric(path, strconv.FormatFloat(value, 'f', -1, 64), ts.Unix())
	if err := s.g.SendMetric(metric); err != nil {
		return fmt.Errorf("graphite: send %s: %w", path, err)
	}
	return nil
}

// MetricPath derives a graphite path from a benchmark name by turning the
// first underscore into a path separator, so "bench_sum" becomes
// "bench.sum".
func MetricPath(name string) string {
	return strings.Replace(name, "_", ".", 1)
}
