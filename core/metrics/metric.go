package metrics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

var Default = NewMetrics()

type Collectable interface {
	Collect() MetricPoint
	Path() string
}

// Metrics is a small in-process collector. Counters are cheap to bump from
// hot loops; Run samples them periodically into Series.
type Metrics struct {
	mu       sync.Mutex
	metrics  map[string]Collectable
	Series   map[string][]MetricPoint
	Interval time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{
		metrics:  make(map[string]Collectable),
		Series:   make(map[string][]MetricPoint),
		Interval: 5 * time.Second,
	}
}

type MetricPoint struct {
	Time  int64
	Value int64
	Path  string
}

// Run samples every registered metric each Interval until ctx is done,
// then takes a final sample.
func (m *Metrics) Run(ctx context.Context) {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Flush()
			return
		case <-ticker.C:
			m.Flush()
		}
	}
}

func (m *Metrics) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.metrics {
		pt := c.Collect()
		m.Series[pt.Path] = append(m.Series[pt.Path], pt)
	}
}

// Print renders the most recent sample of every series, sorted by path.
func (m *Metrics) Print() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.Series))
	for path := range m.Series {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	builder := strings.Builder{}
	for _, path := range paths {
		series := m.Series[path]
		if len(series) == 0 {
			continue
		}
		pt := series[len(series)-1]
		builder.WriteString(fmt.Sprintf("%s %s %d\n", path, humanize.Comma(pt.Value), pt.Time))
	}
	return builder.String()
}

// NewCounter returns the counter registered under path, creating it on
// first use.
func (m *Metrics) NewCounter(path string) *Counter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.metrics[path].(*Counter); ok {
		return existing
	}
	c := &Counter{path: path}
	m.metrics[path] = c
	return c
}

type Counter struct {
	path  string
	count atomic.Int64
}

func (c *Counter) Inc() {
	c.count.Add(1)
}

func (c *Counter) Add(n int64) {
	c.count.Add(n)
}

func (c *Counter) Value() int64 {
	return c.count.Load()
}

func (c *Counter) Path() string {
	return c.path
}

func (c *Counter) Collect() MetricPoint {
	return MetricPoint{
		Time:  time.Now().Unix(),
		Value: c.count.Load(),
		Path:  c.path,
	}
}
