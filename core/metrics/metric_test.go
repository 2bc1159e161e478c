package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	m := NewMetrics()
	c := m.NewCounter("tree.insert")
	require.Same(t, c, m.NewCounter("tree.insert"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()
	c.Add(500)
	require.Equal(t, int64(8500), c.Value())
	require.Equal(t, "tree.insert", c.Path())

	m.Flush()
	require.Equal(t, "tree.insert 8,500", m.Print()[:len("tree.insert 8,500")])
}

func TestPrintSorted(t *testing.T) {
	m := NewMetrics()
	m.NewCounter("b").Inc()
	m.NewCounter("a").Add(2)
	m.Flush()
	m.Flush()
	require.Len(t, m.Series["a"], 2)

	out := m.Print()
	require.Regexp(t, `^a 2 \d+\nb 1 \d+\n$`, out)
}

func TestRunFlushesOnCancel(t *testing.T) {
	m := NewMetrics()
	m.Interval = time.Hour
	m.NewCounter("x").Inc()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()
	<-done
	require.Len(t, m.Series["x"], 1)
}
