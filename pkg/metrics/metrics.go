// Package metrics keeps local time-series counters in a tstorage partition
// under the application workdir.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

// Metric names recorded by the register.
const (
	MetricSaleCount  = "pos_sale_count"
	MetricSaleAmount = "pos_sale_amount"
	MetricSystemCPU  = "system_cpu_percent"
	MetricSystemMem  = "system_mem_percent"
)

var (
	mu      sync.RWMutex
	storage tstorage.Storage
)

// InitMetrics opens the metrics partition under workdir.
func InitMetrics(workdir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(30*24*time.Hour),
	)
	if err != nil {
		return err
	}
	mu.Lock()
	storage = s
	mu.Unlock()
	return nil
}

// Record inserts one data point for the named metric. A no-op before
// InitMetrics, so callers never need to guard.
func Record(name string, value float64) {
	mu.RLock()
	s := storage
	mu.RUnlock()
	if s == nil {
		return
	}
	_ = s.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
		},
	})
}

// Select returns the stored points of a metric in [start, end].
func Select(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	mu.RLock()
	s := storage
	mu.RUnlock()
	if s == nil {
		return nil, nil
	}
	points, err := s.Select(name, nil, start, end)
	if err == tstorage.ErrNoDataPoints {
		return nil, nil
	}
	return points, err
}

// Close flushes and closes the metrics partition.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
