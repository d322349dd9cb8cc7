// Package telemetry records training-run diagnostics as CSV files.
package telemetry

import (
	"os"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// BatchRecord is one row of training output: a batch index and its
// quadratic cost.
type BatchRecord struct {
	Batch int     `csv:"batch"`
	Cost  float64 `csv:"cost"`
}

// Collector accumulates batch results in memory until Flush writes them
// out. It is not safe for concurrent use; training reports batches
// sequentially.
type Collector struct {
	records []BatchRecord
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return new(Collector)
}

// Add appends one batch result.
func (c *Collector) Add(batch int, cost float64) {
	c.records = append(c.records, BatchRecord{Batch: batch, Cost: cost})
}

// Records returns a copy of the collected rows.
func (c *Collector) Records() []BatchRecord {
	rs := make([]BatchRecord, len(c.records))
	copy(rs, c.records)
	return rs
}

// Flush writes every collected record to a CSV file at path, header
// included, and clears the Collector.
func (c *Collector) Flush(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "can't write telemetry, couldn't create %s", path)
	}
	defer f.Close()

	if err := gocsv.Marshal(c.records, f); err != nil {
		return errors.Wrapf(err, "can't write telemetry to %s", path)
	}

	c.records = c.records[:0]
	return nil
}
