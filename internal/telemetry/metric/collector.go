package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/meshkv/internal/storage/memory"
)

// StatsSource reports backend key counts.
type StatsSource interface {
	Stats() memory.Stats
}

// Collector exports per-keyspace key counts, read from the backend on
// every scrape.
type Collector struct {
	src  StatsSource
	keys *prometheus.Desc
}

// NewCollector creates a collector reading from src.
func NewCollector(src StatsSource) *Collector {
	return &Collector{
		src: src,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Keys stored, by keyspace",
			[]string{"keyspace"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(s.Strings), "string")
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(s.Hashes), "hash")
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(s.Sets), "set")
}
