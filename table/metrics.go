package table

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var tableOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bdtree_table_ops_total",
	Help: "Number of table operations by table, op and result",
}, []string{"table", "op", "result"})

var tableKeys = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "bdtree_table_keys",
	Help: "Number of keys stored in a table",
}, []string{"table"})

var snapshotDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "bdtree_table_snapshot_duration_seconds",
	Help:    "Time spent writing a full table snapshot",
	Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
}, []string{"table"})

func observeOp(table, op string, ok bool) {
	result := "hit"
	if !ok {
		result = "miss"
	}
	tableOps.WithLabelValues(table, op, result).Inc()
}
