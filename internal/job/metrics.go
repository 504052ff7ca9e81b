// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package job

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const metricsNamespace = "lakejob"

// Metric names.
const (
	MetricRowsRead          = "rows_read_total"
	MetricRowsWritten       = "rows_written_total"
	MetricPartitionsWritten = "partitions_written_total"
	MetricStepDuration      = "step_duration_seconds"
)

// Metrics collects run metrics on a registry of its own, so several jobs
// in one process do not collide.
type Metrics struct {
	Registry *prometheus.Registry

	RowsRead          prometheus.Counter
	RowsWritten       prometheus.Counter
	PartitionsWritten prometheus.Counter
	StepDuration      *prometheus.HistogramVec
}

// NewMetrics creates and registers the job metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      MetricRowsRead,
			Help:      "Rows read from the source CSV objects.",
		}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      MetricRowsWritten,
			Help:      "Rows committed to the table after precombining.",
		}),
		PartitionsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      MetricPartitionsWritten,
			Help:      "Partition files rewritten.",
		}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      MetricStepDuration,
			Help:      "Duration of each job step.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"step", "status"}),
	}
	m.Registry.MustRegister(m.RowsRead, m.RowsWritten, m.PartitionsWritten, m.StepDuration)
	return m
}

// Push sends the collected metrics to a Pushgateway under the given job
// name, grouped by run id.
func (m *Metrics) Push(url, jobName, runID string) error {
	return push.New(url, metricsNamespace).
		Gatherer(m.Registry).
		Grouping("job_name", jobName).
		Grouping("run_id", runID).
		Push()
}
