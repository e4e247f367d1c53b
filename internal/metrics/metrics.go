package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studentrecords/internal/service"
)

// Operation results used as the "result" label.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultNoData   = "no_data"
	ResultError    = "error"
)

// Metrics holds the table operation collectors on a private registry.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	students   prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studentrecords_operations_total",
			Help: "Student table operations by name and result.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studentrecords_operation_duration_seconds",
			Help:    "Time spent in student table operations, storage included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		students: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "studentrecords_students",
			Help: "Number of students seen in the table by the last full listing.",
		}),
	}
	m.registry.MustRegister(m.operations, m.duration, m.students)
	return m
}

// Observe records one finished operation and its outcome.
func (m *Metrics) Observe(operation string, start time.Time, err error) {
	m.operations.WithLabelValues(operation, Result(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// SetStudents records the table size.
func (m *Metrics) SetStudents(n int) {
	m.students.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Result maps an operation error to its result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, service.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, service.ErrInvalidInput):
		return ResultInvalid
	case errors.Is(err, service.ErrNoData):
		return ResultNoData
	default:
		return ResultError
	}
}
