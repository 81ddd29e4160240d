package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resultados posibles de una operación del ledger (label "result").
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultConflict = "conflict"
	ResultTimeout  = "timeout"
	ResultError    = "error"
)

// LedgerMetrics métricas Prometheus de las operaciones del ledger.
// Un *LedgerMetrics nil es válido y no registra nada (útil en tests).
type LedgerMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	rows     *prometheus.HistogramVec
	orphans  prometheus.Counter
}

// NewLedgerMetrics registra las métricas en el registerer indicado.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_operation_duration_seconds",
		Help:    "Duración de las operaciones del ledger en segundos.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_operations_total",
		Help: "Operaciones del ledger por resultado.",
	}, []string{"op", "result"})
	rows := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_balance_rows",
		Help:    "Pares (item, bodega) materializados por consulta de balances.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"op"})
	orphans := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_orphan_references_total",
		Help: "Referencias a items o bodegas inexistentes resueltas con valores Unknown.",
	})
	reg.MustRegister(duration, total, rows, orphans)
	return &LedgerMetrics{duration: duration, total: total, rows: rows, orphans: orphans}
}

// Observe registra duración y resultado de la operación op.
func (m *LedgerMetrics) Observe(op, result string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	op = normalizeLabel(op)
	m.duration.WithLabelValues(op).Observe(d.Seconds())
	m.total.WithLabelValues(op, normalizeLabel(result)).Inc()
}

// ObserveRows registra cuántos balances produjo una consulta.
func (m *LedgerMetrics) ObserveRows(op string, n int) {
	if m == nil || m.rows == nil {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(op)).Observe(float64(n))
}

// AddOrphans suma referencias huérfanas encontradas al enriquecer.
func (m *LedgerMetrics) AddOrphans(n int) {
	if m == nil || m.orphans == nil || n <= 0 {
		return
	}
	m.orphans.Add(float64(n))
}

func normalizeLabel(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
