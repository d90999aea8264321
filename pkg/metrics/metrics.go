// Package metrics collects ledger and account counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LedgerRecorder is what the services depend on; nil-safe implementations
// let tests skip metrics entirely.
type LedgerRecorder interface {
	ShiftAdded()
	ShiftRejected(reason string)
	ShiftsOverwritten(n int)
	ShiftDeleted()
	Login(success bool)
}

// Collector is the Prometheus-backed LedgerRecorder.
type Collector struct {
	added       prometheus.Counter
	rejected    *prometheus.CounterVec
	overwritten prometheus.Counter
	deleted     prometheus.Counter
	logins      *prometheus.CounterVec
}

// NewCollector registers the collector's metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		added: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shiftbook_shifts_added_total",
			Help: "Shifts written to the ledger.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftbook_shifts_rejected_total",
			Help: "Shift requests rejected by the ledger.",
		}, []string{"reason"}),
		overwritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shiftbook_shifts_overwritten_total",
			Help: "Existing shifts invalidated by an overwriting insert.",
		}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shiftbook_shifts_deleted_total",
			Help: "Shift delete requests.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftbook_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(c.added, c.rejected, c.overwritten, c.deleted, c.logins)
	return c
}

func (c *Collector) ShiftAdded() {
	if c == nil {
		return
	}
	c.added.Inc()
}

func (c *Collector) ShiftRejected(reason string) {
	if c == nil {
		return
	}
	c.rejected.WithLabelValues(reason).Inc()
}

func (c *Collector) ShiftsOverwritten(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.overwritten.Add(float64(n))
}

func (c *Collector) ShiftDeleted() {
	if c == nil {
		return
	}
	c.deleted.Inc()
}

func (c *Collector) Login(success bool) {
	if c == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop records nothing.
type Nop struct{}

func (Nop) ShiftAdded()           {}
func (Nop) ShiftRejected(string)  {}
func (Nop) ShiftsOverwritten(int) {}
func (Nop) ShiftDeleted()         {}
func (Nop) Login(bool)            {}
