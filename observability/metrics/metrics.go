package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"moduschain/core/events"
)

// Emitter counts every ledger event by type before forwarding it to the next
// emitter in the chain. Wiring it between the engines and the RPC feed gives
// the daemon per-operation counters for free.
type Emitter struct {
	next    events.Emitter
	emitted *prometheus.CounterVec
}

// NewEmitter registers the event counter on the supplied registerer. A nil
// next emitter terminates the chain.
func NewEmitter(reg prometheus.Registerer, next events.Emitter) *Emitter {
	emitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moduschain",
		Name:      "ledger_events_total",
		Help:      "Ledger events emitted, labelled by event type.",
	}, []string{"type"})
	if reg != nil {
		reg.MustRegister(emitted)
	}
	return &Emitter{next: next, emitted: emitted}
}

// Emit implements the events.Emitter interface.
func (e *Emitter) Emit(evt events.Event) {
	if e == nil || evt == nil {
		return
	}
	e.emitted.WithLabelValues(evt.EventType()).Inc()
	if e.next != nil {
		e.next.Emit(evt)
	}
}
