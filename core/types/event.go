package types

// Event is the generic attribute payload emitted by the ledger engines. The
// typed event structs in core/events convert themselves into this shape for
// transport to subscribers.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
