// dispatch routes drained DomainEvents to their subscribers.
//
// A Dispatcher is plain, constructor-injected state owned by the service
// layer: there is no global subscriber registry. The service drains the
// catalog's outbox and feeds the events here; handlers typically publish to
// a broker topic or record telemetry.
package dispatch

import (
	"github.com/modelmora/modelmora/pkg/domain"
)

// Handler consumes one domain event. Handlers of the same event type run in
// registration order, synchronously on the dispatching goroutine.
type Handler func(domain.DomainEvent)

// Dispatcher maps event type tags (domain.EventModelRegistered, ...) to
// ordered handler lists.
//
// Not safe for concurrent Register/DispatchAll; serialize like the catalog
// it drains.
type Dispatcher struct {
	handlers map[string][]Handler
}

// New builds a Dispatcher over the given subscriptions. The map is copied;
// handlers may be nil to start empty.
func New(handlers map[string][]Handler) *Dispatcher {
	hs := map[string][]Handler{}
	for tag, sub := range handlers {
		hs[tag] = append([]Handler(nil), sub...)
	}
	return &Dispatcher{handlers: hs}
}

// Register appends handlers for the event type tag.
func (d *Dispatcher) Register(eventType string, handlers ...Handler) {
	d.handlers[eventType] = append(d.handlers[eventType], handlers...)
}

// DispatchAll feeds each event to the handlers subscribed to its event
// type, in event order. Events without subscribers are dropped silently.
func (d *Dispatcher) DispatchAll(events []domain.DomainEvent) {
	for _, e := range events {
		for _, h := range d.handlers[e.EventType()] {
			h(e)
		}
	}
}
