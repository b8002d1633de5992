package domain

import (
	"maps"
	"sort"
	"time"

	"github.com/modelmora/modelmora/pkg/utils/slices"
)

// Event type tags of the catalog events.
const (
	EventModelRegistered   = "ModelRegistered"
	EventModelUnregistered = "ModelUnregistered"
	EventModelVersionAdded = "ModelVersionAdded"
)

// AggregateTypeModel tags events whose aggregate_id is a ModelId.
const AggregateTypeModel = "Model"

// DomainEvent is an immutable fact describing a state transition, emitted
// by the catalog for downstream consumers (messaging, audit).
type DomainEvent struct {
	id            EventId
	eventType     string
	aggregateId   string
	aggregateType string
	payload       map[string]any
	occurredAt    time.Time
	version       int
}

// NewDomainEvent mints an event with a generated EventId, stamped now.
//
// version is the schema version of the payload, not the entity revision.
func NewDomainEvent(
	eventType string,
	aggregateId string,
	aggregateType string,
	payload map[string]any,
	version int,
) DomainEvent {
	return DomainEvent{
		id:            NewEventId(),
		eventType:     eventType,
		aggregateId:   aggregateId,
		aggregateType: aggregateType,
		payload:       maps.Clone(payload),
		occurredAt:    time.Now().UTC(),
		version:       version,
	}
}

func (e DomainEvent) Id() EventId {
	return e.id
}

func (e DomainEvent) EventType() string {
	return e.eventType
}

func (e DomainEvent) AggregateId() string {
	return e.aggregateId
}

func (e DomainEvent) AggregateType() string {
	return e.aggregateType
}

// Payload is a copy of the event-specific data.
func (e DomainEvent) Payload() map[string]any {
	return maps.Clone(e.payload)
}

func (e DomainEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// Version is the schema version of the payload.
func (e DomainEvent) Version() int {
	return e.version
}

// versionIdsOf flattens the version ids of m, sorted for determinism.
func versionIdsOf(m *Model) []string {
	ids := slices.Map(
		slices.KeysOf(m.Versions()),
		ModelVersionId.String,
	)
	sort.Strings(ids)
	return ids
}

// NewModelRegistered describes m having been registered in the catalog.
func NewModelRegistered(m *Model) DomainEvent {
	return NewDomainEvent(
		EventModelRegistered,
		m.Id().String(),
		AggregateTypeModel,
		map[string]any{
			"model_id":  m.Id().String(),
			"task_type": m.TaskType().String(),
			"versions":  versionIdsOf(m),
		},
		1,
	)
}

// NewModelUnregistered describes m having been removed from the catalog.
// m should be the pre-deletion snapshot of the model.
func NewModelUnregistered(m *Model) DomainEvent {
	return NewDomainEvent(
		EventModelUnregistered,
		m.Id().String(),
		AggregateTypeModel,
		map[string]any{
			"model_id":  m.Id().String(),
			"task_type": m.TaskType().String(),
			"versions":  versionIdsOf(m),
		},
		1,
	)
}

// NewModelVersionAdded describes v having been added to m.
func NewModelVersionAdded(m *Model, v *ModelVersion) DomainEvent {
	return NewDomainEvent(
		EventModelVersionAdded,
		m.Id().String(),
		AggregateTypeModel,
		map[string]any{
			"model_id":            m.Id().String(),
			"model_version_id":    v.Id().String(),
			"model_version_value": v.Value(),
		},
		1,
	)
}
