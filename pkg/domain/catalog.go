package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelmora/modelmora/pkg/utils/slices"
)

var ErrInvalidCatalogName = errors.New("invalid catalog name")

const maxCatalogNameLength = 255

// ModelCatalog is the aggregate root of the registry: the sole consistency
// boundary over the Models it owns.
//
// Every mutation (register, unregister, add version) validates its
// precondition, applies, and appends exactly one DomainEvent to the
// catalog's outbox, in mutation order. Events stay in the outbox until the
// caller drains them with ReleaseEvents or discards them with ClearEvents.
//
// A catalog is not safe for concurrent use: callers sharing one across
// goroutines must serialize all operations, event draining included.
type ModelCatalog struct {
	id        ModelCatalogId
	name      string
	models    map[ModelId]*Model
	events    []DomainEvent
	createdAt time.Time
	updatedAt time.Time
}

// NewModelCatalog mints an empty catalog with a generated identity.
// name is 1 to 255 characters.
func NewModelCatalog(name string) (*ModelCatalog, error) {
	if len(name) == 0 || len(name) > maxCatalogNameLength {
		return nil, fmt.Errorf(
			"%w: %q should be 1 to %d characters", ErrInvalidCatalogName, name, maxCatalogNameLength,
		)
	}

	now := time.Now().UTC()
	return &ModelCatalog{
		id:        NewModelCatalogId(),
		name:      name,
		models:    map[ModelId]*Model{},
		createdAt: now,
		updatedAt: now,
	}, nil
}

func (c *ModelCatalog) Id() ModelCatalogId {
	return c.id
}

func (c *ModelCatalog) Name() string {
	return c.name
}

func (c *ModelCatalog) CreatedAt() time.Time {
	return c.createdAt
}

func (c *ModelCatalog) UpdatedAt() time.Time {
	return c.updatedAt
}

// RegisterModel puts m into the catalog.
//
// When a model with the same id is already registered, it fails with
// ErrModelAlreadyExists and the catalog is left unchanged. On success a
// ModelRegistered event is appended to the outbox.
func (c *ModelCatalog) RegisterModel(m *Model) error {
	if _, ok := c.models[m.Id()]; ok {
		return NewModelAlreadyExists(m.Id())
	}

	c.models[m.Id()] = m
	c.touch()

	c.emit(NewModelRegistered(m))
	return nil
}

// UnregisterModel removes the model identified by modelId.
//
// When no such model is registered, it fails with ErrModelNotFound and the
// catalog is left unchanged. On success a ModelUnregistered event carrying
// the pre-deletion state is appended to the outbox.
func (c *ModelCatalog) UnregisterModel(modelId ModelId) error {
	m, ok := c.models[modelId]
	if !ok {
		return NewModelNotFound(modelId)
	}

	old := m.snapshot()
	delete(c.models, modelId)
	c.touch()

	c.emit(NewModelUnregistered(old))
	return nil
}

// AddVersionToModel adds v to the model identified by modelId.
//
// When no such model is registered, it fails with ErrModelNotFound and the
// catalog is left unchanged. On success a ModelVersionAdded event is
// appended to the outbox.
func (c *ModelCatalog) AddVersionToModel(modelId ModelId, v *ModelVersion) error {
	m, ok := c.models[modelId]
	if !ok {
		return NewModelNotFound(modelId)
	}

	m.AddVersion(v)
	c.touch()

	c.emit(NewModelVersionAdded(m, v))
	return nil
}

// GetModel finds the model identified by modelId,
// or fails with ErrModelNotFound.
func (c *ModelCatalog) GetModel(modelId ModelId) (*Model, error) {
	m, ok := c.models[modelId]
	if !ok {
		return nil, NewModelNotFound(modelId)
	}
	return m, nil
}

// ModelFilter narrows ListModels. Zero-valued fields do not filter;
// set fields are AND-combined.
type ModelFilter struct {
	// exact match on the task type value.
	TaskType string

	// true if ANY version of the model is built on this framework.
	Framework string

	// true if ANY version string of the model is >= / <= the bound.
	//
	// The comparison is plain string order, not semantic version order,
	// so "v9.0.0" > "v10.0.0" here. Known limitation, kept for
	// compatibility with existing callers.
	MinVersion string
	MaxVersion string

	// case-insensitive substring match against "{org}/{repo}".
	SearchText string
}

// ListModels lists the models in the catalog matching filter, ordered by
// model id. A nil filter matches everything. It never fails.
func (c *ModelCatalog) ListModels(filter *ModelFilter) []*Model {
	models := slices.Sorted(
		slices.ValuesOf(c.models),
		func(a, b *Model) bool { return a.Id().String() < b.Id().String() },
	)

	if filter == nil {
		return models
	}

	matched := make([]*Model, 0, len(models))
	for _, m := range models {
		if filter.matches(m) {
			matched = append(matched, m)
		}
	}
	return matched
}

func (f *ModelFilter) matches(m *Model) bool {
	if f.TaskType != "" && m.TaskType().String() != f.TaskType {
		return false
	}

	if f.Framework != "" {
		if !anyVersion(m, func(v *ModelVersion) bool { return v.Framework().String() == f.Framework }) {
			return false
		}
	}

	if f.SearchText != "" {
		needle := strings.ToLower(f.SearchText)
		if !strings.Contains(strings.ToLower(m.Id().String()), needle) {
			return false
		}
	}

	if f.MinVersion != "" {
		if !anyVersion(m, func(v *ModelVersion) bool { return v.Value() >= f.MinVersion }) {
			return false
		}
	}

	if f.MaxVersion != "" {
		if !anyVersion(m, func(v *ModelVersion) bool { return v.Value() <= f.MaxVersion }) {
			return false
		}
	}

	return true
}

func anyVersion(m *Model, pred func(*ModelVersion) bool) bool {
	for _, v := range m.Versions() {
		if pred(v) {
			return true
		}
	}
	return false
}

func (c *ModelCatalog) emit(e DomainEvent) {
	c.events = append(c.events, e)
}

func (c *ModelCatalog) touch() {
	c.updatedAt = time.Now().UTC()
}

// Events is a copy of the outbox, oldest first. The outbox is kept.
func (c *ModelCatalog) Events() []DomainEvent {
	return append([]DomainEvent(nil), c.events...)
}

// ReleaseEvents drains the outbox: it returns a copy of the accumulated
// events, oldest first, and clears the outbox.
//
// Call it under the same exclusion as the mutating operations, or events
// may be lost or duplicated.
func (c *ModelCatalog) ReleaseEvents() []DomainEvent {
	released := c.Events()
	c.ClearEvents()
	return released
}

// ClearEvents discards the outbox without draining it.
func (c *ModelCatalog) ClearEvents() {
	c.events = nil
}
