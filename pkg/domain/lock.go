package domain

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidLockName        = errors.New("invalid lock name")
	ErrInvalidLockDescription = errors.New("invalid lock description")
	ErrInvalidLockEnvironment = errors.New("invalid lock environment")
)

const (
	maxLockNameLength        = 255
	maxLockDescriptionLength = 4096
	maxLockEnvironmentLength = 255
)

// LockedModelEntryParam is the mutable input of a LockedModelEntry.
type LockedModelEntryParam struct {
	ModelId      ModelId
	ModelVersion string
	Checksum     Checksum
	ArtifactURI  string
	Resources    ResourceRequirements
}

// Validate checks p and returns the immutable LockedModelEntry.
func (p LockedModelEntryParam) Validate() (LockedModelEntry, error) {
	if p.ModelId.IsZero() {
		return LockedModelEntry{}, fmt.Errorf("%w: model id is empty", ErrInvalidModelId)
	}

	if len(p.ModelVersion) > maxVersionValueLength || !versionValuePattern.MatchString(p.ModelVersion) {
		return LockedModelEntry{}, fmt.Errorf(
			`%w: %q should be "v{major}.{minor}.{patch}" or a branch name`,
			ErrInvalidVersionValue, p.ModelVersion,
		)
	}

	if _, err := ParseChecksum(p.Checksum.String()); err != nil {
		return LockedModelEntry{}, err
	}

	if p.ArtifactURI == "" {
		return LockedModelEntry{}, fmt.Errorf("%w: empty", ErrInvalidArtifactURI)
	}

	if err := p.Resources.Validate(); err != nil {
		return LockedModelEntry{}, err
	}

	return LockedModelEntry{
		modelId:      p.ModelId,
		modelVersion: p.ModelVersion,
		checksum:     p.Checksum,
		artifactURI:  p.ArtifactURI,
		resources:    p.Resources,
	}, nil
}

// LockedModelEntry pins one model to an exact version, checksum and
// artifact location. It is a value: fully immutable, equal by content (==).
type LockedModelEntry struct {
	modelId      ModelId
	modelVersion string
	checksum     Checksum
	artifactURI  string
	resources    ResourceRequirements
}

func (e LockedModelEntry) ModelId() ModelId {
	return e.modelId
}

func (e LockedModelEntry) ModelVersion() string {
	return e.modelVersion
}

func (e LockedModelEntry) Checksum() Checksum {
	return e.checksum
}

func (e LockedModelEntry) ArtifactURI() string {
	return e.artifactURI
}

func (e LockedModelEntry) Resources() ResourceRequirements {
	return e.resources
}

// ModelLockParam is the mutable input of a new ModelLock.
type ModelLockParam struct {
	// human-readable name, 1 to 255 characters.
	Name string

	// purpose of the lock file, 1 to 4096 characters.
	Description string

	// optional environment label, like "production" or "staging".
	Environment *string

	// initial pinned entries. May be empty.
	Entries []LockedModelEntry
}

// Validate checks p and mints a ModelLock with a fresh ModelLockId.
func (p ModelLockParam) Validate() (*ModelLock, error) {
	if len(p.Name) == 0 || len(p.Name) > maxLockNameLength {
		return nil, fmt.Errorf(
			"%w: %q should be 1 to %d characters", ErrInvalidLockName, p.Name, maxLockNameLength,
		)
	}
	if len(p.Description) == 0 || len(p.Description) > maxLockDescriptionLength {
		return nil, fmt.Errorf(
			"%w: should be 1 to %d characters", ErrInvalidLockDescription, maxLockDescriptionLength,
		)
	}
	if p.Environment != nil {
		if len(*p.Environment) == 0 || len(*p.Environment) > maxLockEnvironmentLength {
			return nil, fmt.Errorf(
				"%w: %q should be 1 to %d characters",
				ErrInvalidLockEnvironment, *p.Environment, maxLockEnvironmentLength,
			)
		}
	}

	locked := map[ModelId]LockedModelEntry{}
	for _, e := range p.Entries {
		locked[e.ModelId()] = e
	}

	var environment *string
	if p.Environment != nil {
		env := *p.Environment
		environment = &env
	}

	now := time.Now().UTC()
	return &ModelLock{
		id:           NewModelLockId(),
		name:         p.Name,
		description:  p.Description,
		environment:  environment,
		lockedModels: locked,
		createdAt:    now,
		updatedAt:    now,
		revision:     1,
	}, nil
}

// ModelLock is a point-in-time pinned deployment manifest: the set of exact
// model versions (with checksums and artifact URIs) a deployment should
// run, analogous to a dependency lock file.
//
// Locks are snapshots, not tracked aggregates: their operations emit no
// events.
type ModelLock struct {
	id           ModelLockId
	name         string
	description  string
	environment  *string
	lockedModels map[ModelId]LockedModelEntry
	createdAt    time.Time
	updatedAt    time.Time
	revision     int
}

func (l *ModelLock) Id() ModelLockId {
	return l.id
}

func (l *ModelLock) Name() string {
	return l.name
}

func (l *ModelLock) Description() string {
	return l.description
}

// Environment is nil when the lock is not bound to an environment.
func (l *ModelLock) Environment() *string {
	if l.environment == nil {
		return nil
	}
	env := *l.environment
	return &env
}

// LockedModels is a copy of the pinned entries, keyed by model id.
func (l *ModelLock) LockedModels() map[ModelId]LockedModelEntry {
	return maps.Clone(l.lockedModels)
}

func (l *ModelLock) CreatedAt() time.Time {
	return l.createdAt
}

func (l *ModelLock) UpdatedAt() time.Time {
	return l.updatedAt
}

// Revision is the optimistic-concurrency revision of this entity.
func (l *ModelLock) Revision() int {
	return l.revision
}

// AddLockedModel pins entry, replacing any entry for the same model id
// (last write wins).
func (l *ModelLock) AddLockedModel(entry LockedModelEntry) {
	l.lockedModels[entry.ModelId()] = entry
	l.updatedAt = time.Now().UTC()
}

// RemoveLockedModel unpins the entry for modelId. Unknown ids are ignored.
func (l *ModelLock) RemoveLockedModel(modelId ModelId) {
	if _, ok := l.lockedModels[modelId]; !ok {
		return
	}
	delete(l.lockedModels, modelId)
	l.updatedAt = time.Now().UTC()
}

// LockedModel finds the pinned entry for modelId.
func (l *ModelLock) LockedModel(modelId ModelId) (LockedModelEntry, bool) {
	e, ok := l.lockedModels[modelId]
	return e, ok
}

type lockedModelEntryDocument struct {
	ModelVersion string               `yaml:"model_version"`
	Checksum     string               `yaml:"checksum"`
	ArtifactURI  string               `yaml:"artifact_uri"`
	Resources    ResourceRequirements `yaml:"resource_requirements"`
}

type modelLockDocument struct {
	Id           string                              `yaml:"id"`
	Name         string                              `yaml:"name"`
	Description  string                              `yaml:"description"`
	Environment  *string                             `yaml:"environment,omitempty"`
	LockedModels map[string]lockedModelEntryDocument `yaml:"locked_models"`
	CreatedAt    time.Time                           `yaml:"created_at"`
	UpdatedAt    time.Time                           `yaml:"updated_at"`
}

// DumpYAML serializes the whole lock, nested entries included, to a YAML
// document for persistence or distribution as a deployment manifest.
//
// Entries are keyed by "{org}/{repo}" and emitted in key order.
func (l *ModelLock) DumpYAML() (string, error) {
	locked := map[string]lockedModelEntryDocument{}
	for id, e := range l.lockedModels {
		locked[id.String()] = lockedModelEntryDocument{
			ModelVersion: e.ModelVersion(),
			Checksum:     e.Checksum().String(),
			ArtifactURI:  e.ArtifactURI(),
			Resources:    e.Resources(),
		}
	}

	doc := modelLockDocument{
		Id:           l.id.String(),
		Name:         l.name,
		Description:  l.description,
		Environment:  l.Environment(),
		LockedModels: locked,
		CreatedAt:    l.createdAt,
		UpdatedAt:    l.updatedAt,
	}

	b, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LockedModelIds lists the pinned model ids, sorted.
func (l *ModelLock) LockedModelIds() []ModelId {
	ids := make([]ModelId, 0, len(l.lockedModels))
	for id := range l.lockedModels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
