package domain

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/modelmora/modelmora/pkg/utils/cmp"
)

var (
	ErrNoVersions      = errors.New("model should have at least one version")
	ErrVersionNotFound = errors.New("model version not found")
)

// ModelParam is the mutable input of a new Model.
type ModelParam struct {
	// caller-supplied identity of the model, doubling as its business key.
	Id ModelId

	TaskType TaskType

	// the initial versions. A model is never without versions.
	Versions []*ModelVersion
}

// Validate checks p and builds the Model entity.
func (p ModelParam) Validate() (*Model, error) {
	if p.Id.IsZero() {
		return nil, fmt.Errorf("%w: model id is empty", ErrInvalidModelId)
	}

	if _, err := AsTaskType(p.TaskType.String()); err != nil {
		return nil, err
	}

	if len(p.Versions) == 0 {
		return nil, fmt.Errorf("%w: model %s", ErrNoVersions, p.Id)
	}

	versions := map[ModelVersionId]*ModelVersion{}
	for _, v := range p.Versions {
		versions[v.Id()] = v
	}

	now := time.Now().UTC()
	return &Model{
		id:        p.Id,
		taskType:  p.TaskType,
		versions:  versions,
		createdAt: now,
		updatedAt: now,
		revision:  1,
	}, nil
}

// Model is a registered ML model and the set of its versions.
//
// A Model owns its versions exclusively; versions are never shared across
// models. Mutation of a Model inside a catalog must go through the
// ModelCatalog operations.
type Model struct {
	id        ModelId
	taskType  TaskType
	versions  map[ModelVersionId]*ModelVersion
	createdAt time.Time
	updatedAt time.Time
	revision  int
}

func (m *Model) Id() ModelId {
	return m.id
}

func (m *Model) TaskType() TaskType {
	return m.taskType
}

// Versions is a copy of the version map of this model.
func (m *Model) Versions() map[ModelVersionId]*ModelVersion {
	return maps.Clone(m.versions)
}

func (m *Model) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Model) UpdatedAt() time.Time {
	return m.updatedAt
}

// Revision is the optimistic-concurrency revision of this entity.
func (m *Model) Revision() int {
	return m.revision
}

// AddVersion puts v into the model, overwriting any version with the same
// id. Two versions may carry the same version string.
func (m *Model) AddVersion(v *ModelVersion) {
	m.versions[v.Id()] = v
	m.updatedAt = time.Now().UTC()
}

// semverKey parses a version string into its comparable integer segments.
//
// Version strings not starting with "v" are not semantic: they sort before
// every semantic version (nil key, no error). A "v"-prefixed string with a
// non-numeric segment is a parse error.
func semverKey(value string) ([]int, error) {
	if !strings.HasPrefix(value, "v") {
		return nil, nil
	}

	parts := strings.Split(strings.TrimPrefix(value, "v"), ".")
	key := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q has non-numeric segment %q", ErrInvalidVersionValue, value, p)
		}
		key[i] = n
	}
	return key, nil
}

// lessKey orders semver keys. nil (= non-semantic) is the unique minimum.
func lessKey(a, b []int) bool {
	if a == nil || b == nil {
		return a == nil && b != nil
	}
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// LatestVersion finds the version with the greatest semantic version.
//
// Non-semantic (branch-named) versions are considered the oldest. Ties
// among equal semantic versions are broken arbitrarily.
//
// It returns ErrNoVersions when the model has no versions (unreachable
// through the catalog, whose invariant keeps models non-empty) and
// ErrInvalidVersionValue when a "v"-prefixed version string does not parse
// as "v{major}.{minor}.{patch}".
func (m *Model) LatestVersion() (*ModelVersion, error) {
	if len(m.versions) == 0 {
		return nil, fmt.Errorf("%w: model %s", ErrNoVersions, m.id)
	}

	var latest *ModelVersion
	var latestKey []int
	for _, v := range m.versions {
		key, err := semverKey(v.Value())
		if err != nil {
			return nil, err
		}
		if latest == nil || lessKey(latestKey, key) {
			latest, latestKey = v, key
		}
	}
	return latest, nil
}

// VersionBySemantic finds the version whose version string is exactly value.
func (m *Model) VersionBySemantic(value string) (*ModelVersion, error) {
	for _, v := range m.versions {
		if v.Value() == value {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in model %s", ErrVersionNotFound, value, m.id)
}

// Equal checks m and o represent the same model with the same version set.
func (m *Model) Equal(o *Model) bool {
	if (m == nil) || (o == nil) {
		return (m == nil) && (o == nil)
	}

	return m.id == o.id &&
		m.taskType == o.taskType &&
		cmp.MapEqWith(m.versions, o.versions, (*ModelVersion).Equal)
}

// snapshot is a shallow copy taken before destructive catalog operations,
// so emitted events describe the pre-deletion state.
func (m *Model) snapshot() *Model {
	return &Model{
		id:        m.id,
		taskType:  m.taskType,
		versions:  maps.Clone(m.versions),
		createdAt: m.createdAt,
		updatedAt: m.updatedAt,
		revision:  m.revision,
	}
}
