package domain

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"regexp"
	"time"
)

var (
	ErrUnknownFramework        = errors.New("unknown framework")
	ErrInvalidVersionValue     = errors.New("invalid version value")
	ErrInvalidFrameworkVersion = errors.New("invalid framework version")
	ErrInvalidArtifactURI      = errors.New("invalid artifact uri")
	ErrVersionBelongsToNoModel = errors.New("model version should reference its model")
)

// Framework is the ML framework a model version is built on.
type Framework string

const (
	FrameworkPyTorch Framework = "pytorch"
)

// AsFramework parses s as Framework.
func AsFramework(s string) (Framework, error) {
	switch f := Framework(s); f {
	case FrameworkPyTorch:
		return f, nil
	default:
		return f, fmt.Errorf("%w: %s", ErrUnknownFramework, s)
	}
}

func (f Framework) String() string {
	return string(f)
}

var (
	// "v{major}.{minor}.{patch}" or a branch-name token.
	versionValuePattern = regexp.MustCompile(`^(v\d+\.\d+\.\d+|[a-zA-Z0-9_\-]+)$`)

	// dotted numeric string, up to 3 segments.
	frameworkVersionPattern = regexp.MustCompile(`^\d+(\.\d+){0,2}$`)
)

const (
	maxVersionValueLength     = 100
	maxFrameworkVersionLength = 50
)

// ModelVersionParam is the mutable input of a new ModelVersion.
//
// Validate it to get the ModelVersion entity, which gets a generated
// identity and is mutable only through its own methods.
type ModelVersionParam struct {
	// identifier of the model this version belongs to (reference, not ownership).
	ModelId ModelId

	// version string: "v{major}.{minor}.{patch}" or a branch name, 100 chars at most.
	Value string

	Checksum Checksum

	// URI where the model artifacts are stored. Immutable once validated.
	ArtifactURI string

	Resources ResourceRequirements

	Framework Framework

	// optional, dotted numeric string like "2.4.1".
	FrameworkVersion string

	// optional free-form metadata.
	Metadata map[string]any
}

// Validate checks p and mints a ModelVersion with a fresh ModelVersionId.
//
// Two ModelVersions validated from identical params never compare Equal,
// since each gets its own generated identity.
func (p ModelVersionParam) Validate() (*ModelVersion, error) {
	if p.ModelId.IsZero() {
		return nil, ErrVersionBelongsToNoModel
	}

	if len(p.Value) > maxVersionValueLength || !versionValuePattern.MatchString(p.Value) {
		return nil, fmt.Errorf(
			`%w: %q should be "v{major}.{minor}.{patch}" or a branch name (%d chars at most)`,
			ErrInvalidVersionValue, p.Value, maxVersionValueLength,
		)
	}

	if _, err := ParseChecksum(p.Checksum.String()); err != nil {
		return nil, err
	}

	if u, err := url.Parse(p.ArtifactURI); err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidArtifactURI, p.ArtifactURI, err)
	} else if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q should have scheme and host", ErrInvalidArtifactURI, p.ArtifactURI)
	}

	if err := p.Resources.Validate(); err != nil {
		return nil, err
	}

	if _, err := AsFramework(p.Framework.String()); err != nil {
		return nil, err
	}

	if p.FrameworkVersion != "" {
		if len(p.FrameworkVersion) > maxFrameworkVersionLength ||
			!frameworkVersionPattern.MatchString(p.FrameworkVersion) {
			return nil, fmt.Errorf(
				"%w: %q should be a dotted numeric string",
				ErrInvalidFrameworkVersion, p.FrameworkVersion,
			)
		}
	}

	now := time.Now().UTC()
	return &ModelVersion{
		id:               NewModelVersionId(),
		modelId:          p.ModelId,
		value:            p.Value,
		checksum:         p.Checksum,
		artifactURI:      p.ArtifactURI,
		resources:        p.Resources,
		framework:        p.Framework,
		frameworkVersion: p.FrameworkVersion,
		metadata:         maps.Clone(p.Metadata),
		createdAt:        now,
		updatedAt:        now,
		revision:         1,
	}, nil
}

// ModelVersion is a concrete, deployable revision of a Model.
//
// Its identity and artifact coordinates are frozen at construction;
// only metadata can change afterwards.
type ModelVersion struct {
	id               ModelVersionId
	modelId          ModelId
	value            string
	checksum         Checksum
	artifactURI      string
	resources        ResourceRequirements
	framework        Framework
	frameworkVersion string
	metadata         map[string]any
	createdAt        time.Time
	updatedAt        time.Time
	revision         int
}

func (v *ModelVersion) Id() ModelVersionId {
	return v.id
}

func (v *ModelVersion) ModelId() ModelId {
	return v.modelId
}

// Value is the version string, like "v1.2.0" or "main".
func (v *ModelVersion) Value() string {
	return v.value
}

func (v *ModelVersion) Checksum() Checksum {
	return v.checksum
}

func (v *ModelVersion) ArtifactURI() string {
	return v.artifactURI
}

func (v *ModelVersion) Resources() ResourceRequirements {
	return v.resources
}

func (v *ModelVersion) Framework() Framework {
	return v.framework
}

// FrameworkVersion is "" when not known.
func (v *ModelVersion) FrameworkVersion() string {
	return v.frameworkVersion
}

// Metadata is a copy of the free-form metadata of this version.
func (v *ModelVersion) Metadata() map[string]any {
	return maps.Clone(v.metadata)
}

func (v *ModelVersion) CreatedAt() time.Time {
	return v.createdAt
}

func (v *ModelVersion) UpdatedAt() time.Time {
	return v.updatedAt
}

// Revision is the optimistic-concurrency revision of this entity.
func (v *ModelVersion) Revision() int {
	return v.revision
}

// UpdateMetadata merges patch into the metadata of this version,
// overwriting values on key conflict. The metadata map is created when the
// version has none yet.
func (v *ModelVersion) UpdateMetadata(patch map[string]any) {
	if v.metadata == nil {
		v.metadata = map[string]any{}
	}
	maps.Copy(v.metadata, patch)
	v.updatedAt = time.Now().UTC()
}

// Equal checks v and o represent the same version with the same content.
//
// Identity takes part in the comparison: versions validated from identical
// params are not Equal since their generated ids differ.
func (v *ModelVersion) Equal(o *ModelVersion) bool {
	if (v == nil) || (o == nil) {
		return (v == nil) && (o == nil)
	}

	return v.id == o.id &&
		v.modelId == o.modelId &&
		v.value == o.value &&
		v.checksum == o.checksum &&
		v.artifactURI == o.artifactURI &&
		v.resources == o.resources &&
		v.framework == o.framework &&
		v.frameworkVersion == o.frameworkVersion &&
		reflect.DeepEqual(v.metadata, o.metadata)
}
