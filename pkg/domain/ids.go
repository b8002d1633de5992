package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidModelId    = errors.New("invalid model id")
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

var modelIdPattern = regexp.MustCompile(`^[a-zA-Z0-9-_]+/[a-zA-Z0-9-_]+$`)

const maxModelIdLength = 200

// ModelId identifies a Model in the form "{org}/{repo}".
//
// The zero value is not a valid ModelId. Use ParseModelId.
type ModelId struct {
	org  string
	repo string
}

// ParseModelId validates s as "{org}/{repo}" (alphanumeric, "-" and "_" per
// segment; 200 chars at most) and returns the ModelId it denotes.
func ParseModelId(s string) (ModelId, error) {
	if len(s) > maxModelIdLength {
		return ModelId{}, fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidModelId, s, maxModelIdLength)
	}
	if !modelIdPattern.MatchString(s) {
		return ModelId{}, fmt.Errorf(`%w: %q is not formed "{org}/{repo}"`, ErrInvalidModelId, s)
	}

	org, repo, _ := strings.Cut(s, "/")
	return ModelId{org: org, repo: repo}, nil
}

// Org is the organization segment of the id.
func (m ModelId) Org() string {
	return m.org
}

// Repo is the repository segment of the id.
func (m ModelId) Repo() string {
	return m.repo
}

func (m ModelId) String() string {
	return m.org + "/" + m.repo
}

// IsZero is true for the zero ModelId, which no valid id equals.
func (m ModelId) IsZero() bool {
	return m == ModelId{}
}

// ModelVersionId identifies a ModelVersion. Its value is a UUID string.
type ModelVersionId string

// NewModelVersionId generates a fresh random ModelVersionId.
func NewModelVersionId() ModelVersionId {
	return ModelVersionId(uuid.NewString())
}

// ParseModelVersionId validates s as a UUID string.
func ParseModelVersionId(s string) (ModelVersionId, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("%w: model version id %q: %s", ErrInvalidIdentifier, s, err)
	}
	return ModelVersionId(s), nil
}

func (i ModelVersionId) String() string {
	return string(i)
}

// ModelCatalogId identifies a ModelCatalog. Its value is a UUID string.
type ModelCatalogId string

// NewModelCatalogId generates a fresh random ModelCatalogId.
func NewModelCatalogId() ModelCatalogId {
	return ModelCatalogId(uuid.NewString())
}

// ParseModelCatalogId validates s as a UUID string.
func ParseModelCatalogId(s string) (ModelCatalogId, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("%w: model catalog id %q: %s", ErrInvalidIdentifier, s, err)
	}
	return ModelCatalogId(s), nil
}

func (i ModelCatalogId) String() string {
	return string(i)
}

// ModelLockId identifies a ModelLock. Its value is a UUID string.
type ModelLockId string

// NewModelLockId generates a fresh random ModelLockId.
func NewModelLockId() ModelLockId {
	return ModelLockId(uuid.NewString())
}

// ParseModelLockId validates s as a UUID string.
func ParseModelLockId(s string) (ModelLockId, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("%w: model lock id %q: %s", ErrInvalidIdentifier, s, err)
	}
	return ModelLockId(s), nil
}

func (i ModelLockId) String() string {
	return string(i)
}

// EventId identifies a DomainEvent. Its value is a UUID string.
type EventId string

// NewEventId generates a fresh random EventId.
func NewEventId() EventId {
	return EventId(uuid.NewString())
}

// ParseEventId validates s as a UUID string.
func ParseEventId(s string) (EventId, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("%w: event id %q: %s", ErrInvalidIdentifier, s, err)
	}
	return EventId(s), nil
}

func (i EventId) String() string {
	return string(i)
}
