// manifest reads model registry files.
//
// A registry file is a YAML document declaring a catalog and the models it
// should start with:
//
//	catalog: production-models
//	models:
//	  - id: openai/gpt-4
//	    task_type: txt2txt
//	    versions:
//	      - version: v1.0.0
//	        checksum: sha256:...
//	        artifact_uri: s3://models/openai/gpt-4/v1.0.0/
//	        framework: pytorch
//	        framework_version: "2.1"
//	        resources:
//	          memory_mb: 16384
//	          ...
//
// All validation funnels through the domain constructors, so a catalog
// built here satisfies the same invariants as one built through the API.
package manifest

import (
	"context"
	"os"

	"github.com/modelmora/modelmora/pkg/domain"
	xe "github.com/modelmora/modelmora/pkg/errors"
	"github.com/modelmora/modelmora/pkg/utils/filewatch"
	"github.com/modelmora/modelmora/pkg/utils/slices"
	"gopkg.in/yaml.v3"
)

// Document is the yaml-facing shape of a registry file.
type Document struct {
	Catalog string       `yaml:"catalog"`
	Models  []ModelEntry `yaml:"models"`
}

type ModelEntry struct {
	Id       string         `yaml:"id"`
	TaskType string         `yaml:"task_type"`
	Versions []VersionEntry `yaml:"versions"`
}

type VersionEntry struct {
	Version          string                      `yaml:"version"`
	Checksum         string                      `yaml:"checksum"`
	ArtifactURI      string                      `yaml:"artifact_uri"`
	Framework        string                      `yaml:"framework"`
	FrameworkVersion string                      `yaml:"framework_version,omitempty"`
	Resources        domain.ResourceRequirements `yaml:"resources"`
	Metadata         map[string]any              `yaml:"metadata,omitempty"`
}

// Load reads the registry file at path and builds the catalog it declares.
func Load(path string) (*domain.ModelCatalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, xe.WrapWithNote("reading model registry", err)
	}
	return Unmarshal(content)
}

// Unmarshal parses content as a registry document and builds its catalog.
func Unmarshal(content []byte) (*domain.ModelCatalog, error) {
	doc := Document{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, xe.WrapWithNote("parsing model registry", err)
	}
	return doc.Build()
}

// Build validates the document through the domain constructors and
// registers every declared model into a new catalog.
//
// The bootstrap registrations are not state transitions worth publishing,
// so the catalog is returned with an empty outbox.
func (d Document) Build() (*domain.ModelCatalog, error) {
	catalog, err := domain.NewModelCatalog(d.Catalog)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	for _, entry := range d.Models {
		model, err := entry.build()
		if err != nil {
			return nil, xe.WrapWithNote("model "+entry.Id, err)
		}
		if err := catalog.RegisterModel(model); err != nil {
			return nil, xe.WrapWithNote("model "+entry.Id, err)
		}
	}

	catalog.ClearEvents()
	return catalog, nil
}

func (e ModelEntry) build() (*domain.Model, error) {
	modelId, err := domain.ParseModelId(e.Id)
	if err != nil {
		return nil, err
	}

	taskType, err := domain.AsTaskType(e.TaskType)
	if err != nil {
		return nil, err
	}

	versions, err := slices.MapUntilError(
		e.Versions,
		func(v VersionEntry) (*domain.ModelVersion, error) {
			return domain.ModelVersionParam{
				ModelId:          modelId,
				Value:            v.Version,
				Checksum:         domain.Checksum(v.Checksum),
				ArtifactURI:      v.ArtifactURI,
				Resources:        v.Resources,
				Framework:        domain.Framework(v.Framework),
				FrameworkVersion: v.FrameworkVersion,
				Metadata:         v.Metadata,
			}.Validate()
		},
	)
	if err != nil {
		return nil, err
	}

	return domain.ModelParam{
		Id:       modelId,
		TaskType: taskType,
		Versions: versions,
	}.Validate()
}

// WatchContext returns a context canceled when the registry file at path is
// modified, so a service holding a catalog built from it can reload.
func WatchContext(ctx context.Context, path string) (context.Context, func(), error) {
	return filewatch.UntilModifyContext(ctx, path)
}
