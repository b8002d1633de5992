package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/modelmora/modelmora/pkg/domain"
	"github.com/modelmora/modelmora/pkg/manifest"
	"github.com/modelmora/modelmora/pkg/utils/pointer"
)

// pins accumulates repeated -pin flags, each "org/repo=version".
type pins map[string]string

func (p pins) String() string {
	entries := make([]string, 0, len(p))
	for id, version := range p {
		entries = append(entries, id+"="+version)
	}
	return strings.Join(entries, ",")
}

func (p pins) Set(value string) error {
	id, version, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf(`should be "org/repo=version": %q`, value)
	}
	p[id] = version
	return nil
}

func main() {

	registryPath := flag.String("registry", "", "model registry file to lock")
	outPath := flag.String("out", "", "output lock file. stdout when omitted")
	name := flag.String("name", "", "name of the lock")
	description := flag.String("description", "", "what this lock is for")
	environment := flag.String("environment", "", "target environment, like production or staging")
	pinned := pins{}
	flag.Var(pinned, "pin", `pin a model to an exact version, as "org/repo=version". repeatable. unpinned models take their latest version`)
	flag.Parse()

	if *registryPath == "" {
		flag.Usage()
		log.Fatal("-registry is required")
	}
	if *name == "" {
		log.Fatal("-name is required")
	}
	if *description == "" {
		log.Fatal("-description is required")
	}

	catalog, err := manifest.Load(*registryPath)
	if err != nil {
		log.Fatalf("can not load model registry: %s", err)
	}

	var env *string
	if *environment != "" {
		env = pointer.Ref(*environment)
	}

	lock, err := domain.ModelLockParam{
		Name:        *name,
		Description: *description,
		Environment: env,
	}.Validate()
	if err != nil {
		log.Fatalf("can not create lock: %s", err)
	}

	models := catalog.ListModels(nil)

	for id := range pinned {
		if _, err := domain.ParseModelId(id); err != nil {
			log.Fatalf("bad -pin target %q: %s", id, err)
		}
		found := false
		for _, m := range models {
			if m.Id().String() == id {
				found = true
				break
			}
		}
		if !found {
			log.Fatalf("-pin target %q is not in the registry", id)
		}
	}

	for _, m := range models {
		v, err := resolve(m, pinned)
		if err != nil {
			log.Fatalf("can not resolve version for %s: %s", m.Id(), err)
		}

		entry, err := domain.LockedModelEntryParam{
			ModelId:      m.Id(),
			ModelVersion: v.Value(),
			Checksum:     v.Checksum(),
			ArtifactURI:  v.ArtifactURI(),
			Resources:    v.Resources(),
		}.Validate()
		if err != nil {
			log.Fatalf("can not pin %s: %s", m.Id(), err)
		}
		lock.AddLockedModel(entry)

		log.Printf("pinned %s = %s (%s)", m.Id(), v.Value(), v.Checksum())
	}

	dump, err := lock.DumpYAML()
	if err != nil {
		log.Fatalf("can not serialize lock: %s", err)
	}

	if *outPath == "" {
		fmt.Print(dump)
		return
	}
	if err := os.WriteFile(*outPath, []byte(dump), 0644); err != nil {
		log.Fatalf("can not write %s: %s", *outPath, err)
	}
	log.Printf("wrote %s (%d models)", *outPath, len(lock.LockedModels()))
}

// resolve picks the version to pin: the one named by -pin when given,
// the latest semantic version otherwise.
func resolve(m *domain.Model, pinned pins) (*domain.ModelVersion, error) {
	if want, ok := pinned[m.Id().String()]; ok {
		return m.VersionBySemantic(want)
	}
	return m.LatestVersion()
}
