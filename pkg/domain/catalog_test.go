package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/modelmora/modelmora/pkg/domain"
	"github.com/modelmora/modelmora/pkg/utils/slices"
	"github.com/modelmora/modelmora/pkg/utils/try"
)

func TestNewModelCatalog(t *testing.T) {

	theory := func(when string, then error) func(*testing.T) {
		return func(t *testing.T) {
			actual, err := domain.NewModelCatalog(when)
			if !errors.Is(err, then) {
				t.Fatalf(
					"error is not expected type (actual, expected) = (%+v, %+v)",
					err, then,
				)
			}
			if then != nil {
				return
			}

			if actual.Name() != when {
				t.Errorf("not match: (actual, expected) = (%s, %s)", actual.Name(), when)
			}
			if actual.Id() == "" {
				t.Error("a new catalog should get a generated id")
			}
			if len(actual.Events()) != 0 {
				t.Errorf("a new catalog should have an empty outbox: %+v", actual.Events())
			}
		}
	}

	t.Run("when it is passed a name, it creates an empty catalog", theory(
		"production-models", nil,
	))
	t.Run("when the name is empty, it rejects", theory(
		"", domain.ErrInvalidCatalogName,
	))
	t.Run("when the name is longer than 255 characters, it rejects", theory(
		strings.Repeat("x", 256), domain.ErrInvalidCatalogName,
	))
}

func TestModelCatalog_RegisterModel(t *testing.T) {
	t.Run("it registers a model and emits ModelRegistered", func(t *testing.T) {
		c := try.To(domain.NewModelCatalog("production-models")).OrFatal(t)
		m := modelOf(t, "openai/gpt-4", domain.TaskTxt2Txt, "v1.0.0")

		if err := c.RegisterModel(m); err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}

		got := try.To(c.GetModel(m.Id())).OrFatal(t)
		if !got.Equal(m) {
			t.Errorf("registered model does not round-trip: %+v", got)
		}

		events := c.Events()
		if len(events) != 1 {
			t.Fatalf("outbox should hold one event: %+v", events)
		}
		e := events[0]
		if e.EventType() != domain.EventModelRegistered {
			t.Errorf("event type: (actual, expected) = (%s, %s)", e.EventType(), domain.EventModelRegistered)
		}
		if e.AggregateId() != m.Id().String() || e.AggregateType() != domain.AggregateTypeModel {
			t.Errorf("aggregate ref: %s %s", e.AggregateType(), e.AggregateId())
		}
		if e.Payload()["model_id"] != m.Id().String() {
			t.Errorf("payload model_id: %+v", e.Payload())
		}
		if e.Payload()["task_type"] != m.TaskType().String() {
			t.Errorf("payload task_type: %+v", e.Payload())
		}
	})

	t.Run("it rejects a duplicate id and leaves the catalog unchanged", func(t *testing.T) {
		c := try.To(domain.NewModelCatalog("production-models")).OrFatal(t)
		first := modelOf(t, "openai/gpt-4", domain.TaskTxt2Txt, "v1.0.0")
		second := modelOf(t, "openai/gpt-4", domain.TaskTxt2Txt, "v2.0.0")

		if err := c.RegisterModel(first); err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}

		err := c.RegisterModel(second)
		if !errors.Is(err, domain.ErrModelAlreadyExists) {
			t.Fatalf("error is not ErrModelAlreadyExists: %+v", err)
		}

		got := try.To(c.GetModel(first.Id())).OrFatal(t)
		if !got.Equal(first) {
			t.Errorf("the first registration should survive: %+v", got)
		}
		if len(c.Events()) != 1 {
			t.Errorf("failed registration should emit nothing: %+v", c.Events())
		}
	})
}

func TestModelCatalog_UnregisterModel(t *testing.T) {
	t.Run("it removes the model and emits the pre-deletion state", func(t *testing.T) {
		c := try.To(domain.NewModelCatalog("production-models")).OrFatal(t)
		m := modelOf(t, "openai/gpt-4", domain.TaskTxt2Txt, "v1.0.0", "v2.0.0")
		if err := c.RegisterModel(m); err != nil {
			t.Fatal(err)
		}

		if err := c.UnregisterModel(m.Id()); err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}

		if _, err := c.GetModel(m.Id()); !errors.Is(err, domain.ErrModelNotFound) {
			t.Errorf("the model should be gone: %+v", err)
		}

		events := c.Events()
		if len(events) != 2 {
			t.Fatalf("outbox should hold register + unregister: %+v", events)
		}
		e := events[1]
		if e.EventType() != domain.EventModelUnregistered {
			t.Errorf("event type: %s", e.EventType())
		}
		versions, ok := e.Payload()["versions"].([]string)
		if !ok || len(versions) != 2 {
			t.Errorf("payload should carry the pre-deletion versions: %+v", e.Payload())
		}
	})

	t.Run("it fails with ErrModelNotFound for an absent id", func(t *testing.T) {
		c := try.To(domain.NewModelCatalog("production-models")).OrFatal(t)
		id := try.To(domain.ParseModelId("openai/gpt-4")).OrFatal(t)

		if err := c.UnregisterModel(id); !errors.Is(err, domain.ErrModelNotFound) {
			t.Errorf("error is not ErrModelNotFound: %+v", err)
		}
		if len(c.Events()) != 0 {
			t.Errorf("failed unregistration should emit nothing: %+v", c.Events())
		}
	})
}

func TestModelCatalog_AddVersionToModel(t *testing.T) {
	t.Run("it adds the version and emits ModelVersionAdded", func(t *testing.T) {
		c := try.To(domain.NewModelCatalog("production-models")).OrFatal(t)
		m := modelOf(t, "openai/gpt-4", domain.TaskTxt2Txt, "v1.0.0")
		if err := c.RegisterModel(m); err != nil {
			t.Fatal(err)
		}

		v2 := versionOf(t, m.Id(), "v2.0.0")
		if err := c.AddVersionToModel(m.Id(), v2); err != nil {
			t.Fatalf("unexpected error: %+v", err)
		}

		got := try.To(c.GetModel(m.Id())).OrFatal(t)
		if len(got.Versions()) != 2 {
			t.Errorf("the model should hold 2 versions: %d", len(got.Versions()))
		}

		events := c.Events()
		if len(events) != 2 {
			t.Fatalf("outbox should hold register + version added: %+v", events)
		}
		e := events[1]
		if e.EventType() != domain.EventModelVersionAdded {
			t.Errorf("event type: %s", e.EventType())
		}
		if e.Payload()["model_version_id"] != v2.Id().String() ||
			e.Payload()["model_version_value"] != "v2.0.0" {
			t.Errorf("payload: %+v", e.Payload())
		}
	})

	t.Run("it fails with ErrModelNotFound for an absent id", func(t *testing.T) {
		c := try.To(domain.NewModelCatalog("production-models")).OrFatal(t)
		id := try.To(domain.ParseModelId("openai/gpt-4")).OrFatal(t)

		err := c.AddVersionToModel(id, versionOf(t, id, "v1.0.0"))
		if !errors.Is(err, domain.ErrModelNotFound) {
			t.Errorf("error is not ErrModelNotFound: %+v", err)
		}
	})
}

func TestModelCatalog_Events(t *testing.T) {
	t.Run("ReleaseEvents drains the outbox in mutation order", func(t *testing.T) {
		c := try.To(domain.NewModelCatalog("production-models")).OrFatal(t)
		m := modelOf(t, "openai/gpt-4", domain.TaskTxt2Txt, "v1.0.0")
		if err := c.RegisterModel(m); err != nil {
			t.Fatal(err)
		}
		if err := c.AddVersionToModel(m.Id(), versionOf(t, m.Id(), "v2.0.0")); err != nil {
			t.Fatal(err)
		}
		if err := c.UnregisterModel(m.Id()); err != nil {
			t.Fatal(err)
		}

		released := c.ReleaseEvents()

		actual := slices.Map(released, domain.DomainEvent.EventType)
		expected := []string{
			domain.EventModelRegistered,
			domain.EventModelVersionAdded,
			domain.EventModelUnregistered,
		}
		for i := range expected {
			if i >= len(actual) || actual[i] != expected[i] {
				t.Fatalf("not match:\n- actual   : %+v\n- expected : %+v", actual, expected)
			}
		}

		if len(c.Events()) != 0 {
			t.Errorf("the outbox should be drained: %+v", c.Events())
		}
		if len(c.ReleaseEvents()) != 0 {
			t.Error("a second release should yield nothing")
		}
	})

	t.Run("ClearEvents discards the outbox", func(t *testing.T) {
		c := try.To(domain.NewModelCatalog("production-models")).OrFatal(t)
		m := modelOf(t, "openai/gpt-4", domain.TaskTxt2Txt, "v1.0.0")
		if err := c.RegisterModel(m); err != nil {
			t.Fatal(err)
		}

		c.ClearEvents()

		if len(c.Events()) != 0 {
			t.Errorf("the outbox should be empty: %+v", c.Events())
		}
	})

	t.Run("mutating an Events copy does not leak into the outbox", func(t *testing.T) {
		c := try.To(domain.NewModelCatalog("production-models")).OrFatal(t)
		m := modelOf(t, "openai/gpt-4", domain.TaskTxt2Txt, "v1.0.0")
		if err := c.RegisterModel(m); err != nil {
			t.Fatal(err)
		}

		events := c.Events()
		events[0] = domain.DomainEvent{}

		if c.Events()[0].EventType() != domain.EventModelRegistered {
			t.Error("events should be copied out")
		}
	})
}

func TestModelCatalog_ListModels(t *testing.T) {

	setup := func(t *testing.T) *domain.ModelCatalog {
		t.Helper()
		c := try.To(domain.NewModelCatalog("production-models")).OrFatal(t)
		for _, m := range []*domain.Model{
			modelOf(t, "openai/gpt-4", domain.TaskTxt2Txt, "v1.0.0", "v2.1.0"),
			modelOf(t, "openai/whisper", domain.TaskAudio2Txt, "v3.0.0"),
			modelOf(t, "stability/sdxl", domain.TaskTxt2Img, "main"),
		} {
			if err := c.RegisterModel(m); err != nil {
				t.Fatal(err)
			}
		}
		return c
	}

	idsOf := func(models []*domain.Model) []string {
		return slices.Map(models, func(m *domain.Model) string { return m.Id().String() })
	}

	theory := func(when *domain.ModelFilter, then []string) func(*testing.T) {
		return func(t *testing.T) {
			c := setup(t)

			actual := idsOf(c.ListModels(when))

			if len(actual) != len(then) {
				t.Fatalf("not match:\n- actual   : %+v\n- expected : %+v", actual, then)
			}
			for i := range then {
				if actual[i] != then[i] {
					t.Fatalf("not match:\n- actual   : %+v\n- expected : %+v", actual, then)
				}
			}
		}
	}

	t.Run("a nil filter lists everything, ordered by id", theory(
		nil,
		[]string{"openai/gpt-4", "openai/whisper", "stability/sdxl"},
	))
	t.Run("an empty filter lists everything", theory(
		&domain.ModelFilter{},
		[]string{"openai/gpt-4", "openai/whisper", "stability/sdxl"},
	))
	t.Run("task_type matches exactly", theory(
		&domain.ModelFilter{TaskType: "audio2txt"},
		[]string{"openai/whisper"},
	))
	t.Run("framework matches any version", theory(
		&domain.ModelFilter{Framework: "pytorch"},
		[]string{"openai/gpt-4", "openai/whisper", "stability/sdxl"},
	))
	t.Run("an unknown framework matches nothing", theory(
		&domain.ModelFilter{Framework: "tensorflow"},
		[]string{},
	))
	t.Run("search_text is a case-insensitive substring match", theory(
		&domain.ModelFilter{SearchText: "OPENAI"},
		[]string{"openai/gpt-4", "openai/whisper"},
	))
	t.Run("min_version keeps models with any version at or above the bound", theory(
		&domain.ModelFilter{MinVersion: "v2.0.0"},
		[]string{"openai/gpt-4", "openai/whisper"},
	))
	t.Run("max_version keeps models with any version at or below the bound", theory(
		&domain.ModelFilter{MaxVersion: "v1.0.0"},
		[]string{"openai/gpt-4", "stability/sdxl"},
	))
	t.Run("filters are AND-combined", theory(
		&domain.ModelFilter{TaskType: "txt2txt", SearchText: "whisper"},
		[]string{},
	))
}
