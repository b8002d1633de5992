package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/modelmora/modelmora/pkg/domain"
	"github.com/modelmora/modelmora/pkg/utils/try"
)

func checksumOf(seed string) domain.Checksum {
	hex := strings.Repeat("0123456789abcdef", 4)
	return domain.Checksum("sha256:" + seed + hex[len(seed):])
}

func validVersionParam(t *testing.T, value string) domain.ModelVersionParam {
	t.Helper()
	return domain.ModelVersionParam{
		ModelId:          try.To(domain.ParseModelId("openai/gpt-4")).OrFatal(t),
		Value:            value,
		Checksum:         checksumOf("aa"),
		ArtifactURI:      "s3://models/openai/gpt-4/" + value + "/",
		Resources:        domain.ResourceRequirements{MemoryMB: 16384, CPUThreads: 4},
		Framework:        domain.FrameworkPyTorch,
		FrameworkVersion: "2.4.1",
		Metadata:         map[string]any{"license": "mit"},
	}
}

func TestModelVersionParam_Validate(t *testing.T) {

	theory := func(when domain.ModelVersionParam, then error) func(*testing.T) {
		return func(t *testing.T) {
			actual, err := when.Validate()
			if !errors.Is(err, then) {
				t.Fatalf(
					"error is not expected type (actual, expected) = (%+v, %+v)",
					err, then,
				)
			}
			if then != nil {
				return
			}

			if actual.Id() == "" {
				t.Error("a validated version should get a generated id")
			}
			if actual.ModelId() != when.ModelId ||
				actual.Value() != when.Value ||
				actual.Checksum() != when.Checksum ||
				actual.ArtifactURI() != when.ArtifactURI ||
				actual.Resources() != when.Resources ||
				actual.Framework() != when.Framework ||
				actual.FrameworkVersion() != when.FrameworkVersion {
				t.Errorf("fields do not match the param: %+v", actual)
			}
			if actual.Revision() != 1 {
				t.Errorf("a fresh version should be at revision 1: %d", actual.Revision())
			}
		}
	}

	t.Run("when it is passed a semantic version, it creates ModelVersion", theory(
		validVersionParam(t, "v1.2.0"), nil,
	))
	t.Run("when it is passed a branch name, it creates ModelVersion", theory(
		validVersionParam(t, "main"), nil,
	))
	t.Run("when the model id is zero, it rejects", theory(
		func() domain.ModelVersionParam {
			p := validVersionParam(t, "v1.0.0")
			p.ModelId = domain.ModelId{}
			return p
		}(),
		domain.ErrVersionBelongsToNoModel,
	))
	t.Run("when the version string has illegal characters, it rejects", theory(
		validVersionParam(t, "v1.0.0 beta"), domain.ErrInvalidVersionValue,
	))
	t.Run("when the version string is too long, it rejects", theory(
		validVersionParam(t, strings.Repeat("a", 101)), domain.ErrInvalidVersionValue,
	))
	t.Run("when the checksum is malformed, it rejects", theory(
		func() domain.ModelVersionParam {
			p := validVersionParam(t, "v1.0.0")
			p.Checksum = "md5:abc"
			return p
		}(),
		domain.ErrInvalidChecksum,
	))
	t.Run("when the artifact uri has no scheme, it rejects", theory(
		func() domain.ModelVersionParam {
			p := validVersionParam(t, "v1.0.0")
			p.ArtifactURI = "/models/gpt-4"
			return p
		}(),
		domain.ErrInvalidArtifactURI,
	))
	t.Run("when a resource amount is negative, it rejects", theory(
		func() domain.ModelVersionParam {
			p := validVersionParam(t, "v1.0.0")
			p.Resources.MemoryMB = -1
			return p
		}(),
		domain.ErrNegativeResource,
	))
	t.Run("when the framework is unknown, it rejects", theory(
		func() domain.ModelVersionParam {
			p := validVersionParam(t, "v1.0.0")
			p.Framework = "tensorflow"
			return p
		}(),
		domain.ErrUnknownFramework,
	))
	t.Run("when the framework version is not dotted numeric, it rejects", theory(
		func() domain.ModelVersionParam {
			p := validVersionParam(t, "v1.0.0")
			p.FrameworkVersion = "2.4.1-rc1"
			return p
		}(),
		domain.ErrInvalidFrameworkVersion,
	))
	t.Run("when the framework version is omitted, it accepts", theory(
		func() domain.ModelVersionParam {
			p := validVersionParam(t, "v1.0.0")
			p.FrameworkVersion = ""
			return p
		}(),
		nil,
	))
}

func TestModelVersion_UpdateMetadata(t *testing.T) {
	t.Run("it merges the patch, overwriting on conflict", func(t *testing.T) {
		v := try.To(validVersionParam(t, "v1.0.0").Validate()).OrFatal(t)

		v.UpdateMetadata(map[string]any{"license": "apache-2.0", "author": "openai"})

		md := v.Metadata()
		if md["license"] != "apache-2.0" {
			t.Errorf("license should be overwritten: %+v", md["license"])
		}
		if md["author"] != "openai" {
			t.Errorf("author should be added: %+v", md["author"])
		}
	})

	t.Run("it creates the metadata map when the version has none", func(t *testing.T) {
		p := validVersionParam(t, "v1.0.0")
		p.Metadata = nil
		v := try.To(p.Validate()).OrFatal(t)

		v.UpdateMetadata(map[string]any{"author": "openai"})

		if v.Metadata()["author"] != "openai" {
			t.Errorf("metadata should be created: %+v", v.Metadata())
		}
	})

	t.Run("mutating a Metadata copy does not leak into the version", func(t *testing.T) {
		v := try.To(validVersionParam(t, "v1.0.0").Validate()).OrFatal(t)

		v.Metadata()["license"] = "tampered"

		if v.Metadata()["license"] != "mit" {
			t.Errorf("metadata should be copied out: %+v", v.Metadata())
		}
	})
}

func TestModelVersion_Equal(t *testing.T) {
	t.Run("a version equals itself", func(t *testing.T) {
		v := try.To(validVersionParam(t, "v1.0.0").Validate()).OrFatal(t)
		if !v.Equal(v) {
			t.Error("a version should equal itself")
		}
	})

	t.Run("versions from identical params are not equal (identity differs)", func(t *testing.T) {
		p := validVersionParam(t, "v1.0.0")
		a := try.To(p.Validate()).OrFatal(t)
		b := try.To(p.Validate()).OrFatal(t)
		if a.Equal(b) {
			t.Error("versions with distinct generated ids should not be equal")
		}
	})

	t.Run("nil versions equal each other and nothing else", func(t *testing.T) {
		v := try.To(validVersionParam(t, "v1.0.0").Validate()).OrFatal(t)
		if !(*domain.ModelVersion)(nil).Equal(nil) {
			t.Error("nil should equal nil")
		}
		if v.Equal(nil) || (*domain.ModelVersion)(nil).Equal(v) {
			t.Error("nil should not equal a non-nil version")
		}
	})
}
