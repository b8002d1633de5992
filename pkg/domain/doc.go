package domain

// domain package contains the Domain Model of the ModelMora model registry.
//
// The model of the domain is a catalog of machine-learning models:
//
// - `model`: A registered ML model, identified by "{org}/{repo}". A Model
// owns one or more ModelVersions, each pointing at an immutable artifact
// (checksum + URI) with its resource requirements and framework.
//
// - `catalog`: The ModelCatalog aggregate. It is the consistency boundary of
// the registry: registering/unregistering models and adding versions must go
// through it. Each successful mutation emits exactly one DomainEvent into the
// catalog's outbox; the surrounding service drains the outbox with
// `ReleaseEvents` and forwards the events to messaging/telemetry.
//
// - `lock`: A ModelLock pins exact model versions (version string, checksum,
// artifact URI, resources) for reproducible deployments, like a
// package-lock.json for models. Locks are snapshots: they emit no events.
//
// - `tasktype`: The closed set of task kinds a model can serve (txt2txt,
// txt2img, ...). Each kind carries a fixed input/output Schema which is the
// public contract API consumers must honor.
//
// Identifiers other than ModelId (ModelVersionId, ModelCatalogId,
// ModelLockId, EventId) are UUID strings behind distinct named types, so
// identifiers of different kinds never compare equal.
//
// The package is a synchronous, single-goroutine data structure. Callers
// sharing a catalog across goroutines must serialize access themselves,
// including event draining.
