// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package engine synchronizes entities with the TMS. Every operation runs
// under the per-document lock: it validates preconditions, calls the TMS,
// classifies the result, applies the status transition, persists it and
// chains the automatic follow-up steps allowed by the entity profile.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mattermost/tmsync/internal/config"
	"github.com/mattermost/tmsync/internal/locale"
	"github.com/mattermost/tmsync/internal/lock"
	"github.com/mattermost/tmsync/internal/profile"
	"github.com/mattermost/tmsync/internal/status"
	"github.com/mattermost/tmsync/internal/tms"
	"github.com/mattermost/tmsync/model"
)

// ErrEntityNotFound is returned when an operation names an unknown entity.
var ErrEntityNotFound = errors.New("entity not found")

// PreconditionError is returned when an operation is not allowed in the
// current state, such as requesting a translation before the source import
// completed.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func preconditionf(format string, args ...interface{}) error {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// IsPrecondition reports whether err is a PreconditionError.
func IsPrecondition(err error) bool {
	var precondition *PreconditionError
	return errors.As(err, &precondition)
}

// DocumentStore persists the lifecycle state of documents.
type DocumentStore interface {
	GetDocument(entityKey string) (*model.Document, error)
	GetDocumentByDocumentID(documentID string) (*model.Document, error)
	GetDocuments() ([]*model.Document, error)
	CompareAndSwapDocumentID(entityKey, expectedOld, newID string) (bool, error)
	UpdateDocument(entityKey string, fn func(*model.Document) error) (*model.Document, error)
}

// EntityStore loads entities and stores their local translations.
type EntityStore interface {
	GetEntity(entityKey string) (*model.Entity, error)
	SaveEntity(entity *model.Entity) error
	SaveTranslation(entityKey, langcode string, content []byte) (string, error)
	GetTranslation(entityKey, langcode string) (*model.LocalTranslation, error)
	DeleteTranslation(entityKey, langcode string) error
}

// Archive keeps a copy of every downloaded translation.
type Archive interface {
	StoreTranslation(ctx context.Context, entityKey, langcode, revision string, content []byte) error
	HasTranslation(ctx context.Context, entityKey, langcode, revision string) (bool, error)
	GetTranslation(ctx context.Context, entityKey, langcode, revision string) ([]byte, error)
}

// Params are the collaborators of an Engine. Archive and Now are optional.
type Params struct {
	Documents DocumentStore
	Entities  EntityStore
	Client    tms.Client
	Locales   *locale.Mapper
	Profiles  *profile.Registry
	Locker    lock.Locker
	Archive   Archive
	Settings  config.Settings
	Now       func() time.Time
	Logger    log.FieldLogger
}

// Engine runs synchronization operations.
type Engine struct {
	documents DocumentStore
	entities  EntityStore
	client    tms.Client
	locales   *locale.Mapper
	profiles  *profile.Registry
	locker    lock.Locker
	archive   Archive
	settings  config.Settings
	now       func() time.Time
	logger    log.FieldLogger
}

// New creates an Engine.
func New(params Params) *Engine {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	settings := params.Settings
	if settings.StaleUploadThreshold <= 0 {
		settings.StaleUploadThreshold = config.DefaultStaleUploadThreshold
	}

	return &Engine{
		documents: params.Documents,
		entities:  params.Entities,
		client:    params.Client,
		locales:   params.Locales,
		profiles:  params.Profiles,
		locker:    params.Locker,
		archive:   params.Archive,
		settings:  settings,
		now:       now,
		logger:    params.Logger,
	}
}

// operation carries the state of one locked engine call.
type operation struct {
	entity  *model.Entity
	profile *model.Profile
	result  *model.OperationResult
	logger  log.FieldLogger
}

func (op *operation) addMessage(format string, args ...interface{}) {
	op.result.AddMessage(fmt.Sprintf(format, args...))
}

func (e *Engine) begin(ctx context.Context, entityKey string) (*operation, func(), error) {
	unlock, err := e.locker.Lock(ctx, entityKey)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to lock %s", entityKey)
	}

	entity, err := e.entities.GetEntity(entityKey)
	if err != nil {
		unlock()
		return nil, nil, errors.Wrapf(err, "failed to load entity %s", entityKey)
	}
	if entity == nil {
		unlock()
		return nil, nil, errors.Wrapf(ErrEntityNotFound, "entity %s", entityKey)
	}

	p, err := e.profiles.Resolve(entity)
	if err != nil {
		unlock()
		return nil, nil, preconditionf("entity %s uses an unknown profile %q", entityKey, entity.ProfileID())
	}

	return &operation{
		entity:  entity,
		profile: p,
		result:  &model.OperationResult{Messages: []string{}},
		logger:  e.logger.WithField("entity", entityKey),
	}, unlock, nil
}

// finish attaches the current document status to the result.
func (e *Engine) finish(op *operation) (*model.OperationResult, error) {
	document, err := e.getDocument(op.entity.EntityKey)
	if err != nil {
		return nil, err
	}
	op.result.Document = e.documentStatus(op.entity, op.profile, document)

	return op.result, nil
}

// getDocument returns the document of an entity or a new untracked one.
func (e *Engine) getDocument(entityKey string) (*model.Document, error) {
	document, err := e.documents.GetDocument(entityKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load document of %s", entityKey)
	}
	if document == nil {
		document = model.NewDocument(entityKey)
	}
	return document, nil
}

func (e *Engine) update(op *operation, fn func(*model.Document)) (*model.Document, error) {
	document, err := e.documents.UpdateDocument(op.entity.EntityKey, func(d *model.Document) error {
		fn(d)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store document of %s", op.entity.EntityKey)
	}
	return document, nil
}

func (e *Engine) nowMillis() int64 {
	return model.Millis(e.now())
}

// target is a target language of an entity with its resolved locale and
// flags.
type target struct {
	langcode string
	locale   string
	flags    model.EffectiveFlags
}

func (e *Engine) resolveTarget(op *operation, langcode string) (target, error) {
	tmsLocale, err := e.locales.ToTMSLocale(langcode)
	if err != nil {
		return target{}, preconditionf("language %s is not configured", langcode)
	}

	return target{
		langcode: langcode,
		locale:   tmsLocale,
		flags:    profile.EffectiveFlags(op.profile, tmsLocale),
	}, nil
}

// targets resolves every target language of the entity. Languages without
// a mapping are reported in the result and skipped.
func (e *Engine) targets(op *operation) []target {
	var targets []target
	for _, langcode := range op.entity.TargetLangcodes() {
		t, err := e.resolveTarget(op, langcode)
		if err != nil {
			op.addMessage("%s.", err.Error())
			continue
		}
		targets = append(targets, t)
	}
	return targets
}

// Status returns the status view of an entity.
func (e *Engine) Status(ctx context.Context, entityKey string) (*model.DocumentStatus, error) {
	entity, err := e.entities.GetEntity(entityKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load entity %s", entityKey)
	}
	if entity == nil {
		return nil, errors.Wrapf(ErrEntityNotFound, "entity %s", entityKey)
	}

	p, err := e.profiles.Resolve(entity)
	if err != nil {
		return nil, preconditionf("entity %s uses an unknown profile %q", entityKey, entity.ProfileID())
	}

	document, err := e.getDocument(entityKey)
	if err != nil {
		return nil, err
	}

	return e.documentStatus(entity, p, document), nil
}

// Statuses returns the status view of every tracked document.
func (e *Engine) Statuses(ctx context.Context) ([]*model.DocumentStatus, error) {
	documents, err := e.documents.GetDocuments()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load documents")
	}

	statuses := make([]*model.DocumentStatus, 0, len(documents))
	for _, document := range documents {
		entity, err := e.entities.GetEntity(document.EntityKey)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load entity %s", document.EntityKey)
		}
		if entity == nil {
			continue
		}
		p, err := e.profiles.Resolve(entity)
		if err != nil {
			continue
		}
		statuses = append(statuses, e.documentStatus(entity, p, document))
	}

	return statuses, nil
}

// documentStatus builds the read view. Disabled languages always read as
// DISABLED and languages never requested read as REQUEST once the source
// is current; neither is persisted.
func (e *Engine) documentStatus(entity *model.Entity, p *model.Profile, document *model.Document) *model.DocumentStatus {
	view := &model.DocumentStatus{
		EntityKey:          entity.EntityKey,
		Label:              entity.Label(),
		DocumentID:         document.DocumentID,
		PreviousDocumentID: document.PreviousDocumentID,
		SourceStatus:       document.SourceStatus,
		Targets:            make(map[string]model.TargetStatus),
	}

	for _, tracked := range document.Targets {
		view.Targets[tracked.Langcode] = tracked.Status
	}

	for _, langcode := range entity.TargetLangcodes() {
		tmsLocale, err := e.locales.ToTMSLocale(langcode)
		if err != nil {
			continue
		}
		if profile.EffectiveFlags(p, tmsLocale).Disabled {
			view.Targets[langcode] = model.TargetStatusDisabled
			continue
		}
		if document.Target(tmsLocale) != nil {
			continue
		}
		if document.SourceStatus == model.SourceStatusCurrent {
			view.Targets[langcode] = model.TargetStatusRequest
		} else {
			view.Targets[langcode] = model.TargetStatusUntracked
		}
	}

	return view
}

// applyDocumentFailure applies the effects a failed call has on the
// document as a whole.
func applyDocumentFailure(d *model.Document, outcome status.Outcome, err error) {
	if outcome.Forgets() {
		d.ClearDocumentID(model.TargetStatusUntracked)
		d.SourceStatus = model.SourceStatusUntracked
		return
	}
	if outcome == status.DocumentLocked {
		if newID, ok := tms.NewDocumentID(err); ok {
			d.DocumentID = newID
		}
	}
	d.SourceStatus = status.SourceAfterTargetCall(d.SourceStatus, outcome)
}
