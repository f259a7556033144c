// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package notification applies TMS webhook notifications to the tracked
// documents.
package notification

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mattermost/tmsync/internal/config"
	"github.com/mattermost/tmsync/internal/locale"
	"github.com/mattermost/tmsync/internal/lock"
	"github.com/mattermost/tmsync/internal/profile"
	"github.com/mattermost/tmsync/internal/status"
	"github.com/mattermost/tmsync/model"
)

// ErrNoContent is returned for notifications that do not concern any
// document tracked here. It is not a failure: the document may belong to
// another site or have been removed locally.
var ErrNoContent = errors.New("no content for this notification")

// errDocumentMoved aborts a transition when the document id changed
// between lookup and lock.
var errDocumentMoved = errors.New("document id changed")

// DocumentStore is the part of the document store used by the
// dispatcher.
type DocumentStore interface {
	GetDocumentByDocumentID(documentID string) (*model.Document, error)
	CompareAndSwapDocumentID(entityKey, expectedOld, newID string) (bool, error)
	UpdateDocument(entityKey string, fn func(*model.Document) error) (*model.Document, error)
}

// EntityStore loads the entity a document belongs to.
type EntityStore interface {
	GetEntity(entityKey string) (*model.Entity, error)
}

// Engine runs the follow-up operations a notification may trigger. Each
// call takes the document lock itself.
type Engine interface {
	RequestAutomaticTranslations(ctx context.Context, entityKey string) (*model.OperationResult, []string, error)
	AutoDownload(ctx context.Context, entityKey, langcode string, interim bool) (*model.OperationResult, bool, error)
}

// Params are the collaborators of a Dispatcher.
type Params struct {
	Documents DocumentStore
	Entities  EntityStore
	Engine    Engine
	Locales   *locale.Mapper
	Profiles  *profile.Registry
	Locker    lock.Locker
	Settings  config.Settings
	Logger    log.FieldLogger
}

// Dispatcher routes notifications to status transitions.
type Dispatcher struct {
	documents DocumentStore
	entities  EntityStore
	engine    Engine
	locales   *locale.Mapper
	profiles  *profile.Registry
	locker    lock.Locker
	settings  config.Settings
	logger    log.FieldLogger
}

// New creates a Dispatcher.
func New(params Params) *Dispatcher {
	return &Dispatcher{
		documents: params.Documents,
		entities:  params.Entities,
		engine:    params.Engine,
		locales:   params.Locales,
		profiles:  params.Profiles,
		locker:    params.Locker,
		settings:  params.Settings,
		logger:    params.Logger,
	}
}

// handling carries the state of one dispatched notification.
type handling struct {
	notification *model.Notification
	entity       *model.Entity
	profile      *model.Profile
	response     *model.NotificationResponse
	logger       log.FieldLogger
}

func (h *handling) addMessage(format string, args ...interface{}) {
	h.response.AddMessage(fmt.Sprintf(format, args...))
}

// Dispatch applies a notification. An empty notification is a health
// check and returns a nil response.
func (d *Dispatcher) Dispatch(ctx context.Context, n *model.Notification) (*model.NotificationResponse, error) {
	if n == nil || n.IsEmpty() {
		return nil, nil
	}
	if n.DocumentID == "" {
		return nil, errors.Wrap(ErrNoContent, "notification without document id")
	}
	if d.settings.ProjectID != "" && n.ProjectID != "" && n.ProjectID != d.settings.ProjectID {
		return nil, errors.Wrapf(ErrNoContent, "project %s is not ours", n.ProjectID)
	}

	document, err := d.documents.GetDocumentByDocumentID(n.DocumentID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up document %s", n.DocumentID)
	}
	if document == nil {
		return nil, errors.Wrapf(ErrNoContent, "unknown document %s", n.DocumentID)
	}

	entity, err := d.entities.GetEntity(document.EntityKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load entity %s", document.EntityKey)
	}
	if entity == nil {
		return nil, errors.Wrapf(ErrNoContent, "document %s has no entity", n.DocumentID)
	}

	p, err := d.profiles.Resolve(entity)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve profile of %s", entity.EntityKey)
	}

	h := &handling{
		notification: n,
		entity:       entity,
		profile:      p,
		response:     &model.NotificationResponse{Messages: []string{}},
		logger: d.logger.WithFields(log.Fields{
			"entity":   entity.EntityKey,
			"document": n.DocumentID,
			"type":     n.Type,
		}),
	}
	h.logger.Debug("Dispatching notification")

	switch n.Type {
	case model.NotificationDocumentUploaded, model.NotificationDocumentUpdated:
		err = d.documentUploaded(ctx, h)
	case model.NotificationDocumentCancelled, model.NotificationDocumentArchived, model.NotificationDocumentDeleted:
		err = d.documentRemoved(ctx, h)
	case model.NotificationImportFailure:
		err = d.importFailure(ctx, h)
	case model.NotificationTarget, model.NotificationPhase, model.NotificationDownloadInterim:
		err = d.targetProgress(ctx, h)
	case model.NotificationTargetCancelled, model.NotificationTargetDeleted:
		err = d.targetRemoved(ctx, h)
	default:
		err = errors.Errorf("unknown notification type %q", n.Type)
	}
	if errors.Is(err, errDocumentMoved) {
		return nil, errors.Wrapf(ErrNoContent, "document %s is no longer tracked", n.DocumentID)
	}
	if err != nil {
		return nil, err
	}

	return h.response, nil
}

// transition applies fn to the document under the document lock, provided
// it still holds the notified document id.
func (d *Dispatcher) transition(ctx context.Context, h *handling, fn func(*model.Document)) (*model.Document, error) {
	unlock, err := d.locker.Lock(ctx, h.entity.EntityKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to lock %s", h.entity.EntityKey)
	}
	defer unlock()

	document, err := d.documents.UpdateDocument(h.entity.EntityKey, func(doc *model.Document) error {
		if doc.DocumentID != h.notification.DocumentID {
			return errDocumentMoved
		}
		fn(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return document, nil
}

func (d *Dispatcher) documentUploaded(ctx context.Context, h *handling) error {
	label := h.entity.Label()
	document, err := d.transition(ctx, h, func(doc *model.Document) {
		doc.SourceStatus = status.SourceOnUploadedNotification(doc.SourceStatus, h.notification.Complete)
		if doc.SourceStatus == model.SourceStatusCurrent {
			doc.PreviousDocumentID = ""
		}
	})
	if err != nil {
		return err
	}

	h.response.Result = &model.NotificationResult{RequestTranslations: []string{}}
	if document.SourceStatus != model.SourceStatusCurrent {
		h.addMessage("Document %s is being imported.", label)
		return nil
	}
	h.addMessage("Document %s has been imported.", label)

	result, requested, err := d.engine.RequestAutomaticTranslations(ctx, h.entity.EntityKey)
	if err != nil {
		return errors.Wrap(err, "failed to request automatic translations")
	}
	if requested != nil {
		h.response.Result.RequestTranslations = requested
	}
	h.response.Messages = append(h.response.Messages, result.Messages...)

	return nil
}

func (d *Dispatcher) documentRemoved(ctx context.Context, h *handling) error {
	n := h.notification
	_, err := d.transition(ctx, h, func(doc *model.Document) {
		next, _ := status.SourceOnNotification(doc.SourceStatus, n.Type)
		for _, target := range doc.Targets {
			target.Status = status.TargetOnNotification(target.Status, n.Type)
		}
		doc.DocumentID = ""
		doc.PreviousDocumentID = ""
		doc.SourceStatus = next
	})
	if err != nil {
		return err
	}

	label := h.entity.Label()
	switch n.Type {
	case model.NotificationDocumentCancelled:
		h.addMessage("Document %s has been cancelled in the TMS.", label)
	case model.NotificationDocumentArchived:
		h.addMessage("Document %s has been archived in the TMS.", label)
	case model.NotificationDocumentDeleted:
		if n.DeletedByUserLogin != "" {
			h.addMessage("Document %s has been deleted in the TMS by %s.", label, n.DeletedByUserLogin)
		} else {
			h.addMessage("Document %s has been deleted in the TMS.", label)
		}
	}

	return nil
}

func (d *Dispatcher) importFailure(ctx context.Context, h *handling) error {
	n := h.notification
	unlock, err := d.locker.Lock(ctx, h.entity.EntityKey)
	if err != nil {
		return errors.Wrapf(err, "failed to lock %s", h.entity.EntityKey)
	}
	defer unlock()

	swapped, err := d.documents.CompareAndSwapDocumentID(h.entity.EntityKey, n.DocumentID, n.PrevDocumentID)
	if err != nil {
		return errors.Wrapf(err, "failed to revert document %s", n.DocumentID)
	}
	if !swapped {
		return errDocumentMoved
	}

	_, err = d.documents.UpdateDocument(h.entity.EntityKey, func(doc *model.Document) error {
		doc.SourceStatus, _ = status.SourceOnNotification(doc.SourceStatus, n.Type)
		doc.PreviousDocumentID = ""
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to store document of %s", h.entity.EntityKey)
	}

	previous := n.PrevDocumentID
	if previous == "" {
		previous = "NULL"
	}
	h.addMessage("Document import for entity %s failed. Reverting %s to previous id (%s)", h.entity.Label(), n.DocumentID, previous)
	h.logger.Warnf("Import failed, reverted to previous document id %s", previous)

	return nil
}

// targetLocale resolves the notified locale to the configured langcode and
// the canonical TMS locale target records are keyed by.
func (d *Dispatcher) targetLocale(h *handling) (string, string, error) {
	raw := h.notification.TargetLocale()
	if raw == "" {
		return "", "", errors.Errorf("notification %s requires a locale", h.notification.Type)
	}
	langcode, err := d.locales.ToLangcode(raw)
	if err != nil {
		return "", "", errors.Wrap(ErrNoContent, err.Error())
	}
	tmsLocale, err := d.locales.ToTMSLocale(langcode)
	if err != nil {
		return "", "", errors.Wrap(ErrNoContent, err.Error())
	}
	return langcode, tmsLocale, nil
}

func (d *Dispatcher) targetProgress(ctx context.Context, h *handling) error {
	n := h.notification
	langcode, tmsLocale, err := d.targetLocale(h)
	if err != nil {
		return err
	}
	complete, err := n.FullyComplete()
	if err != nil {
		return errors.Wrap(err, "malformed notification")
	}

	label := h.entity.Label()
	h.response.Result = &model.NotificationResult{RequestTranslations: []string{}}
	flags := profile.EffectiveFlags(h.profile, tmsLocale)
	if flags.Disabled {
		h.addMessage("Translation to %s is disabled for %s, the notification was ignored.", tmsLocale, label)
		return nil
	}

	interim := n.Type == model.NotificationDownloadInterim || !complete
	cancelled := false
	_, err = d.transition(ctx, h, func(doc *model.Document) {
		record := doc.EnsureTarget(tmsLocale, langcode, model.TargetStatusUntracked)
		if record.Status == model.TargetStatusCancelled {
			cancelled = true
			return
		}
		switch {
		case n.Type == model.NotificationDownloadInterim:
		case complete:
			record.Status = status.TargetOnReady(record.Status)
		default:
			record.Status = status.TargetOnProgress(record.Status)
		}
	})
	if err != nil {
		return err
	}
	if cancelled {
		h.addMessage("Translation to %s of %s has been cancelled, the notification was ignored.", tmsLocale, label)
		return nil
	}

	// phase and interim notifications may download under the interim
	// setting alone, target notifications only under auto download
	autoDownload := flags.AutoDownload && !flags.AutoDownloadWorker
	eligible := autoDownload
	if n.Type != model.NotificationTarget {
		eligible = autoDownload || d.settings.EnableDownloadInterim
	}

	switch {
	case interim && !d.settings.EnableDownloadInterim:
		h.addMessage("Interim downloads are disabled, so no download for target %s happened in document %s.", tmsLocale, n.DocumentID)
		return nil
	case !eligible && interim:
		h.addMessage("Automatic downloads are disabled for %s, so no interim download for target %s happened in document %s.", label, tmsLocale, n.DocumentID)
		return nil
	case !eligible:
		h.addMessage("Translation to %s of %s is ready for download.", tmsLocale, label)
		return nil
	}

	result, downloaded, err := d.engine.AutoDownload(ctx, h.entity.EntityKey, langcode, interim)
	if err != nil {
		return errors.Wrapf(err, "failed to download translation to %s", tmsLocale)
	}
	h.response.Result.Download = downloaded
	h.response.Messages = append(h.response.Messages, result.Messages...)

	return nil
}

func (d *Dispatcher) targetRemoved(ctx context.Context, h *handling) error {
	n := h.notification
	langcode, tmsLocale, err := d.targetLocale(h)
	if err != nil {
		return err
	}

	_, err = d.transition(ctx, h, func(doc *model.Document) {
		if n.Type == model.NotificationTargetDeleted && doc.Target(tmsLocale) == nil {
			return
		}
		record := doc.EnsureTarget(tmsLocale, langcode, model.TargetStatusUntracked)
		record.Status = status.TargetOnNotification(record.Status, n.Type)
		if record.Status == model.TargetStatusUntracked {
			record.DownloadedRevision = ""
		}
	})
	if err != nil {
		return err
	}

	if n.Type == model.NotificationTargetCancelled {
		h.addMessage("Translation to %s of %s has been cancelled in the TMS.", tmsLocale, h.entity.Label())
	} else {
		h.addMessage("Translation to %s of %s has been deleted in the TMS.", tmsLocale, h.entity.Label())
	}

	return nil
}
