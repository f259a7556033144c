// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package engine

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mattermost/tmsync/internal/profile"
	"github.com/mattermost/tmsync/internal/status"
	"github.com/mattermost/tmsync/internal/tms"
	"github.com/mattermost/tmsync/model"
)

// documentLevel reports whether a failed target call says the document
// itself is unusable, in which case bulk operations stop.
func documentLevel(outcome status.Outcome) bool {
	switch outcome {
	case status.PaymentRequired, status.DocumentArchived, status.DocumentLocked:
		return true
	}
	return false
}

// trackedTarget builds the target of an existing record, keeping the
// locale it was requested with.
func trackedTarget(op *operation, record *model.TargetRecord) target {
	return target{
		langcode: record.Langcode,
		locale:   record.Locale,
		flags:    profile.EffectiveFlags(op.profile, record.Locale),
	}
}

func sourceReady(op *operation, document *model.Document) error {
	if !document.HasDocumentID() || document.SourceStatus != model.SourceStatusCurrent {
		return preconditionf("the source of %s is not current, translations cannot be requested yet", op.entity.Label())
	}
	return nil
}

// RequestTranslation requests the translation of the entity into one
// language. A cancelled target is recreated.
func (e *Engine) RequestTranslation(ctx context.Context, entityKey, langcode string) (*model.OperationResult, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	t, err := e.resolveTarget(op, langcode)
	if err != nil {
		return nil, err
	}

	_, err = e.requestTarget(ctx, op, t)
	if err != nil {
		return nil, err
	}

	return e.finish(op)
}

// RequestAllTranslations requests every enabled target language of the
// entity. A failure for one language does not stop the others.
func (e *Engine) RequestAllTranslations(ctx context.Context, entityKey string) (*model.OperationResult, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	document, err := e.getDocument(entityKey)
	if err != nil {
		return nil, err
	}
	err = sourceReady(op, document)
	if err != nil {
		return nil, err
	}

	_, err = e.requestAll(ctx, op, false)
	if err != nil {
		return nil, err
	}

	return e.finish(op)
}

// RequestAutomaticTranslations requests every target language whose
// profile requests automatically, once the source is current. It returns
// the langcodes requested successfully.
func (e *Engine) RequestAutomaticTranslations(ctx context.Context, entityKey string) (*model.OperationResult, []string, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	requested, err := e.requestAutomatic(ctx, op)
	if err != nil {
		return nil, nil, err
	}

	result, err := e.finish(op)
	if err != nil {
		return nil, nil, err
	}

	return result, requested, nil
}

func (e *Engine) requestAutomatic(ctx context.Context, op *operation) ([]string, error) {
	document, err := e.getDocument(op.entity.EntityKey)
	if err != nil {
		return nil, err
	}
	if sourceReady(op, document) != nil {
		return []string{}, nil
	}

	return e.requestAll(ctx, op, true)
}

func (e *Engine) requestAll(ctx context.Context, op *operation, automatic bool) ([]string, error) {
	document, err := e.getDocument(op.entity.EntityKey)
	if err != nil {
		return nil, err
	}

	requested := []string{}
	for _, t := range e.targets(op) {
		if t.flags.Disabled {
			continue
		}
		if automatic && !t.flags.AutoRequest {
			continue
		}
		if existing := document.Target(t.locale); existing != nil {
			if automatic && !autoRequestable(existing.Status) {
				continue
			}
			if !status.IsRequestable(existing.Status) {
				op.addMessage("Translation to %s of %s was already requested.", t.langcode, op.entity.Label())
				continue
			}
		}

		outcome, err := e.requestTarget(ctx, op, t)
		if IsPrecondition(err) {
			op.result.AddMessage(err.Error())
			continue
		}
		if err != nil {
			return nil, err
		}
		if outcome == status.Success {
			requested = append(requested, t.langcode)
		}
		if documentLevel(outcome) {
			break
		}
	}

	return requested, nil
}

// autoRequestable excludes cancelled targets, which only a manual request
// may recreate.
func autoRequestable(current model.TargetStatus) bool {
	return current != model.TargetStatusCancelled && status.IsRequestable(current)
}

func (e *Engine) requestTarget(ctx context.Context, op *operation, t target) (status.Outcome, error) {
	label := op.entity.Label()
	if t.flags.Disabled {
		return status.Success, preconditionf("translation to %s is disabled for %s", t.langcode, label)
	}

	document, err := e.getDocument(op.entity.EntityKey)
	if err != nil {
		return status.Success, err
	}
	err = sourceReady(op, document)
	if err != nil {
		return status.Success, err
	}
	if existing := document.Target(t.locale); existing != nil && !status.IsRequestable(existing.Status) {
		op.addMessage("Translation to %s of %s was already requested.", t.langcode, label)
		return status.Success, nil
	}

	logger := op.logger.WithFields(log.Fields{"document": document.DocumentID, "locale": t.locale})
	callErr := e.client.AddTarget(ctx, document.DocumentID, t.locale)
	outcome := tms.Classify(callErr)
	if callErr != nil {
		logger.WithError(callErr).Warnf("Translation request failed: %s", outcome)
	}

	now := e.nowMillis()
	_, err = e.update(op, func(d *model.Document) {
		record := d.EnsureTarget(t.locale, t.langcode, model.TargetStatusUntracked)
		record.Status = status.TargetAfterRequest(record.Status, outcome)
		if outcome == status.Success {
			record.RequestedAt = now
			record.DownloadedRevision = ""
		}
		if documentLevel(outcome) {
			applyDocumentFailure(d, outcome, callErr)
		}
	})
	if err != nil {
		return outcome, err
	}

	if outcome == status.Success {
		op.addMessage("Translation to %s of %s requested.", t.langcode, label)
	} else {
		op.result.AddMessage(failureMessage(outcome, label, fmt.Sprintf("Requesting translation to %s", t.langcode)))
	}

	return outcome, nil
}

// CheckTargetStatus asks the TMS for the progress of one translation. A
// finished translation becomes READY and is downloaded right away when the
// profile downloads automatically without the worker.
func (e *Engine) CheckTargetStatus(ctx context.Context, entityKey, langcode string) (*model.OperationResult, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	t, err := e.resolveTarget(op, langcode)
	if err != nil {
		return nil, err
	}

	_, err = e.checkTarget(ctx, op, t)
	if err != nil {
		return nil, err
	}

	return e.finish(op)
}

// CheckAllTargetStatuses checks every requested translation of the
// entity. Languages that were never requested are left alone.
func (e *Engine) CheckAllTargetStatuses(ctx context.Context, entityKey string) (*model.OperationResult, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	document, err := e.getDocument(entityKey)
	if err != nil {
		return nil, err
	}
	if !document.HasDocumentID() {
		return nil, preconditionf("%s has not been uploaded", op.entity.Label())
	}

	for _, locale := range document.TrackedLocales() {
		record := document.Targets[locale]
		if !status.IsCheckable(record.Status) {
			continue
		}

		outcome, err := e.checkTarget(ctx, op, trackedTarget(op, record))
		if IsPrecondition(err) {
			op.result.AddMessage(err.Error())
			continue
		}
		if err != nil {
			return nil, err
		}
		if documentLevel(outcome) {
			break
		}
	}

	return e.finish(op)
}

func (e *Engine) checkTarget(ctx context.Context, op *operation, t target) (status.Outcome, error) {
	label := op.entity.Label()
	if t.flags.Disabled {
		return status.Success, preconditionf("translation to %s is disabled for %s", t.langcode, label)
	}

	document, err := e.getDocument(op.entity.EntityKey)
	if err != nil {
		return status.Success, err
	}
	if !document.HasDocumentID() {
		return status.Success, preconditionf("%s has not been uploaded", label)
	}
	existing := document.Target(t.locale)
	if existing == nil {
		return status.Success, preconditionf("translation to %s of %s was never requested", t.langcode, label)
	}
	if !status.IsCheckable(existing.Status) {
		op.addMessage("Translation to %s of %s is %s, not checking.", t.langcode, label, existing.Status)
		return status.Success, nil
	}

	logger := op.logger.WithFields(log.Fields{"document": document.DocumentID, "locale": t.locale})
	progress, callErr := e.client.GetTargetStatus(ctx, document.DocumentID, t.locale)
	outcome := tms.Classify(callErr)
	if callErr != nil {
		logger.WithError(callErr).Warnf("Translation status check failed: %s", outcome)
	}
	complete := outcome == status.Success && progress != nil && progress.Complete

	now := e.nowMillis()
	document, err = e.update(op, func(d *model.Document) {
		if record := d.Target(t.locale); record != nil {
			record.Status = status.TargetAfterCheck(record.Status, complete, outcome)
			record.CheckedAt = now
		}
		if documentLevel(outcome) {
			applyDocumentFailure(d, outcome, callErr)
		}
	})
	if err != nil {
		return outcome, err
	}

	if outcome != status.Success {
		op.result.AddMessage(failureMessage(outcome, label, fmt.Sprintf("Checking the translation to %s", t.langcode)))
		return outcome, nil
	}

	record := document.Target(t.locale)
	if record == nil {
		return outcome, nil
	}
	switch record.Status {
	case model.TargetStatusReady:
		op.addMessage("Translation to %s of %s is ready for download.", t.langcode, label)
		if t.flags.AutoDownload && !t.flags.AutoDownloadWorker {
			_, _, err = e.download(ctx, op, t, downloadOptions{automatic: true})
			if err != nil && !IsPrecondition(err) {
				return outcome, err
			}
		}
	case model.TargetStatusPending:
		op.addMessage("Translation to %s of %s is in progress.", t.langcode, label)
	default:
		op.addMessage("Translation to %s of %s is %s.", t.langcode, label, record.Status)
	}

	return outcome, nil
}

type downloadOptions struct {
	// interim marks the download of a translation that has not finished
	// all of its phases.
	interim bool
	// automatic downloads skip translations already downloaded.
	automatic bool
}

// DownloadTranslation downloads one translation and stores it locally.
func (e *Engine) DownloadTranslation(ctx context.Context, entityKey, langcode string) (*model.OperationResult, error) {
	return e.downloadOne(ctx, entityKey, langcode, downloadOptions{})
}

// DownloadInterimTranslation downloads a translation that has not finished
// all of its phases. The target becomes INTERMEDIATE.
func (e *Engine) DownloadInterimTranslation(ctx context.Context, entityKey, langcode string) (*model.OperationResult, error) {
	return e.downloadOne(ctx, entityKey, langcode, downloadOptions{interim: true})
}

// AutoDownload downloads a translation on behalf of a notification or the
// supervisor. Translations already current, cancelled or never requested
// are skipped. It reports whether a download happened.
func (e *Engine) AutoDownload(ctx context.Context, entityKey, langcode string, interim bool) (*model.OperationResult, bool, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	t, err := e.resolveTarget(op, langcode)
	if err != nil {
		return nil, false, err
	}

	downloaded, _, err := e.download(ctx, op, t, downloadOptions{interim: interim, automatic: true})
	if err != nil && !IsPrecondition(err) {
		return nil, false, err
	}
	if err != nil {
		op.result.AddMessage(err.Error())
	}

	result, err := e.finish(op)
	if err != nil {
		return nil, false, err
	}

	return result, downloaded, nil
}

func (e *Engine) downloadOne(ctx context.Context, entityKey, langcode string, opts downloadOptions) (*model.OperationResult, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	t, err := e.resolveTarget(op, langcode)
	if err != nil {
		return nil, err
	}

	_, _, err = e.download(ctx, op, t, opts)
	if err != nil {
		return nil, err
	}

	return e.finish(op)
}

// DownloadAllTranslations downloads every translation that is ready or
// failed to download before. Languages that were never requested are left
// alone.
func (e *Engine) DownloadAllTranslations(ctx context.Context, entityKey string) (*model.OperationResult, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	document, err := e.getDocument(entityKey)
	if err != nil {
		return nil, err
	}
	if !document.HasDocumentID() {
		return nil, preconditionf("%s has not been uploaded", op.entity.Label())
	}

	for _, locale := range document.TrackedLocales() {
		record := document.Targets[locale]
		if !status.IsDownloadable(record.Status) {
			continue
		}

		_, outcome, err := e.download(ctx, op, trackedTarget(op, record), downloadOptions{})
		if IsPrecondition(err) {
			op.result.AddMessage(err.Error())
			continue
		}
		if err != nil {
			return nil, err
		}
		if documentLevel(outcome) {
			break
		}
	}

	return e.finish(op)
}

// DownloadQueuedTranslations downloads the ready translations whose
// profile leaves automatic downloads to the background worker.
func (e *Engine) DownloadQueuedTranslations(ctx context.Context, entityKey string) (*model.OperationResult, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	document, err := e.getDocument(entityKey)
	if err != nil {
		return nil, err
	}
	if !document.HasDocumentID() {
		return e.finish(op)
	}

	for _, locale := range document.TrackedLocales() {
		record := document.Targets[locale]
		if record.Status != model.TargetStatusReady {
			continue
		}
		t := trackedTarget(op, record)
		if t.flags.Disabled || !t.flags.AutoDownload || !t.flags.AutoDownloadWorker {
			continue
		}

		_, outcome, err := e.download(ctx, op, t, downloadOptions{automatic: true})
		if IsPrecondition(err) {
			op.result.AddMessage(err.Error())
			continue
		}
		if err != nil {
			return nil, err
		}
		if documentLevel(outcome) {
			break
		}
	}

	return e.finish(op)
}

func autoDownloadable(current model.TargetStatus, interim bool) bool {
	if current == model.TargetStatusPending {
		return interim
	}
	return status.IsDownloadable(current)
}

func (e *Engine) download(ctx context.Context, op *operation, t target, opts downloadOptions) (bool, status.Outcome, error) {
	label := op.entity.Label()
	if t.flags.Disabled {
		return false, status.Success, preconditionf("translation to %s is disabled for %s", t.langcode, label)
	}

	document, err := e.getDocument(op.entity.EntityKey)
	if err != nil {
		return false, status.Success, err
	}
	if !document.HasDocumentID() {
		return false, status.Success, preconditionf("%s has not been uploaded", label)
	}
	existing := document.Target(t.locale)
	if existing == nil {
		return false, status.Success, preconditionf("translation to %s of %s was never requested", t.langcode, label)
	}
	switch existing.Status {
	case model.TargetStatusCancelled, model.TargetStatusUntracked, model.TargetStatusDisabled, model.TargetStatusRequest:
		return false, status.Success, preconditionf("translation to %s of %s is %s and cannot be downloaded", t.langcode, label, existing.Status)
	}
	if opts.automatic && !autoDownloadable(existing.Status, opts.interim) {
		op.addMessage("Translation to %s of %s is %s, no download needed.", t.langcode, label, existing.Status)
		return false, status.Success, nil
	}

	logger := op.logger.WithFields(log.Fields{"document": document.DocumentID, "locale": t.locale})
	content, callErr := e.client.DownloadTarget(ctx, document.DocumentID, t.locale)
	outcome := tms.Classify(callErr)
	if callErr != nil {
		logger.WithError(callErr).Warnf("Download failed: %s", outcome)
	}

	var revision string
	storeFailed := false
	if outcome == status.Success {
		revision, err = e.entities.SaveTranslation(op.entity.EntityKey, t.langcode, content)
		if err != nil {
			logger.WithError(err).Error("Failed to store downloaded translation")
			outcome = status.TransientFailure
			storeFailed = true
		} else if e.archive != nil {
			err = e.archive.StoreTranslation(ctx, op.entity.EntityKey, t.langcode, revision, content)
			if err != nil {
				logger.WithError(err).Warn("Failed to archive downloaded translation")
			}
		}
	}

	_, err = e.update(op, func(d *model.Document) {
		if record := d.Target(t.locale); record != nil && record.Status != model.TargetStatusCancelled {
			record.Status = status.TargetAfterDownload(record.Status, opts.interim, outcome)
			if outcome == status.Success {
				record.DownloadedRevision = revision
			}
		}
		if documentLevel(outcome) {
			applyDocumentFailure(d, outcome, callErr)
		}
	})
	if err != nil {
		return false, outcome, err
	}

	switch {
	case storeFailed:
		op.addMessage("Translation to %s of %s was downloaded but could not be stored. Please try again.", t.langcode, label)
	case outcome != status.Success:
		op.result.AddMessage(failureMessage(outcome, label, fmt.Sprintf("Downloading the translation to %s", t.langcode)))
	case opts.interim:
		op.addMessage("Interim translation to %s of %s downloaded.", t.langcode, label)
	default:
		op.addMessage("Translation to %s of %s downloaded.", t.langcode, label)
	}

	return outcome == status.Success, outcome, nil
}

// CancelTarget cancels one translation in the TMS. A cancelled target is
// not resurrected by later completion notifications.
func (e *Engine) CancelTarget(ctx context.Context, entityKey, langcode string) (*model.OperationResult, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	t, err := e.resolveTarget(op, langcode)
	if err != nil {
		return nil, err
	}
	label := op.entity.Label()

	document, err := e.getDocument(entityKey)
	if err != nil {
		return nil, err
	}
	if !document.HasDocumentID() {
		return nil, preconditionf("%s has not been uploaded", label)
	}
	existing := document.Target(t.locale)
	if existing == nil {
		return nil, preconditionf("translation to %s of %s was never requested", t.langcode, label)
	}
	if existing.Status == model.TargetStatusCancelled {
		op.addMessage("Translation to %s of %s is already cancelled.", t.langcode, label)
		return e.finish(op)
	}

	callErr := e.client.CancelTarget(ctx, document.DocumentID, t.locale)
	outcome := tms.Classify(callErr)
	if callErr != nil {
		op.logger.WithFields(log.Fields{"document": document.DocumentID, "locale": t.locale}).
			WithError(callErr).Warnf("Target cancel failed: %s", outcome)
	}

	_, err = e.update(op, func(d *model.Document) {
		if record := d.Target(t.locale); record != nil {
			record.Status = status.TargetAfterCancel(record.Status, outcome)
		}
		if documentLevel(outcome) {
			applyDocumentFailure(d, outcome, callErr)
		}
	})
	if err != nil {
		return nil, err
	}

	if outcome == status.Success {
		op.addMessage("Translation to %s of %s has been cancelled.", t.langcode, label)
	} else {
		op.result.AddMessage(failureMessage(outcome, label, fmt.Sprintf("Cancelling the translation to %s", t.langcode)))
	}

	return e.finish(op)
}

// TranslationEdited stores a local edit of a downloaded translation. The
// target becomes EDITED when the content differs from what was
// downloaded.
func (e *Engine) TranslationEdited(ctx context.Context, entityKey, langcode string, content []byte) (*model.OperationResult, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	t, err := e.resolveTarget(op, langcode)
	if err != nil {
		return nil, err
	}

	revision, err := e.entities.SaveTranslation(entityKey, langcode, content)
	if err != nil {
		return nil, err
	}

	_, err = e.update(op, func(d *model.Document) {
		if record := d.Target(t.locale); record != nil && record.DownloadedRevision != revision {
			record.Status = status.TargetOnEdit(record.Status)
		}
	})
	if err != nil {
		return nil, err
	}
	op.addMessage("Translation to %s of %s saved.", langcode, op.entity.Label())

	return e.finish(op)
}

// TranslationDeleted records that the local translation was deleted. The
// target can be downloaded again when the TMS still has the translation,
// otherwise it must be requested again.
func (e *Engine) TranslationDeleted(ctx context.Context, entityKey, langcode string) (*model.OperationResult, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	t, err := e.resolveTarget(op, langcode)
	if err != nil {
		return nil, err
	}

	err = e.entities.DeleteTranslation(entityKey, langcode)
	if err != nil {
		return nil, err
	}

	_, err = e.update(op, func(d *model.Document) {
		record := d.Target(t.locale)
		if record == nil || record.Status == model.TargetStatusPending {
			return
		}
		record.Status = status.TargetOnLocalDelete(record.Status, status.HasRemoteTranslation(record.Status))
		record.DownloadedRevision = ""
	})
	if err != nil {
		return nil, err
	}
	op.addMessage("Translation to %s of %s deleted.", langcode, op.entity.Label())

	return e.finish(op)
}

// Translation returns the translation of an entity to langcode. An empty
// revision, or the revision stored locally, is served from the entity
// store; older revisions come from the archive. It returns nil when the
// translation is unknown.
func (e *Engine) Translation(ctx context.Context, entityKey, langcode, revision string) (*model.LocalTranslation, error) {
	entity, err := e.entities.GetEntity(entityKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load entity %s", entityKey)
	}
	if entity == nil {
		return nil, errors.Wrapf(ErrEntityNotFound, "entity %s", entityKey)
	}

	local, err := e.entities.GetTranslation(entityKey, langcode)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load translation to %s of %s", langcode, entityKey)
	}
	if revision == "" || (local != nil && local.Revision == revision) {
		return local, nil
	}
	if e.archive == nil {
		return nil, nil
	}

	archived, err := e.archive.HasTranslation(ctx, entityKey, langcode, revision)
	if err != nil {
		return nil, err
	}
	if !archived {
		return nil, nil
	}
	content, err := e.archive.GetTranslation(ctx, entityKey, langcode, revision)
	if err != nil {
		return nil, err
	}

	return &model.LocalTranslation{
		EntityKey: entityKey,
		Langcode:  langcode,
		Content:   string(content),
		Revision:  revision,
	}, nil
}
