// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package engine

import (
	"context"

	"github.com/mattermost/tmsync/internal/status"
	"github.com/mattermost/tmsync/internal/tms"
	"github.com/mattermost/tmsync/model"
)

// Upload sends the entity content to the TMS. An entity that already has a
// document is uploaded as a new version: the TMS assigns a new document id
// and the old one is kept as the previous id until the import is
// confirmed.
func (e *Engine) Upload(ctx context.Context, entityKey string) (*model.OperationResult, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = e.upload(ctx, op)
	if err != nil {
		return nil, err
	}

	return e.finish(op)
}

func (e *Engine) upload(ctx context.Context, op *operation) error {
	if op.profile.ID == model.ProfileDisabled {
		return preconditionf("translation is disabled for %s", op.entity.Label())
	}

	sourceLocale, err := e.locales.ToTMSLocale(op.entity.SourceLangcode())
	if err != nil {
		return preconditionf("source language %s is not configured", op.entity.SourceLangcode())
	}

	document, err := e.getDocument(op.entity.EntityKey)
	if err != nil {
		return err
	}

	logger := op.logger.WithField("document", document.DocumentID)
	label := op.entity.Label()
	revision := op.entity.Revision()
	isUpdate := document.HasDocumentID()

	var documentID string
	if isUpdate {
		documentID, err = e.client.UpdateDocument(ctx, document.DocumentID, label, op.entity.Content())
	} else {
		documentID, err = e.client.UploadDocument(ctx, label, op.entity.Content(), sourceLocale)
	}
	callErr := err
	outcome := tms.Classify(callErr)
	if callErr != nil {
		logger.WithError(callErr).Warnf("Upload failed: %s", outcome)
	}

	_, err = e.update(op, func(d *model.Document) {
		d.SourceStatus = status.SourceAfterUpload(d.SourceStatus, outcome)

		switch outcome {
		case status.Success:
			if isUpdate && d.DocumentID != documentID {
				d.PreviousDocumentID = d.DocumentID
			} else if !isUpdate {
				d.PreviousDocumentID = ""
				d.Targets = make(map[string]*model.TargetRecord)
			}
			d.DocumentID = documentID
			d.SourceRevision = revision
			d.UploadedAt = e.nowMillis()
			for _, t := range d.Targets {
				t.Status = status.TargetOnSourceUpdated(t.Status)
			}
		case status.DocumentArchived:
			d.ClearDocumentID(model.TargetStatusUntracked)
		case status.DocumentLocked:
			if newID, ok := tms.NewDocumentID(callErr); ok {
				d.DocumentID = newID
			}
		}
	})
	if err != nil {
		return err
	}

	if outcome == status.Success {
		op.addMessage("Uploaded %s to the TMS.", label)
	} else {
		op.result.AddMessage(failureMessage(outcome, label, "The upload"))
	}

	return nil
}

// CheckSourceStatus asks the TMS whether the import of the entity
// completed. An import still incomplete after the stale upload threshold
// is marked as failed so it can be uploaded again. Once the source is
// current, automatic translation requests are issued.
func (e *Engine) CheckSourceStatus(ctx context.Context, entityKey string) (*model.OperationResult, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = e.checkSourceStatus(ctx, op)
	if err != nil {
		return nil, err
	}

	return e.finish(op)
}

func (e *Engine) checkSourceStatus(ctx context.Context, op *operation) error {
	document, err := e.getDocument(op.entity.EntityKey)
	if err != nil {
		return err
	}
	if !document.HasDocumentID() {
		return preconditionf("%s has not been uploaded", op.entity.Label())
	}

	label := op.entity.Label()
	progress, err := e.client.GetDocumentStatus(ctx, document.DocumentID)
	callErr := err
	outcome := tms.Classify(callErr)
	if callErr != nil {
		op.logger.WithField("document", document.DocumentID).WithError(callErr).Warnf("Source status check failed: %s", outcome)
	}

	complete := outcome == status.Success && progress != nil && progress.Complete
	now := e.nowMillis()
	stale := document.UploadedAt > 0 && now-document.UploadedAt > e.settings.StaleUploadThreshold.Milliseconds()

	document, err = e.update(op, func(d *model.Document) {
		d.CheckedAt = now
		d.SourceStatus = status.SourceAfterCheck(d.SourceStatus, complete, stale, outcome)
		switch {
		case outcome.Forgets():
			d.ClearDocumentID(model.TargetStatusUntracked)
		case outcome == status.DocumentLocked:
			if newID, ok := tms.NewDocumentID(callErr); ok {
				d.DocumentID = newID
			}
		case d.SourceStatus == model.SourceStatusCurrent:
			d.PreviousDocumentID = ""
		}
	})
	if err != nil {
		return err
	}

	switch {
	case outcome != status.Success:
		op.result.AddMessage(failureMessage(outcome, label, "The import status check"))
	case document.SourceStatus == model.SourceStatusCurrent:
		op.addMessage("The import for %s is complete.", label)
		_, err = e.requestAutomatic(ctx, op)
		if err != nil {
			return err
		}
	case document.SourceStatus == model.SourceStatusError:
		op.addMessage("The import for %s failed. Please upload again.", label)
	default:
		op.addMessage("The import for %s is still pending.", label)
	}

	return nil
}

// Cancel cancels the document and every translation of the entity in the
// TMS.
func (e *Engine) Cancel(ctx context.Context, entityKey string) (*model.OperationResult, error) {
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

	err = e.client.CancelDocument(ctx, document.DocumentID)
	callErr := err
	outcome := tms.Classify(callErr)
	if callErr != nil {
		op.logger.WithField("document", document.DocumentID).WithError(callErr).Warnf("Cancel failed: %s", outcome)
	}

	_, err = e.update(op, func(d *model.Document) {
		switch outcome {
		case status.Success:
			d.ClearDocumentID(model.TargetStatusCancelled)
			d.SourceStatus = status.SourceAfterCancel(d.SourceStatus, outcome)
		case status.TransientFailure:
		default:
			applyDocumentFailure(d, outcome, callErr)
		}
	})
	if err != nil {
		return nil, err
	}

	if outcome == status.Success {
		op.addMessage("Document %s has been cancelled.", op.entity.Label())
	} else {
		op.result.AddMessage(failureMessage(outcome, op.entity.Label(), "Cancelling"))
	}

	return e.finish(op)
}

// EntitySaved records a local change of the entity. A source that was ever
// uploaded becomes EDITED, and the entity is uploaded again when its
// profile uploads automatically.
func (e *Engine) EntitySaved(ctx context.Context, entityKey string) (*model.OperationResult, error) {
	op, unlock, err := e.begin(ctx, entityKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	document, err := e.getDocument(entityKey)
	if err != nil {
		return nil, err
	}

	revision := op.entity.Revision()
	if document.HasDocumentID() && document.SourceRevision != revision {
		document, err = e.update(op, func(d *model.Document) {
			d.SourceStatus = status.SourceOnEdit(d.SourceStatus, d.HasDocumentID())
			for _, t := range d.Targets {
				t.Status = status.TargetOnSourceEdit(t.Status)
			}
		})
		if err != nil {
			return nil, err
		}
	}

	if e.shouldAutoUpload(op, document, revision) {
		err = e.upload(ctx, op)
		if err != nil && !IsPrecondition(err) {
			return nil, err
		}
		if err != nil {
			op.result.AddMessage(err.Error())
		}
	}

	return e.finish(op)
}

func (e *Engine) shouldAutoUpload(op *operation, document *model.Document, revision string) bool {
	if op.profile.ID == model.ProfileDisabled || !op.profile.Flags.AutoUpload {
		return false
	}
	switch document.SourceStatus {
	case model.SourceStatusUntracked, model.SourceStatusEdited:
		return true
	case model.SourceStatusError:
		return document.SourceRevision != revision || !document.HasDocumentID()
	}
	return false
}
