// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package status

import "github.com/mattermost/tmsync/model"

// SourceAfterUpload returns the source status after an upload or update
// call. A locked document keeps its pre-upload state so the caller retries
// with the adopted document id.
func SourceAfterUpload(current model.SourceStatus, outcome Outcome) model.SourceStatus {
	switch outcome {
	case Success:
		return model.SourceStatusImporting
	case TransientFailure, PaymentRequired:
		return model.SourceStatusError
	case DocumentArchived:
		return model.SourceStatusUntracked
	case DocumentLocked:
		if current == model.SourceStatusEdited {
			return model.SourceStatusEdited
		}
		return model.SourceStatusImporting
	}
	return current
}

// SourceAfterCheck returns the source status after a check-status call.
// stale is true when the upload happened longer ago than the configured
// threshold.
func SourceAfterCheck(current model.SourceStatus, complete, stale bool, outcome Outcome) model.SourceStatus {
	switch outcome {
	case Success:
		if current == model.SourceStatusEdited || current == model.SourceStatusCancelled {
			// local content or user intent is newer than the remote import
			return current
		}
		if complete {
			return model.SourceStatusCurrent
		}
		if stale {
			return model.SourceStatusError
		}
		return model.SourceStatusImporting
	case PaymentRequired:
		return model.SourceStatusError
	case DocumentArchived:
		return model.SourceStatusUntracked
	case DocumentLocked:
		return model.SourceStatusImporting
	}
	return current
}

// SourceOnEdit returns the source status after the entity content changed
// locally. Entities that were never uploaded stay untracked.
func SourceOnEdit(current model.SourceStatus, hasDocument bool) model.SourceStatus {
	if !hasDocument {
		return current
	}
	switch current {
	case model.SourceStatusImporting, model.SourceStatusCurrent, model.SourceStatusError:
		return model.SourceStatusEdited
	}
	return current
}

// SourceOnUploadedNotification returns the source status for a
// document_uploaded or document_updated notification. An incomplete
// notification never regresses a document already known to be current.
func SourceOnUploadedNotification(current model.SourceStatus, complete bool) model.SourceStatus {
	if current == model.SourceStatusEdited || current == model.SourceStatusCancelled {
		return current
	}
	if complete || current == model.SourceStatusCurrent {
		return model.SourceStatusCurrent
	}
	return model.SourceStatusImporting
}

// SourceOnNotification returns the source status for administrative
// notifications. The second return value is false when the type does not
// affect the source.
func SourceOnNotification(current model.SourceStatus, notificationType model.NotificationType) (model.SourceStatus, bool) {
	switch notificationType {
	case model.NotificationDocumentCancelled:
		return model.SourceStatusCancelled, true
	case model.NotificationDocumentArchived, model.NotificationDocumentDeleted:
		return model.SourceStatusUntracked, true
	case model.NotificationImportFailure:
		return model.SourceStatusError, true
	}
	return current, false
}

// SourceAfterCancel returns the source status after a cancel call.
func SourceAfterCancel(current model.SourceStatus, outcome Outcome) model.SourceStatus {
	switch outcome {
	case Success:
		return model.SourceStatusCancelled
	case DocumentArchived:
		return model.SourceStatusUntracked
	case PaymentRequired:
		return model.SourceStatusError
	}
	return current
}

// SourceAfterTargetCall returns the source status after a target-level
// call (request, check, download, cancel) whose failure says something
// about the document itself.
func SourceAfterTargetCall(current model.SourceStatus, outcome Outcome) model.SourceStatus {
	switch outcome {
	case PaymentRequired:
		return model.SourceStatusError
	case DocumentArchived:
		return model.SourceStatusUntracked
	case DocumentLocked:
		return model.SourceStatusImporting
	}
	return current
}
