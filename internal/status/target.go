// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package status

import "github.com/mattermost/tmsync/model"

// IsRequestable reports whether a translation may be requested for a
// target in the given status. A cancelled target can be requested again,
// which recreates it.
func IsRequestable(current model.TargetStatus) bool {
	switch current {
	case model.TargetStatusUntracked, model.TargetStatusRequest,
		model.TargetStatusError, model.TargetStatusCancelled:
		return true
	}
	return false
}

// IsDownloadable reports whether a bulk download should fetch a target in
// the given status.
func IsDownloadable(current model.TargetStatus) bool {
	switch current {
	case model.TargetStatusReady, model.TargetStatusIntermediate, model.TargetStatusError:
		return true
	}
	return false
}

// IsCheckable reports whether a bulk status check should query a target
// in the given status.
func IsCheckable(current model.TargetStatus) bool {
	switch current {
	case model.TargetStatusUntracked, model.TargetStatusCancelled, model.TargetStatusDisabled:
		return false
	}
	return true
}

// TargetAfterRequest returns the target status after a request call.
// Failures of unknown cause leave the target awaiting a manual request.
func TargetAfterRequest(current model.TargetStatus, outcome Outcome) model.TargetStatus {
	switch outcome {
	case Success:
		return model.TargetStatusPending
	case DocumentArchived:
		return model.TargetStatusUntracked
	case NotFound:
		return current
	}
	return model.TargetStatusRequest
}

// TargetAfterCheck returns the target status after a check-status call.
// Failures never regress the target.
func TargetAfterCheck(current model.TargetStatus, complete bool, outcome Outcome) model.TargetStatus {
	if outcome != Success {
		if outcome.Forgets() {
			return model.TargetStatusUntracked
		}
		return current
	}
	if current == model.TargetStatusCancelled {
		return current
	}
	if complete {
		return TargetOnReady(current)
	}
	return TargetOnProgress(current)
}

// TargetOnReady returns the target status once the TMS reports the
// translation as complete and it has not been downloaded yet.
func TargetOnReady(current model.TargetStatus) model.TargetStatus {
	switch current {
	case model.TargetStatusCancelled, model.TargetStatusDisabled,
		model.TargetStatusCurrent, model.TargetStatusEdited:
		return current
	}
	return model.TargetStatusReady
}

// TargetOnProgress returns the target status when the TMS reports work in
// progress on the translation.
func TargetOnProgress(current model.TargetStatus) model.TargetStatus {
	switch current {
	case model.TargetStatusUntracked, model.TargetStatusRequest:
		return model.TargetStatusPending
	}
	return current
}

// TargetAfterDownload returns the target status after a download call.
// interim marks the download of a translation that has not finished all
// of its phases.
func TargetAfterDownload(current model.TargetStatus, interim bool, outcome Outcome) model.TargetStatus {
	switch outcome {
	case Success:
		if interim {
			return model.TargetStatusIntermediate
		}
		return model.TargetStatusCurrent
	case DocumentArchived:
		return model.TargetStatusUntracked
	case NotFound:
		return current
	}
	return model.TargetStatusError
}

// TargetAfterCancel returns the target status after a cancel call.
func TargetAfterCancel(current model.TargetStatus, outcome Outcome) model.TargetStatus {
	switch outcome {
	case Success:
		return model.TargetStatusCancelled
	case DocumentArchived:
		return model.TargetStatusUntracked
	}
	return current
}

// TargetOnEdit returns the target status after its translation was edited
// locally.
func TargetOnEdit(current model.TargetStatus) model.TargetStatus {
	switch current {
	case model.TargetStatusCurrent, model.TargetStatusIntermediate:
		return model.TargetStatusEdited
	}
	return current
}

// TargetOnSourceEdit returns the target status after the source content
// was edited locally. Downloaded translations are now out of date.
func TargetOnSourceEdit(current model.TargetStatus) model.TargetStatus {
	switch current {
	case model.TargetStatusCurrent, model.TargetStatusIntermediate, model.TargetStatusReady:
		return model.TargetStatusEdited
	}
	return current
}

// TargetOnSourceUpdated returns the target status after a new version of
// the source was uploaded. The TMS translates the new version of every
// live target again.
func TargetOnSourceUpdated(current model.TargetStatus) model.TargetStatus {
	switch current {
	case model.TargetStatusReady, model.TargetStatusIntermediate, model.TargetStatusCurrent,
		model.TargetStatusEdited, model.TargetStatusError:
		return model.TargetStatusPending
	}
	return current
}

// TargetOnLocalDelete returns the target status after the local
// translation was deleted. The remote translation can be downloaded again
// when it still exists.
func TargetOnLocalDelete(current model.TargetStatus, remoteExists bool) model.TargetStatus {
	switch current {
	case model.TargetStatusCancelled, model.TargetStatusDisabled, model.TargetStatusUntracked:
		return current
	}
	if remoteExists {
		return model.TargetStatusReady
	}
	return model.TargetStatusRequest
}

// TargetOnNotification returns the target status for administrative
// target notifications.
func TargetOnNotification(current model.TargetStatus, notificationType model.NotificationType) model.TargetStatus {
	switch notificationType {
	case model.NotificationTargetCancelled, model.NotificationDocumentCancelled:
		return model.TargetStatusCancelled
	case model.NotificationTargetDeleted, model.NotificationDocumentArchived, model.NotificationDocumentDeleted:
		return model.TargetStatusUntracked
	}
	return current
}

// HasRemoteTranslation reports whether a target in the given status has a
// translation available in the TMS.
func HasRemoteTranslation(current model.TargetStatus) bool {
	switch current {
	case model.TargetStatusReady, model.TargetStatusIntermediate,
		model.TargetStatusCurrent, model.TargetStatusEdited:
		return true
	}
	return false
}
