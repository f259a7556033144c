// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package engine

import (
	"fmt"

	"github.com/mattermost/tmsync/internal/status"
)

// PaymentRequiredMessage is reported whenever the TMS account is disabled.
const PaymentRequiredMessage = "Community has been disabled. Please contact support to re-enable your community."

// failureMessage describes a failed TMS call to the user.
func failureMessage(outcome status.Outcome, label, action string) string {
	switch outcome {
	case status.PaymentRequired:
		return PaymentRequiredMessage
	case status.DocumentArchived:
		return fmt.Sprintf("Document %s has been archived. Please upload again.", label)
	case status.NotFound:
		return fmt.Sprintf("%s for %s failed, the TMS does not know the document.", action, label)
	case status.DocumentLocked:
		return fmt.Sprintf("Document %s has a new version. The document id has been updated for all future interactions. Please try again.", label)
	}
	return fmt.Sprintf("%s for %s failed. Please try again.", action, label)
}
