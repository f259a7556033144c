// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package status holds the translation status state machine. Every
// function in it is pure: it maps a current status plus an event to the
// next status and never performs I/O.
package status

// Outcome classifies the result of a call to the TMS.
type Outcome int

// Outcomes of a TMS call.
const (
	Success Outcome = iota
	TransientFailure
	PaymentRequired
	DocumentArchived
	DocumentLocked
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case TransientFailure:
		return "transient-failure"
	case PaymentRequired:
		return "payment-required"
	case DocumentArchived:
		return "document-archived"
	case DocumentLocked:
		return "document-locked"
	case NotFound:
		return "not-found"
	}
	return "unknown"
}

// Forgets reports whether the outcome means the TMS no longer has the
// document, so the local document id must be cleared. A plain NotFound
// never rolls back local state.
func (o Outcome) Forgets() bool {
	return o == DocumentArchived
}
