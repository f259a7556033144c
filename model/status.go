// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

// SourceStatus is the lifecycle state of an entity's source document in
// the TMS.
type SourceStatus string

// Source statuses.
const (
	SourceStatusUntracked SourceStatus = "UNTRACKED"
	SourceStatusImporting SourceStatus = "IMPORTING"
	SourceStatusCurrent   SourceStatus = "CURRENT"
	SourceStatusEdited    SourceStatus = "EDITED"
	SourceStatusError     SourceStatus = "ERROR"
	SourceStatusCancelled SourceStatus = "CANCELLED"
)

// TargetStatus is the lifecycle state of one translation of a document.
type TargetStatus string

// Target statuses.
const (
	TargetStatusUntracked    TargetStatus = "UNTRACKED"
	TargetStatusRequest      TargetStatus = "REQUEST"
	TargetStatusPending      TargetStatus = "PENDING"
	TargetStatusReady        TargetStatus = "READY"
	TargetStatusIntermediate TargetStatus = "INTERMEDIATE"
	TargetStatusCurrent      TargetStatus = "CURRENT"
	TargetStatusEdited       TargetStatus = "EDITED"
	TargetStatusError        TargetStatus = "ERROR"
	TargetStatusCancelled    TargetStatus = "CANCELLED"
	TargetStatusDisabled     TargetStatus = "DISABLED"
)

// Valid reports whether s is a known source status.
func (s SourceStatus) Valid() bool {
	switch s {
	case SourceStatusUntracked, SourceStatusImporting, SourceStatusCurrent,
		SourceStatusEdited, SourceStatusError, SourceStatusCancelled:
		return true
	}
	return false
}

// Valid reports whether s is a known target status.
func (s TargetStatus) Valid() bool {
	switch s {
	case TargetStatusUntracked, TargetStatusRequest, TargetStatusPending,
		TargetStatusReady, TargetStatusIntermediate, TargetStatusCurrent,
		TargetStatusEdited, TargetStatusError, TargetStatusCancelled,
		TargetStatusDisabled:
		return true
	}
	return false
}
