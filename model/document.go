// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// Document is the local record of the TMS-side document that holds an
// entity's source content, together with the state of every translation
// target that has been requested for it.
type Document struct {
	EntityKey          string
	DocumentID         string
	PreviousDocumentID string
	SourceStatus       SourceStatus
	SourceRevision     string
	UploadedAt         int64
	CheckedAt          int64
	Version            int64
	CreateAt           int64
	UpdateAt           int64
	Targets            map[string]*TargetRecord
}

// TargetRecord tracks one (document, locale) translation job.
type TargetRecord struct {
	Locale             string
	Langcode           string
	Status             TargetStatus
	RequestedAt        int64
	CheckedAt          int64
	DownloadedRevision string
}

// NewDocument returns an untracked Document for the given entity.
func NewDocument(entityKey string) *Document {
	now := GetMillis()
	return &Document{
		EntityKey:    entityKey,
		SourceStatus: SourceStatusUntracked,
		CreateAt:     now,
		UpdateAt:     now,
		Targets:      make(map[string]*TargetRecord),
	}
}

// HasDocumentID reports whether the entity currently has a document in
// the TMS.
func (d *Document) HasDocumentID() bool {
	return d.DocumentID != ""
}

// Target returns the record for the given locale, or nil when that locale
// was never requested.
func (d *Document) Target(locale string) *TargetRecord {
	if d.Targets == nil {
		return nil
	}
	return d.Targets[locale]
}

// EnsureTarget returns the record for the given locale, creating it with
// the given initial status if needed.
func (d *Document) EnsureTarget(locale, langcode string, initial TargetStatus) *TargetRecord {
	if d.Targets == nil {
		d.Targets = make(map[string]*TargetRecord)
	}
	target, ok := d.Targets[locale]
	if !ok {
		target = &TargetRecord{
			Locale:   locale,
			Langcode: langcode,
			Status:   initial,
		}
		d.Targets[locale] = target
	}
	return target
}

// TrackedLocales returns the locales with a target record, sorted.
func (d *Document) TrackedLocales() []string {
	locales := make([]string, 0, len(d.Targets))
	for locale := range d.Targets {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// ClearDocumentID forgets the TMS document and resets every target to the
// given status.
func (d *Document) ClearDocumentID(targetStatus TargetStatus) {
	d.DocumentID = ""
	d.PreviousDocumentID = ""
	for _, target := range d.Targets {
		target.Status = targetStatus
	}
}

// Clone returns a deep copy of the Document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	clone := *d
	clone.Targets = make(map[string]*TargetRecord, len(d.Targets))
	for locale, target := range d.Targets {
		t := *target
		clone.Targets[locale] = &t
	}
	return &clone
}

// DocumentStatus is the read view of a Document returned by the API. Target
// statuses are keyed by langcode and include computed statuses, such as
// DISABLED, that are never persisted.
type DocumentStatus struct {
	EntityKey          string
	Label              string
	DocumentID         string
	PreviousDocumentID string
	SourceStatus       SourceStatus
	Targets            map[string]TargetStatus
}

// OperationResult is returned by every synchronization operation.
type OperationResult struct {
	Messages []string
	Document *DocumentStatus
}

// AddMessage appends a formatted message to the result.
func (r *OperationResult) AddMessage(message string) {
	r.Messages = append(r.Messages, message)
}

// NewDocumentStatusFromReader creates a DocumentStatus from a Reader.
func NewDocumentStatusFromReader(reader io.Reader) (*DocumentStatus, error) {
	var status DocumentStatus
	err := json.NewDecoder(reader).Decode(&status)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode document status")
	}
	return &status, nil
}

// NewDocumentStatusListFromReader creates a list of DocumentStatuses from
// a Reader.
func NewDocumentStatusListFromReader(reader io.Reader) ([]*DocumentStatus, error) {
	var statuses []*DocumentStatus
	err := json.NewDecoder(reader).Decode(&statuses)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode document status list")
	}
	return statuses, nil
}

// NewOperationResultFromReader creates an OperationResult from a Reader.
func NewOperationResultFromReader(reader io.Reader) (*OperationResult, error) {
	var result OperationResult
	err := json.NewDecoder(reader).Decode(&result)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode operation result")
	}
	return &result, nil
}
