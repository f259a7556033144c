// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package model

import (
	"encoding/json"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// NotificationType is the kind of event reported by a TMS webhook call.
type NotificationType string

// Notification types sent by the TMS.
const (
	NotificationDocumentUploaded  NotificationType = "document_uploaded"
	NotificationDocumentUpdated   NotificationType = "document_updated"
	NotificationDocumentCancelled NotificationType = "document_cancelled"
	NotificationDocumentArchived  NotificationType = "document_archived"
	NotificationDocumentDeleted   NotificationType = "document_deleted"
	NotificationTarget            NotificationType = "target"
	NotificationPhase             NotificationType = "phase"
	NotificationTargetCancelled   NotificationType = "target_cancelled"
	NotificationTargetDeleted     NotificationType = "target_deleted"
	NotificationImportFailure     NotificationType = "import_failure"
	NotificationDownloadInterim   NotificationType = "download_interim_translation"
)

const (
	completeProgress    = 100
	completeTrueValue   = "true"
	completeTrueNumeric = "1"
)

// Notification is a parsed TMS webhook call.
type Notification struct {
	DocumentID         string
	PrevDocumentID     string
	ProjectID          string
	Locale             string
	LocaleCode         string
	Type               NotificationType
	Complete           bool
	Progress           string
	DeletedByUserLogin string
}

// NewNotificationFromURLQuery builds a Notification from webhook query
// parameters. It never fails; payload validation happens once the
// notification is matched to a document.
func NewNotificationFromURLQuery(values url.Values) *Notification {
	complete := strings.ToLower(values.Get("complete"))
	return &Notification{
		DocumentID:         values.Get("document_id"),
		PrevDocumentID:     values.Get("prev_document_id"),
		ProjectID:          values.Get("project_id"),
		Locale:             values.Get("locale"),
		LocaleCode:         values.Get("locale_code"),
		Type:               NotificationType(values.Get("type")),
		Complete:           complete == completeTrueValue || complete == completeTrueNumeric,
		Progress:           values.Get("progress"),
		DeletedByUserLogin: values.Get("deleted_by_user_login"),
	}
}

// IsEmpty reports whether the call carried no notification at all.
func (n *Notification) IsEmpty() bool {
	return n.DocumentID == "" && n.Type == ""
}

// TargetLocale returns the locale the notification refers to, preferring
// the locale parameter over locale_code.
func (n *Notification) TargetLocale() string {
	if n.Locale != "" {
		return n.Locale
	}
	return n.LocaleCode
}

// ParsedProgress returns the reported progress. A missing progress counts
// as 100 for complete notifications and 0 otherwise.
func (n *Notification) ParsedProgress() (int, error) {
	if n.Progress == "" {
		if n.Complete {
			return completeProgress, nil
		}
		return 0, nil
	}
	progress, err := strconv.Atoi(n.Progress)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid progress %q", n.Progress)
	}
	if progress < 0 || progress > completeProgress {
		return 0, errors.Errorf("progress %d out of range", progress)
	}
	return progress, nil
}

// FullyComplete reports whether the notification signals a finished
// translation.
func (n *Notification) FullyComplete() (bool, error) {
	progress, err := n.ParsedProgress()
	if err != nil {
		return false, err
	}
	return n.Complete && progress == completeProgress, nil
}

// Values encodes the notification back into query parameters.
func (n *Notification) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set("document_id", n.DocumentID)
	set("prev_document_id", n.PrevDocumentID)
	set("project_id", n.ProjectID)
	set("locale", n.Locale)
	set("locale_code", n.LocaleCode)
	set("type", string(n.Type))
	set("progress", n.Progress)
	set("deleted_by_user_login", n.DeletedByUserLogin)
	if n.Complete {
		values.Set("complete", completeTrueValue)
	}
	return values
}

// NotificationResult is the machine-readable part of a notification
// response.
type NotificationResult struct {
	RequestTranslations []string `json:"request_translations"`
	Download            bool     `json:"download"`
}

// NotificationResponse is returned to the TMS for handled notifications.
type NotificationResponse struct {
	Result   *NotificationResult `json:"result,omitempty"`
	Messages []string            `json:"messages"`
}

// AddMessage appends a message to the response.
func (r *NotificationResponse) AddMessage(message string) {
	r.Messages = append(r.Messages, message)
}

// NewNotificationResponseFromReader creates a NotificationResponse from a
// Reader.
func NewNotificationResponseFromReader(reader io.Reader) (*NotificationResponse, error) {
	var response NotificationResponse
	err := json.NewDecoder(reader).Decode(&response)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode notification response")
	}
	return &response, nil
}
