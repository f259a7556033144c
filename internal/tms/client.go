// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package tms is the contract with the remote translation management
// system and the classification of its failures.
package tms

//go:generate mockgen -source=client.go -destination=../mocks/tms/client.go -package=mock_tms

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/mattermost/tmsync/internal/status"
)

// Progress is the completion state of a document import or of a target
// translation.
type Progress struct {
	Complete bool `json:"complete"`
	Progress int  `json:"progress"`
}

// Client is the set of calls made to the TMS. Implementations are
// responsible for their own timeouts.
type Client interface {
	UploadDocument(ctx context.Context, title string, content []byte, sourceLocale string) (string, error)
	UpdateDocument(ctx context.Context, documentID, title string, content []byte) (string, error)
	GetDocumentStatus(ctx context.Context, documentID string) (*Progress, error)
	AddTarget(ctx context.Context, documentID, locale string) error
	GetTargetStatus(ctx context.Context, documentID, locale string) (*Progress, error)
	DownloadTarget(ctx context.Context, documentID, locale string) ([]byte, error)
	CancelDocument(ctx context.Context, documentID string) error
	CancelTarget(ctx context.Context, documentID, locale string) error
}

var (
	// ErrPaymentRequired means the TMS account has been disabled.
	ErrPaymentRequired = errors.New("payment required")
	// ErrDocumentArchived means the document no longer exists in the TMS
	// and must be uploaded again as a new one.
	ErrDocumentArchived = errors.New("document archived")
	// ErrDocumentNotFound means the TMS does not know the document.
	ErrDocumentNotFound = errors.New("document not found")
)

// DocumentLockedError means the TMS replaced the document with a new
// version that must be used from now on.
type DocumentLockedError struct {
	NewDocumentID string
}

func (e *DocumentLockedError) Error() string {
	return fmt.Sprintf("document locked, new version is %s", e.NewDocumentID)
}

// Classify maps a TMS call error to an Outcome. Any error that is not
// explicitly recognized is transient.
func Classify(err error) status.Outcome {
	if err == nil {
		return status.Success
	}

	var locked *DocumentLockedError
	switch {
	case errors.Is(err, ErrPaymentRequired):
		return status.PaymentRequired
	case errors.Is(err, ErrDocumentArchived):
		return status.DocumentArchived
	case errors.Is(err, ErrDocumentNotFound):
		return status.NotFound
	case errors.As(err, &locked):
		return status.DocumentLocked
	}

	return status.TransientFailure
}

// NewDocumentID returns the document id adopted by the TMS when err is a
// DocumentLockedError.
func NewDocumentID(err error) (string, bool) {
	var locked *DocumentLockedError
	if errors.As(err, &locked) && locked.NewDocumentID != "" {
		return locked.NewDocumentID, true
	}
	return "", false
}
