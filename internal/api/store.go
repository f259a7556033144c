// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api

import (
	"context"

	"github.com/mattermost/tmsync/model"
)

//go:generate mockgen -source=store.go -destination=../mocks/api/store.go -package=mock_api

// Store persists the entities under translation management.
type Store interface {
	GetEntity(entityKey string) (*model.Entity, error)
	GetEntities() ([]*model.Entity, error)
	SaveEntity(entity *model.Entity) error
}

// Engine runs the synchronization operations exposed over HTTP.
type Engine interface {
	Status(ctx context.Context, entityKey string) (*model.DocumentStatus, error)
	Statuses(ctx context.Context) ([]*model.DocumentStatus, error)
	EntitySaved(ctx context.Context, entityKey string) (*model.OperationResult, error)
	Upload(ctx context.Context, entityKey string) (*model.OperationResult, error)
	CheckSourceStatus(ctx context.Context, entityKey string) (*model.OperationResult, error)
	RequestTranslation(ctx context.Context, entityKey, langcode string) (*model.OperationResult, error)
	RequestAllTranslations(ctx context.Context, entityKey string) (*model.OperationResult, error)
	CheckTargetStatus(ctx context.Context, entityKey, langcode string) (*model.OperationResult, error)
	CheckAllTargetStatuses(ctx context.Context, entityKey string) (*model.OperationResult, error)
	DownloadTranslation(ctx context.Context, entityKey, langcode string) (*model.OperationResult, error)
	DownloadInterimTranslation(ctx context.Context, entityKey, langcode string) (*model.OperationResult, error)
	DownloadAllTranslations(ctx context.Context, entityKey string) (*model.OperationResult, error)
	Cancel(ctx context.Context, entityKey string) (*model.OperationResult, error)
	CancelTarget(ctx context.Context, entityKey, langcode string) (*model.OperationResult, error)
	TranslationEdited(ctx context.Context, entityKey, langcode string, content []byte) (*model.OperationResult, error)
	TranslationDeleted(ctx context.Context, entityKey, langcode string) (*model.OperationResult, error)
	Translation(ctx context.Context, entityKey, langcode, revision string) (*model.LocalTranslation, error)
}

// Dispatcher applies webhook notifications.
type Dispatcher interface {
	Dispatch(ctx context.Context, n *model.Notification) (*model.NotificationResponse, error)
}
