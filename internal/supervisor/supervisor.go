// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package supervisor polls the TMS for documents whose import or
// translation is still in progress, covering notifications that never
// arrived.
package supervisor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mattermost/tmsync/model"
)

const (
	// DefaultInterval is the pause between two supervision passes.
	DefaultInterval = 60 * time.Second
	// DefaultConcurrency caps the documents checked at once.
	DefaultConcurrency = 4
)

// Store lists the documents that need supervision.
type Store interface {
	GetDocumentsToSupervise() ([]*model.Document, error)
}

// Engine runs the polling operations.
type Engine interface {
	CheckSourceStatus(ctx context.Context, entityKey string) (*model.OperationResult, error)
	CheckAllTargetStatuses(ctx context.Context, entityKey string) (*model.OperationResult, error)
	DownloadQueuedTranslations(ctx context.Context, entityKey string) (*model.OperationResult, error)
}

// StatusSupervisor periodically checks in-progress documents.
type StatusSupervisor struct {
	store       Store
	engine      Engine
	logger      log.FieldLogger
	interval    time.Duration
	concurrency int
}

// NewStatusSupervisor returns a StatusSupervisor. Zero interval or
// concurrency select the defaults.
func NewStatusSupervisor(store Store, engine Engine, logger log.FieldLogger, interval time.Duration, concurrency int) *StatusSupervisor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &StatusSupervisor{
		store:       store,
		engine:      engine,
		logger:      logger.WithField("supervisor", model.NewID()),
		interval:    interval,
		concurrency: concurrency,
	}
}

// Start runs the supervision loop on a new goroutine until ctx is done.
func (s *StatusSupervisor) Start(ctx context.Context) {
	s.logger.Info("Status supervisor started")
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			err := s.Supervise(ctx)
			if err != nil {
				s.logger.WithError(err).Error("failed an operation while supervising documents")
			}
			select {
			case <-ctx.Done():
				s.logger.Info("Status supervisor stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Supervise runs one pass over the documents in progress.
func (s *StatusSupervisor) Supervise(ctx context.Context) error {
	documents, err := s.store.GetDocumentsToSupervise()
	if err != nil {
		return errors.Wrap(err, "failed to look up documents to supervise")
	}
	if len(documents) == 0 {
		return nil
	}
	s.logger.Debugf("Supervising %d documents", len(documents))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, document := range documents {
		g.Go(func() error {
			s.superviseDocument(ctx, document)
			return nil
		})
	}

	return g.Wait()
}

// superviseDocument only logs failures so one broken document does not
// stop the pass.
func (s *StatusSupervisor) superviseDocument(ctx context.Context, document *model.Document) {
	logger := s.logger.WithFields(log.Fields{"entity": document.EntityKey, "document": document.DocumentID})

	if document.SourceStatus == model.SourceStatusImporting {
		result, err := s.engine.CheckSourceStatus(ctx, document.EntityKey)
		if err != nil {
			logger.WithError(err).Warn("Failed to check the source status")
			return
		}
		logResult(logger, result)
		return
	}

	var pending, ready bool
	for _, target := range document.Targets {
		switch target.Status {
		case model.TargetStatusPending:
			pending = true
		case model.TargetStatusReady:
			ready = true
		}
	}

	if pending {
		result, err := s.engine.CheckAllTargetStatuses(ctx, document.EntityKey)
		if err != nil {
			logger.WithError(err).Warn("Failed to check the translation statuses")
			return
		}
		logResult(logger, result)
	}
	if ready {
		result, err := s.engine.DownloadQueuedTranslations(ctx, document.EntityKey)
		if err != nil {
			logger.WithError(err).Warn("Failed to download queued translations")
			return
		}
		logResult(logger, result)
	}
}

func logResult(logger log.FieldLogger, result *model.OperationResult) {
	if result == nil {
		return
	}
	for _, message := range result.Messages {
		logger.Debug(message)
	}
}
