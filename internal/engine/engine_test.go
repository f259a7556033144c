// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/tmsync/internal/config"
	"github.com/mattermost/tmsync/internal/locale"
	"github.com/mattermost/tmsync/internal/lock"
	mock_tms "github.com/mattermost/tmsync/internal/mocks/tms"
	"github.com/mattermost/tmsync/internal/profile"
	"github.com/mattermost/tmsync/internal/store"
	"github.com/mattermost/tmsync/internal/testlib"
	"github.com/mattermost/tmsync/internal/tms"
	"github.com/mattermost/tmsync/model"
)

const entityKey = "node:1"

type recordingArchive struct {
	mu       sync.Mutex
	stored   []string
	contents map[string][]byte
}

func (a *recordingArchive) StoreTranslation(ctx context.Context, entityKey, langcode, revision string, content []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := entityKey + "/" + langcode + "/" + revision
	a.stored = append(a.stored, key)
	if a.contents == nil {
		a.contents = make(map[string][]byte)
	}
	a.contents[key] = content
	return nil
}

func (a *recordingArchive) HasTranslation(ctx context.Context, entityKey, langcode, revision string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.contents[entityKey+"/"+langcode+"/"+revision]
	return ok, nil
}

func (a *recordingArchive) GetTranslation(ctx context.Context, entityKey, langcode, revision string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	content, ok := a.contents[entityKey+"/"+langcode+"/"+revision]
	if !ok {
		return nil, errors.New("not archived")
	}
	return content, nil
}

type testEngine struct {
	engine  *Engine
	client  *mock_tms.MockClient
	store   *store.MemoryStore
	archive *recordingArchive
	now     time.Time
}

var disabledSpanish = model.Profile{
	ID:    "no-spanish",
	Flags: model.Flags{AutoRequest: true},
	LanguageOverrides: map[string]model.LanguageOverride{
		"es_ES": {Mode: model.OverrideDisabled},
	},
}

var workerDownloads = model.Profile{
	ID:    "worker",
	Flags: model.Flags{AutoDownload: true, AutoDownloadWorker: true},
}

func makeEngine(t *testing.T) *testEngine {
	mockController := gomock.NewController(t)
	te := &testEngine{
		client:  mock_tms.NewMockClient(mockController),
		store:   store.NewMemoryStore(),
		archive: &recordingArchive{},
		now:     time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
	te.engine = New(Params{
		Documents: te.store,
		Entities:  te.store,
		Client:    te.client,
		Locales: locale.NewMapper([]config.Language{
			{Langcode: "en"},
			{Langcode: "es"},
			{Langcode: "de"},
		}),
		Profiles: profile.NewRegistry([]model.Profile{disabledSpanish, workerDownloads}, model.ProfileManual),
		Locker:   lock.NewMemoryLocker(),
		Archive:  te.archive,
		Settings: config.Settings{StaleUploadThreshold: time.Hour},
		Now:      func() time.Time { return te.now },
		Logger:   testlib.MakeLogger(t),
	})

	return te
}

func (te *testEngine) addEntity(t *testing.T, profileID string) {
	require.NoError(t, te.store.SaveEntity(&model.Entity{
		EntityKey: entityKey,
		Title:     "Welcome",
		Langcode:  "en",
		Targets:   []string{"es", "de"},
		Profile:   profileID,
		Body:      "Hello",
	}))
}

func (te *testEngine) seed(t *testing.T, fn func(*model.Document)) {
	_, err := te.store.UpdateDocument(entityKey, func(d *model.Document) error {
		fn(d)
		return nil
	})
	require.NoError(t, err)
}

func (te *testEngine) document(t *testing.T) *model.Document {
	document, err := te.store.GetDocument(entityKey)
	require.NoError(t, err)
	require.NotNil(t, document)
	return document
}

func current(d *model.Document) {
	d.DocumentID = "doc-1"
	d.SourceStatus = model.SourceStatusCurrent
	d.SourceRevision = model.ContentRevision([]byte("Hello"))
}

func withTarget(locale, langcode string, targetStatus model.TargetStatus) func(*model.Document) {
	return func(d *model.Document) {
		current(d)
		d.EnsureTarget(locale, langcode, targetStatus)
	}
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("first upload", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.client.EXPECT().
			UploadDocument(gomock.Any(), "Welcome", []byte("Hello"), "en_US").
			Return("doc-1", nil).
			Times(1)

		result, err := te.engine.Upload(ctx, entityKey)
		require.NoError(t, err)
		assert.Contains(t, result.Messages, "Uploaded Welcome to the TMS.")
		assert.Equal(t, model.SourceStatusImporting, result.Document.SourceStatus)
		assert.Equal(t, "doc-1", result.Document.DocumentID)

		document := te.document(t)
		assert.Equal(t, model.Millis(te.now), document.UploadedAt)
		assert.Equal(t, model.ContentRevision([]byte("Hello")), document.SourceRevision)
	})

	t.Run("new version keeps the previous id", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, func(d *model.Document) {
			withTarget("es_ES", "es", model.TargetStatusCurrent)(d)
			d.SourceStatus = model.SourceStatusEdited
		})
		te.client.EXPECT().
			UpdateDocument(gomock.Any(), "doc-1", "Welcome", []byte("Hello")).
			Return("doc-2", nil).
			Times(1)

		result, err := te.engine.Upload(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, "doc-2", result.Document.DocumentID)
		assert.Equal(t, "doc-1", result.Document.PreviousDocumentID)
		assert.Equal(t, model.TargetStatusPending, result.Document.Targets["es"])
	})

	t.Run("payment required", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.client.EXPECT().
			UploadDocument(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", tms.ErrPaymentRequired).
			Times(1)

		result, err := te.engine.Upload(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, []string{PaymentRequiredMessage}, result.Messages)
		assert.Equal(t, model.SourceStatusError, result.Document.SourceStatus)
	})

	t.Run("archived document is forgotten", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusCurrent))
		te.client.EXPECT().
			UpdateDocument(gomock.Any(), "doc-1", gomock.Any(), gomock.Any()).
			Return("", tms.ErrDocumentArchived).
			Times(1)

		result, err := te.engine.Upload(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, []string{"Document Welcome has been archived. Please upload again."}, result.Messages)
		assert.Empty(t, result.Document.DocumentID)
		assert.Equal(t, model.SourceStatusUntracked, result.Document.SourceStatus)
		assert.Equal(t, model.TargetStatusUntracked, result.Document.Targets["es"])
	})

	t.Run("disabled profile", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileDisabled)

		_, err := te.engine.Upload(ctx, entityKey)
		require.Error(t, err)
		assert.True(t, IsPrecondition(err))
	})

	t.Run("unknown entity", func(t *testing.T) {
		te := makeEngine(t)

		_, err := te.engine.Upload(ctx, entityKey)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEntityNotFound))
	})
}

func TestCheckSourceStatus(t *testing.T) {
	ctx := context.Background()

	importing := func(uploadedAgo time.Duration, now time.Time) func(*model.Document) {
		return func(d *model.Document) {
			d.DocumentID = "doc-1"
			d.PreviousDocumentID = "doc-0"
			d.SourceStatus = model.SourceStatusImporting
			d.UploadedAt = model.Millis(now.Add(-uploadedAgo))
		}
	}

	t.Run("complete import requests automatic translations", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileAutomatic)
		te.seed(t, importing(time.Minute, te.now))
		te.client.EXPECT().
			GetDocumentStatus(gomock.Any(), "doc-1").
			Return(&tms.Progress{Complete: true, Progress: 100}, nil).
			Times(1)
		te.client.EXPECT().AddTarget(gomock.Any(), "doc-1", "es_ES").Return(nil).Times(1)
		te.client.EXPECT().AddTarget(gomock.Any(), "doc-1", "de_DE").Return(nil).Times(1)

		result, err := te.engine.CheckSourceStatus(ctx, entityKey)
		require.NoError(t, err)
		assert.Contains(t, result.Messages, "The import for Welcome is complete.")
		assert.Equal(t, model.SourceStatusCurrent, result.Document.SourceStatus)
		assert.Empty(t, result.Document.PreviousDocumentID)
		assert.Equal(t, model.TargetStatusPending, result.Document.Targets["es"])
		assert.Equal(t, model.TargetStatusPending, result.Document.Targets["de"])
	})

	t.Run("import still running", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, importing(time.Minute, te.now))
		te.client.EXPECT().
			GetDocumentStatus(gomock.Any(), "doc-1").
			Return(&tms.Progress{Progress: 40}, nil).
			Times(1)

		result, err := te.engine.CheckSourceStatus(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, []string{"The import for Welcome is still pending."}, result.Messages)
		assert.Equal(t, model.SourceStatusImporting, result.Document.SourceStatus)
		assert.Equal(t, model.Millis(te.now), te.document(t).CheckedAt)
	})

	t.Run("stale import fails", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, importing(2*time.Hour, te.now))
		te.client.EXPECT().
			GetDocumentStatus(gomock.Any(), "doc-1").
			Return(&tms.Progress{Progress: 40}, nil).
			Times(1)

		result, err := te.engine.CheckSourceStatus(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, model.SourceStatusError, result.Document.SourceStatus)
	})

	t.Run("unknown document keeps its state", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, importing(time.Minute, te.now))
		te.client.EXPECT().
			GetDocumentStatus(gomock.Any(), "doc-1").
			Return(nil, tms.ErrDocumentNotFound).
			Times(1)

		result, err := te.engine.CheckSourceStatus(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, []string{"The import status check for Welcome failed, the TMS does not know the document."}, result.Messages)
		assert.Equal(t, "doc-1", result.Document.DocumentID)
		assert.Equal(t, model.SourceStatusImporting, result.Document.SourceStatus)
	})

	t.Run("never uploaded", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)

		_, err := te.engine.CheckSourceStatus(ctx, entityKey)
		assert.True(t, IsPrecondition(err))
	})
}

func TestRequestTranslation(t *testing.T) {
	ctx := context.Background()

	t.Run("source not current", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, func(d *model.Document) {
			d.DocumentID = "doc-1"
			d.SourceStatus = model.SourceStatusImporting
		})

		_, err := te.engine.RequestTranslation(ctx, entityKey, "es")
		assert.True(t, IsPrecondition(err))
	})

	t.Run("request", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, current)
		te.client.EXPECT().AddTarget(gomock.Any(), "doc-1", "es_ES").Return(nil).Times(1)

		result, err := te.engine.RequestTranslation(ctx, entityKey, "es")
		require.NoError(t, err)
		assert.Equal(t, []string{"Translation to es of Welcome requested."}, result.Messages)
		assert.Equal(t, model.TargetStatusPending, result.Document.Targets["es"])
		assert.Equal(t, model.TargetStatusRequest, result.Document.Targets["de"])
		assert.Equal(t, model.Millis(te.now), te.document(t).Target("es_ES").RequestedAt)
	})

	t.Run("already requested", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusPending))

		result, err := te.engine.RequestTranslation(ctx, entityKey, "es")
		require.NoError(t, err)
		assert.Equal(t, []string{"Translation to es of Welcome was already requested."}, result.Messages)
	})

	t.Run("transient failure leaves the target to request", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, current)
		te.client.EXPECT().AddTarget(gomock.Any(), "doc-1", "es_ES").Return(errors.New("timeout")).Times(1)

		result, err := te.engine.RequestTranslation(ctx, entityKey, "es")
		require.NoError(t, err)
		assert.Equal(t, []string{"Requesting translation to es for Welcome failed. Please try again."}, result.Messages)
		assert.Equal(t, model.TargetStatusRequest, te.document(t).Target("es_ES").Status)
		assert.Equal(t, model.SourceStatusCurrent, result.Document.SourceStatus)
	})

	t.Run("cancelled target is recreated", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusCancelled))
		te.client.EXPECT().AddTarget(gomock.Any(), "doc-1", "es_ES").Return(nil).Times(1)

		result, err := te.engine.RequestTranslation(ctx, entityKey, "es")
		require.NoError(t, err)
		assert.Equal(t, model.TargetStatusPending, result.Document.Targets["es"])
	})

	t.Run("disabled locale", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, disabledSpanish.ID)
		te.seed(t, current)

		_, err := te.engine.RequestTranslation(ctx, entityKey, "es")
		assert.True(t, IsPrecondition(err))
	})

	t.Run("unconfigured language", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, current)

		_, err := te.engine.RequestTranslation(ctx, entityKey, "fr")
		assert.True(t, IsPrecondition(err))
	})

	t.Run("request all stops on a locked document", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, current)
		te.client.EXPECT().
			AddTarget(gomock.Any(), "doc-1", "es_ES").
			Return(&tms.DocumentLockedError{NewDocumentID: "doc-9"}).
			Times(1)

		result, err := te.engine.RequestAllTranslations(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, "doc-9", result.Document.DocumentID)
		assert.Equal(t, model.SourceStatusImporting, result.Document.SourceStatus)
		assert.Equal(t, model.TargetStatusRequest, te.document(t).Target("es_ES").Status)
		assert.Nil(t, te.document(t).Target("de_DE"))
	})

	t.Run("request all skips disabled locales", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, disabledSpanish.ID)
		te.seed(t, current)
		te.client.EXPECT().AddTarget(gomock.Any(), "doc-1", "de_DE").Return(nil).Times(1)

		result, err := te.engine.RequestAllTranslations(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, model.TargetStatusDisabled, result.Document.Targets["es"])
		assert.Equal(t, model.TargetStatusPending, result.Document.Targets["de"])
	})

	t.Run("automatic requests leave cancelled targets alone", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileAutomatic)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusCancelled))
		te.client.EXPECT().AddTarget(gomock.Any(), "doc-1", "de_DE").Return(nil).Times(1)

		_, requested, err := te.engine.RequestAutomaticTranslations(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, []string{"de"}, requested)
		assert.Equal(t, model.TargetStatusCancelled, te.document(t).Target("es_ES").Status)
	})

	t.Run("concurrent requests call the TMS once", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, current)
		te.client.EXPECT().AddTarget(gomock.Any(), "doc-1", "es_ES").Return(nil).Times(1)

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := te.engine.RequestTranslation(ctx, entityKey, "es")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, model.TargetStatusPending, te.document(t).Target("es_ES").Status)
	})
}

func TestCheckTargetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("ready translation is downloaded automatically", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileAutomatic)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusPending))
		te.client.EXPECT().
			GetTargetStatus(gomock.Any(), "doc-1", "es_ES").
			Return(&tms.Progress{Complete: true, Progress: 100}, nil).
			Times(1)
		te.client.EXPECT().
			DownloadTarget(gomock.Any(), "doc-1", "es_ES").
			Return([]byte("Hola"), nil).
			Times(1)

		result, err := te.engine.CheckTargetStatus(ctx, entityKey, "es")
		require.NoError(t, err)
		assert.Equal(t, model.TargetStatusCurrent, result.Document.Targets["es"])

		revision := model.ContentRevision([]byte("Hola"))
		assert.Equal(t, revision, te.document(t).Target("es_ES").DownloadedRevision)
		translation, err := te.store.GetTranslation(entityKey, "es")
		require.NoError(t, err)
		require.NotNil(t, translation)
		assert.Equal(t, "Hola", translation.Content)
		assert.Equal(t, []string{entityKey + "/es/" + revision}, te.archive.stored)
	})

	t.Run("ready translation waits for a manual download", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusPending))
		te.client.EXPECT().
			GetTargetStatus(gomock.Any(), "doc-1", "es_ES").
			Return(&tms.Progress{Complete: true, Progress: 100}, nil).
			Times(1)

		result, err := te.engine.CheckTargetStatus(ctx, entityKey, "es")
		require.NoError(t, err)
		assert.Equal(t, []string{"Translation to es of Welcome is ready for download."}, result.Messages)
		assert.Equal(t, model.TargetStatusReady, result.Document.Targets["es"])
	})

	t.Run("failure never regresses the target", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusPending))
		te.client.EXPECT().
			GetTargetStatus(gomock.Any(), "doc-1", "es_ES").
			Return(nil, errors.New("boom")).
			Times(1)

		result, err := te.engine.CheckTargetStatus(ctx, entityKey, "es")
		require.NoError(t, err)
		assert.Equal(t, []string{"Checking the translation to es for Welcome failed. Please try again."}, result.Messages)
		assert.Equal(t, model.TargetStatusPending, result.Document.Targets["es"])
	})

	t.Run("unknown target leaves the document alone", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, func(d *model.Document) {
			withTarget("es_ES", "es", model.TargetStatusCurrent)(d)
			d.EnsureTarget("de_DE", "de", model.TargetStatusPending)
		})
		te.client.EXPECT().
			GetTargetStatus(gomock.Any(), "doc-1", "de_DE").
			Return(nil, tms.ErrDocumentNotFound).
			Times(1)

		result, err := te.engine.CheckTargetStatus(ctx, entityKey, "de")
		require.NoError(t, err)
		assert.Equal(t, []string{"Checking the translation to de for Welcome failed, the TMS does not know the document."}, result.Messages)

		document := te.document(t)
		assert.Equal(t, "doc-1", document.DocumentID)
		assert.Equal(t, model.SourceStatusCurrent, document.SourceStatus)
		assert.Equal(t, model.TargetStatusCurrent, document.Target("es_ES").Status)
		assert.Equal(t, model.TargetStatusPending, document.Target("de_DE").Status)
	})

	t.Run("check all skips cancelled targets", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, func(d *model.Document) {
			withTarget("es_ES", "es", model.TargetStatusPending)(d)
			d.EnsureTarget("de_DE", "de", model.TargetStatusCancelled)
		})
		te.client.EXPECT().
			GetTargetStatus(gomock.Any(), "doc-1", "es_ES").
			Return(&tms.Progress{Progress: 50}, nil).
			Times(1)

		result, err := te.engine.CheckAllTargetStatuses(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, model.TargetStatusPending, result.Document.Targets["es"])
		assert.Equal(t, model.TargetStatusCancelled, result.Document.Targets["de"])
	})
}

func TestDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("download", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusReady))
		te.client.EXPECT().DownloadTarget(gomock.Any(), "doc-1", "es_ES").Return([]byte("Hola"), nil).Times(1)

		result, err := te.engine.DownloadTranslation(ctx, entityKey, "es")
		require.NoError(t, err)
		assert.Equal(t, []string{"Translation to es of Welcome downloaded."}, result.Messages)
		assert.Equal(t, model.TargetStatusCurrent, result.Document.Targets["es"])
	})

	t.Run("interim download", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusPending))
		te.client.EXPECT().DownloadTarget(gomock.Any(), "doc-1", "es_ES").Return([]byte("Ho"), nil).Times(1)

		result, err := te.engine.DownloadInterimTranslation(ctx, entityKey, "es")
		require.NoError(t, err)
		assert.Equal(t, model.TargetStatusIntermediate, result.Document.Targets["es"])
	})

	t.Run("cancelled target is not downloaded", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusCancelled))

		_, err := te.engine.DownloadTranslation(ctx, entityKey, "es")
		assert.True(t, IsPrecondition(err))
	})

	t.Run("failed download", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusReady))
		te.client.EXPECT().DownloadTarget(gomock.Any(), "doc-1", "es_ES").Return(nil, errors.New("boom")).Times(1)

		result, err := te.engine.DownloadTranslation(ctx, entityKey, "es")
		require.NoError(t, err)
		assert.Equal(t, model.TargetStatusError, result.Document.Targets["es"])
	})

	t.Run("automatic download skips current translations", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileAutomatic)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusCurrent))

		result, downloaded, err := te.engine.AutoDownload(ctx, entityKey, "es", false)
		require.NoError(t, err)
		assert.False(t, downloaded)
		assert.Equal(t, model.TargetStatusCurrent, result.Document.Targets["es"])
	})

	t.Run("download all", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, func(d *model.Document) {
			withTarget("es_ES", "es", model.TargetStatusReady)(d)
			d.EnsureTarget("de_DE", "de", model.TargetStatusPending)
		})
		te.client.EXPECT().DownloadTarget(gomock.Any(), "doc-1", "es_ES").Return([]byte("Hola"), nil).Times(1)

		result, err := te.engine.DownloadAllTranslations(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, model.TargetStatusCurrent, result.Document.Targets["es"])
		assert.Equal(t, model.TargetStatusPending, result.Document.Targets["de"])
	})

	t.Run("worker downloads queued translations", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, workerDownloads.ID)
		te.seed(t, func(d *model.Document) {
			withTarget("es_ES", "es", model.TargetStatusReady)(d)
			d.EnsureTarget("de_DE", "de", model.TargetStatusPending)
		})
		te.client.EXPECT().DownloadTarget(gomock.Any(), "doc-1", "es_ES").Return([]byte("Hola"), nil).Times(1)

		result, err := te.engine.DownloadQueuedTranslations(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, model.TargetStatusCurrent, result.Document.Targets["es"])
		assert.Equal(t, model.TargetStatusPending, result.Document.Targets["de"])
	})

	t.Run("worker leaves manual profiles alone", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusReady))

		result, err := te.engine.DownloadQueuedTranslations(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, model.TargetStatusReady, result.Document.Targets["es"])
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel document", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusPending))
		te.client.EXPECT().CancelDocument(gomock.Any(), "doc-1").Return(nil).Times(1)

		result, err := te.engine.Cancel(ctx, entityKey)
		require.NoError(t, err)
		assert.Empty(t, result.Document.DocumentID)
		assert.Equal(t, model.SourceStatusCancelled, result.Document.SourceStatus)
		assert.Equal(t, model.TargetStatusCancelled, result.Document.Targets["es"])
	})

	t.Run("cancel target", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, withTarget("es_ES", "es", model.TargetStatusPending))
		te.client.EXPECT().CancelTarget(gomock.Any(), "doc-1", "es_ES").Return(nil).Times(1)

		result, err := te.engine.CancelTarget(ctx, entityKey, "es")
		require.NoError(t, err)
		assert.Equal(t, model.TargetStatusCancelled, result.Document.Targets["es"])
		assert.Equal(t, "doc-1", result.Document.DocumentID)
	})
}

func TestEntitySaved(t *testing.T) {
	ctx := context.Background()

	t.Run("edit marks the source and translations edited", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileManual)
		te.seed(t, func(d *model.Document) {
			withTarget("es_ES", "es", model.TargetStatusCurrent)(d)
			d.SourceRevision = "older"
		})

		result, err := te.engine.EntitySaved(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, model.SourceStatusEdited, result.Document.SourceStatus)
		assert.Equal(t, model.TargetStatusEdited, result.Document.Targets["es"])
	})

	t.Run("automatic profile uploads", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileAutomatic)
		te.client.EXPECT().
			UploadDocument(gomock.Any(), "Welcome", []byte("Hello"), "en_US").
			Return("doc-1", nil).
			Times(1)

		result, err := te.engine.EntitySaved(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, model.SourceStatusImporting, result.Document.SourceStatus)
	})

	t.Run("unchanged entity is not uploaded again", func(t *testing.T) {
		te := makeEngine(t)
		te.addEntity(t, model.ProfileAutomatic)
		te.seed(t, current)

		result, err := te.engine.EntitySaved(ctx, entityKey)
		require.NoError(t, err)
		assert.Equal(t, model.SourceStatusCurrent, result.Document.SourceStatus)
	})
}

func TestLocalTranslationChanges(t *testing.T) {
	ctx := context.Background()
	te := makeEngine(t)
	te.addEntity(t, model.ProfileManual)
	te.seed(t, func(d *model.Document) {
		withTarget("es_ES", "es", model.TargetStatusCurrent)(d)
		d.Target("es_ES").DownloadedRevision = model.ContentRevision([]byte("Hola"))
	})

	result, err := te.engine.TranslationEdited(ctx, entityKey, "es", []byte("Hola"))
	require.NoError(t, err)
	assert.Equal(t, model.TargetStatusCurrent, result.Document.Targets["es"])

	result, err = te.engine.TranslationEdited(ctx, entityKey, "es", []byte("¡Hola!"))
	require.NoError(t, err)
	assert.Equal(t, model.TargetStatusEdited, result.Document.Targets["es"])

	result, err = te.engine.TranslationDeleted(ctx, entityKey, "es")
	require.NoError(t, err)
	assert.Equal(t, model.TargetStatusReady, result.Document.Targets["es"])
	assert.Empty(t, te.document(t).Target("es_ES").DownloadedRevision)

	translation, err := te.store.GetTranslation(entityKey, "es")
	require.NoError(t, err)
	assert.Nil(t, translation)
}

func TestTranslation(t *testing.T) {
	ctx := context.Background()
	te := makeEngine(t)
	te.addEntity(t, model.ProfileManual)
	te.seed(t, withTarget("es_ES", "es", model.TargetStatusReady))
	te.client.EXPECT().DownloadTarget(gomock.Any(), "doc-1", "es_ES").Return([]byte("Hola"), nil).Times(1)

	translation, err := te.engine.Translation(ctx, entityKey, "es", "")
	require.NoError(t, err)
	assert.Nil(t, translation)

	_, err = te.engine.DownloadTranslation(ctx, entityKey, "es")
	require.NoError(t, err)
	_, err = te.engine.TranslationEdited(ctx, entityKey, "es", []byte("¡Hola!"))
	require.NoError(t, err)

	t.Run("local translation", func(t *testing.T) {
		translation, err := te.engine.Translation(ctx, entityKey, "es", "")
		require.NoError(t, err)
		require.NotNil(t, translation)
		assert.Equal(t, "¡Hola!", translation.Content)

		same, err := te.engine.Translation(ctx, entityKey, "es", translation.Revision)
		require.NoError(t, err)
		assert.Equal(t, translation, same)
	})

	t.Run("archived revision", func(t *testing.T) {
		revision := model.ContentRevision([]byte("Hola"))
		translation, err := te.engine.Translation(ctx, entityKey, "es", revision)
		require.NoError(t, err)
		require.NotNil(t, translation)
		assert.Equal(t, "Hola", translation.Content)
		assert.Equal(t, revision, translation.Revision)
	})

	t.Run("unknown revision", func(t *testing.T) {
		translation, err := te.engine.Translation(ctx, entityKey, "es", "nope")
		require.NoError(t, err)
		assert.Nil(t, translation)
	})

	t.Run("unknown entity", func(t *testing.T) {
		_, err := te.engine.Translation(ctx, "node:404", "es", "")
		assert.True(t, errors.Is(err, ErrEntityNotFound))
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	te := makeEngine(t)
	te.addEntity(t, disabledSpanish.ID)

	view, err := te.engine.Status(ctx, entityKey)
	require.NoError(t, err)
	assert.Equal(t, model.SourceStatusUntracked, view.SourceStatus)
	assert.Equal(t, model.TargetStatusDisabled, view.Targets["es"])
	assert.Equal(t, model.TargetStatusUntracked, view.Targets["de"])

	te.seed(t, current)
	statuses, err := te.engine.Statuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "Welcome", statuses[0].Label)
	assert.Equal(t, model.TargetStatusRequest, statuses[0].Targets["de"])

	_, err = te.engine.Status(ctx, "node:404")
	assert.True(t, errors.Is(err, ErrEntityNotFound))
}
