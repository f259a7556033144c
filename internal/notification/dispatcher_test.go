// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package notification

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/tmsync/internal/config"
	"github.com/mattermost/tmsync/internal/engine"
	"github.com/mattermost/tmsync/internal/locale"
	"github.com/mattermost/tmsync/internal/lock"
	mock_tms "github.com/mattermost/tmsync/internal/mocks/tms"
	"github.com/mattermost/tmsync/internal/profile"
	"github.com/mattermost/tmsync/internal/store"
	"github.com/mattermost/tmsync/internal/testlib"
	"github.com/mattermost/tmsync/model"
)

const entityKey = "node:1"

var spanishOnly = model.Profile{
	ID:    "spanish-only",
	Flags: model.Flags{AutoUpload: true, AutoRequest: true, AutoDownload: true},
	LanguageOverrides: map[string]model.LanguageOverride{
		"de_DE": {Mode: model.OverrideDisabled},
	},
}

type testDispatcher struct {
	dispatcher *Dispatcher
	client     *mock_tms.MockClient
	store      *store.MemoryStore
}

func makeDispatcher(t *testing.T, settings config.Settings) *testDispatcher {
	mockController := gomock.NewController(t)
	client := mock_tms.NewMockClient(mockController)
	memory := store.NewMemoryStore()
	locker := lock.NewMemoryLocker()
	logger := testlib.MakeLogger(t)
	locales := locale.NewMapper([]config.Language{{Langcode: "en"}, {Langcode: "es"}, {Langcode: "de"}})
	profiles := profile.NewRegistry([]model.Profile{spanishOnly}, model.ProfileManual)

	e := engine.New(engine.Params{
		Documents: memory,
		Entities:  memory,
		Client:    client,
		Locales:   locales,
		Profiles:  profiles,
		Locker:    locker,
		Settings:  settings,
		Logger:    logger,
	})

	require.NoError(t, memory.SaveEntity(&model.Entity{
		EntityKey: entityKey,
		Title:     "Welcome",
		Langcode:  "en",
		Targets:   []string{"es", "de"},
		Profile:   spanishOnly.ID,
		Body:      "Hello",
	}))

	return &testDispatcher{
		dispatcher: New(Params{
			Documents: memory,
			Entities:  memory,
			Engine:    e,
			Locales:   locales,
			Profiles:  profiles,
			Locker:    locker,
			Settings:  settings,
			Logger:    logger,
		}),
		client: client,
		store:  memory,
	}
}

func (td *testDispatcher) seed(t *testing.T, fn func(*model.Document)) {
	_, err := td.store.UpdateDocument(entityKey, func(d *model.Document) error {
		fn(d)
		return nil
	})
	require.NoError(t, err)
}

func (td *testDispatcher) useProfile(t *testing.T, profileID string) {
	entity, err := td.store.GetEntity(entityKey)
	require.NoError(t, err)
	entity.Profile = profileID
	require.NoError(t, td.store.SaveEntity(entity))
}

func (td *testDispatcher) document(t *testing.T) *model.Document {
	document, err := td.store.GetDocument(entityKey)
	require.NoError(t, err)
	require.NotNil(t, document)
	return document
}

func translating(d *model.Document) {
	d.DocumentID = "doc-1"
	d.SourceStatus = model.SourceStatusCurrent
	d.EnsureTarget("es_ES", "es", model.TargetStatusPending)
	d.EnsureTarget("de_DE", "de", model.TargetStatusPending)
}

func targetNotification(notificationType model.NotificationType, complete bool, progress string) *model.Notification {
	return &model.Notification{
		DocumentID: "doc-1",
		Locale:     "es-ES",
		Type:       notificationType,
		Complete:   complete,
		Progress:   progress,
	}
}

func TestDispatchNoContent(t *testing.T) {
	ctx := context.Background()
	td := makeDispatcher(t, config.Settings{ProjectID: "project-1"})
	td.seed(t, translating)

	t.Run("health check", func(t *testing.T) {
		response, err := td.dispatcher.Dispatch(ctx, &model.Notification{})
		require.NoError(t, err)
		assert.Nil(t, response)
	})

	var testCases = []struct {
		testName     string
		notification *model.Notification
	}{
		{"unknown document", &model.Notification{DocumentID: "doc-404", Type: model.NotificationDocumentUploaded}},
		{"no document id", &model.Notification{Type: model.NotificationDocumentUploaded}},
		{"foreign project", &model.Notification{DocumentID: "doc-1", ProjectID: "project-2", Type: model.NotificationDocumentUploaded}},
		{"unmappable locale", &model.Notification{DocumentID: "doc-1", Locale: "fr_FR", Type: model.NotificationTarget, Complete: true}},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			_, err := td.dispatcher.Dispatch(ctx, tc.notification)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoContent))
		})
	}
}

func TestDispatchMalformed(t *testing.T) {
	ctx := context.Background()
	td := makeDispatcher(t, config.Settings{})
	td.seed(t, translating)

	var testCases = []struct {
		testName     string
		notification *model.Notification
	}{
		{"unknown type", &model.Notification{DocumentID: "doc-1", Type: "document_exploded"}},
		{"missing locale", &model.Notification{DocumentID: "doc-1", Type: model.NotificationTarget}},
		{"bad progress", targetNotification(model.NotificationTarget, true, "lots")},
		{"progress out of range", targetNotification(model.NotificationPhase, false, "140")},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			_, err := td.dispatcher.Dispatch(ctx, tc.notification)
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrNoContent))
		})
	}

	assert.Equal(t, model.TargetStatusPending, td.document(t).Target("es_ES").Status)
}

func TestDocumentUploaded(t *testing.T) {
	ctx := context.Background()
	td := makeDispatcher(t, config.Settings{})
	td.seed(t, func(d *model.Document) {
		d.DocumentID = "doc-1"
		d.SourceStatus = model.SourceStatusImporting
	})
	notification := &model.Notification{DocumentID: "doc-1", Type: model.NotificationDocumentUploaded}

	response, err := td.dispatcher.Dispatch(ctx, notification)
	require.NoError(t, err)
	require.NotNil(t, response.Result)
	assert.Empty(t, response.Result.RequestTranslations)
	assert.Equal(t, model.SourceStatusImporting, td.document(t).SourceStatus)

	encoded, err := json.Marshal(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":{"request_translations":[],"download":false},"messages":["Document Welcome is being imported."]}`, string(encoded))

	td.client.EXPECT().AddTarget(gomock.Any(), "doc-1", "es_ES").Return(nil).Times(1)
	notification.Complete = true

	response, err = td.dispatcher.Dispatch(ctx, notification)
	require.NoError(t, err)
	assert.Equal(t, []string{"es"}, response.Result.RequestTranslations)

	document := td.document(t)
	assert.Equal(t, model.SourceStatusCurrent, document.SourceStatus)
	assert.Equal(t, model.TargetStatusPending, document.Target("es_ES").Status)
	assert.Nil(t, document.Target("de_DE"))
}

func TestTargetNotifications(t *testing.T) {
	ctx := context.Background()

	t.Run("complete target is downloaded", func(t *testing.T) {
		td := makeDispatcher(t, config.Settings{})
		td.seed(t, translating)
		td.client.EXPECT().DownloadTarget(gomock.Any(), "doc-1", "es_ES").Return([]byte("Hola"), nil).Times(1)

		response, err := td.dispatcher.Dispatch(ctx, targetNotification(model.NotificationTarget, true, "100"))
		require.NoError(t, err)
		assert.True(t, response.Result.Download)
		assert.Contains(t, response.Messages, "Translation to es of Welcome downloaded.")
		assert.Equal(t, model.TargetStatusCurrent, td.document(t).Target("es_ES").Status)
	})

	t.Run("interim downloads disabled", func(t *testing.T) {
		td := makeDispatcher(t, config.Settings{})
		td.seed(t, translating)

		response, err := td.dispatcher.Dispatch(ctx, targetNotification(model.NotificationTarget, true, "50"))
		require.NoError(t, err)
		assert.False(t, response.Result.Download)
		assert.Equal(t, []string{"Interim downloads are disabled, so no download for target es_ES happened in document doc-1."}, response.Messages)
		assert.Equal(t, model.TargetStatusPending, td.document(t).Target("es_ES").Status)
	})

	t.Run("interim download of a phase", func(t *testing.T) {
		td := makeDispatcher(t, config.Settings{EnableDownloadInterim: true})
		td.seed(t, translating)
		td.client.EXPECT().DownloadTarget(gomock.Any(), "doc-1", "es_ES").Return([]byte("Ho"), nil).Times(1)

		response, err := td.dispatcher.Dispatch(ctx, targetNotification(model.NotificationPhase, false, "50"))
		require.NoError(t, err)
		assert.True(t, response.Result.Download)
		assert.Equal(t, model.TargetStatusIntermediate, td.document(t).Target("es_ES").Status)
	})

	t.Run("requested interim download", func(t *testing.T) {
		td := makeDispatcher(t, config.Settings{})
		td.seed(t, translating)

		response, err := td.dispatcher.Dispatch(ctx, targetNotification(model.NotificationDownloadInterim, false, ""))
		require.NoError(t, err)
		assert.False(t, response.Result.Download)
		assert.Equal(t, model.TargetStatusPending, td.document(t).Target("es_ES").Status)
	})

	t.Run("disabled locale is never touched", func(t *testing.T) {
		td := makeDispatcher(t, config.Settings{})
		td.seed(t, translating)
		notification := targetNotification(model.NotificationTarget, true, "100")
		notification.Locale = "de_DE"

		response, err := td.dispatcher.Dispatch(ctx, notification)
		require.NoError(t, err)
		assert.False(t, response.Result.Download)
		assert.Equal(t, model.TargetStatusPending, td.document(t).Target("de_DE").Status)
	})

	t.Run("cancelled target is sticky", func(t *testing.T) {
		td := makeDispatcher(t, config.Settings{})
		td.seed(t, translating)

		_, err := td.dispatcher.Dispatch(ctx, &model.Notification{DocumentID: "doc-1", LocaleCode: "es_ES", Type: model.NotificationTargetCancelled})
		require.NoError(t, err)

		document := td.document(t)
		assert.Equal(t, model.TargetStatusCancelled, document.Target("es_ES").Status)
		assert.Equal(t, model.TargetStatusPending, document.Target("de_DE").Status)
		assert.Equal(t, model.SourceStatusCurrent, document.SourceStatus)

		response, err := td.dispatcher.Dispatch(ctx, targetNotification(model.NotificationTarget, true, "100"))
		require.NoError(t, err)
		assert.False(t, response.Result.Download)
		assert.Equal(t, model.TargetStatusCancelled, td.document(t).Target("es_ES").Status)
	})

	t.Run("deleted target", func(t *testing.T) {
		td := makeDispatcher(t, config.Settings{})
		td.seed(t, translating)

		_, err := td.dispatcher.Dispatch(ctx, &model.Notification{DocumentID: "doc-1", Locale: "es_ES", Type: model.NotificationTargetDeleted})
		require.NoError(t, err)

		document := td.document(t)
		assert.Equal(t, model.TargetStatusUntracked, document.Target("es_ES").Status)
		assert.Equal(t, "doc-1", document.DocumentID)
	})

	t.Run("notifications in a row download once", func(t *testing.T) {
		td := makeDispatcher(t, config.Settings{})
		td.seed(t, translating)
		td.client.EXPECT().DownloadTarget(gomock.Any(), "doc-1", "es_ES").Return([]byte("Hola"), nil).Times(1)

		var mu sync.Mutex
		downloads := 0
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				response, err := td.dispatcher.Dispatch(ctx, targetNotification(model.NotificationTarget, true, "100"))
				if !assert.NoError(t, err) {
					return
				}
				if response.Result.Download {
					mu.Lock()
					downloads++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, downloads)
		assert.Equal(t, model.TargetStatusCurrent, td.document(t).Target("es_ES").Status)
	})
}

func TestDownloadEligibility(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		testName         string
		profile          string
		interim          bool
		notification     *model.Notification
		expectedDownload bool
		expectedStatus   model.TargetStatus
		expectedMessage  string
	}{
		{
			testName:         "finished phase under the interim setting",
			profile:          model.ProfileManual,
			interim:          true,
			notification:     targetNotification(model.NotificationPhase, true, "100"),
			expectedDownload: true,
			expectedStatus:   model.TargetStatusCurrent,
		},
		{
			testName:         "finished phase without the interim setting",
			profile:          model.ProfileManual,
			notification:     targetNotification(model.NotificationPhase, true, "100"),
			expectedDownload: false,
			expectedStatus:   model.TargetStatusReady,
			expectedMessage:  "Translation to es_ES of Welcome is ready for download.",
		},
		{
			testName:         "requested interim download under the interim setting",
			profile:          model.ProfileManual,
			interim:          true,
			notification:     targetNotification(model.NotificationDownloadInterim, false, ""),
			expectedDownload: true,
			expectedStatus:   model.TargetStatusIntermediate,
		},
		{
			testName:         "partial target under a manual profile",
			profile:          model.ProfileManual,
			interim:          true,
			notification:     targetNotification(model.NotificationTarget, true, "50"),
			expectedDownload: false,
			expectedStatus:   model.TargetStatusPending,
			expectedMessage:  "Automatic downloads are disabled for Welcome, so no interim download for target es_ES happened in document doc-1.",
		},
		{
			testName:         "finished target under a manual profile",
			profile:          model.ProfileManual,
			interim:          true,
			notification:     targetNotification(model.NotificationTarget, true, "100"),
			expectedDownload: false,
			expectedStatus:   model.TargetStatusReady,
			expectedMessage:  "Translation to es_ES of Welcome is ready for download.",
		},
		{
			testName:         "partial target under an automatic profile",
			profile:          spanishOnly.ID,
			interim:          true,
			notification:     targetNotification(model.NotificationTarget, true, "50"),
			expectedDownload: true,
			expectedStatus:   model.TargetStatusIntermediate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			td := makeDispatcher(t, config.Settings{EnableDownloadInterim: tc.interim})
			td.useProfile(t, tc.profile)
			td.seed(t, translating)
			if tc.expectedDownload {
				td.client.EXPECT().DownloadTarget(gomock.Any(), "doc-1", "es_ES").Return([]byte("Hola"), nil).Times(1)
			}

			response, err := td.dispatcher.Dispatch(ctx, tc.notification)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedDownload, response.Result.Download)
			assert.Equal(t, tc.expectedStatus, td.document(t).Target("es_ES").Status)
			if tc.expectedMessage != "" {
				assert.Contains(t, response.Messages, tc.expectedMessage)
			}
		})
	}
}

func TestDocumentNotifications(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted document", func(t *testing.T) {
		td := makeDispatcher(t, config.Settings{})
		td.seed(t, translating)
		notification := &model.Notification{DocumentID: "doc-1", Type: model.NotificationDocumentDeleted, DeletedByUserLogin: "jdoe"}

		response, err := td.dispatcher.Dispatch(ctx, notification)
		require.NoError(t, err)
		assert.Nil(t, response.Result)
		assert.Equal(t, []string{"Document Welcome has been deleted in the TMS by jdoe."}, response.Messages)

		document := td.document(t)
		assert.Empty(t, document.DocumentID)
		assert.Equal(t, model.SourceStatusUntracked, document.SourceStatus)
		for _, target := range document.Targets {
			assert.Equal(t, model.TargetStatusUntracked, target.Status)
		}

		_, err = td.dispatcher.Dispatch(ctx, notification)
		assert.True(t, errors.Is(err, ErrNoContent))
	})

	t.Run("cancelled document", func(t *testing.T) {
		td := makeDispatcher(t, config.Settings{})
		td.seed(t, translating)

		_, err := td.dispatcher.Dispatch(ctx, &model.Notification{DocumentID: "doc-1", Type: model.NotificationDocumentCancelled})
		require.NoError(t, err)

		document := td.document(t)
		assert.Empty(t, document.DocumentID)
		assert.Equal(t, model.SourceStatusCancelled, document.SourceStatus)
		assert.Equal(t, model.TargetStatusCancelled, document.Target("es_ES").Status)
	})

	t.Run("import failure reverts to the previous id", func(t *testing.T) {
		td := makeDispatcher(t, config.Settings{})
		td.seed(t, func(d *model.Document) {
			d.DocumentID = "doc-2"
			d.PreviousDocumentID = "doc-1"
			d.SourceStatus = model.SourceStatusImporting
		})

		response, err := td.dispatcher.Dispatch(ctx, &model.Notification{
			DocumentID:     "doc-2",
			PrevDocumentID: "doc-1",
			Type:           model.NotificationImportFailure,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Document import for entity Welcome failed. Reverting doc-2 to previous id (doc-1)"}, response.Messages)

		document := td.document(t)
		assert.Equal(t, "doc-1", document.DocumentID)
		assert.Empty(t, document.PreviousDocumentID)
		assert.Equal(t, model.SourceStatusError, document.SourceStatus)
	})

	t.Run("import failure without a previous id", func(t *testing.T) {
		td := makeDispatcher(t, config.Settings{})
		td.seed(t, func(d *model.Document) {
			d.DocumentID = "doc-1"
			d.SourceStatus = model.SourceStatusImporting
		})

		response, err := td.dispatcher.Dispatch(ctx, &model.Notification{DocumentID: "doc-1", Type: model.NotificationImportFailure})
		require.NoError(t, err)
		assert.Equal(t, []string{"Document import for entity Welcome failed. Reverting doc-1 to previous id (NULL)"}, response.Messages)

		document := td.document(t)
		assert.Empty(t, document.DocumentID)
		assert.Equal(t, model.SourceStatusError, document.SourceStatus)
	})
}
