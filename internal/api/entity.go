// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mattermost/tmsync/model"
)

// maxTranslationSize bounds uploaded translation bodies.
const maxTranslationSize = 32 << 20

func handleGetEntities(c *Context, w http.ResponseWriter, r *http.Request) {
	entities, err := c.Store.GetEntities()
	if err != nil {
		c.Logger.WithError(err).Error("failed to fetch entities")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(c, w, http.StatusOK, entities)
}

func handleGetEntity(c *Context, w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	entity, err := c.Store.GetEntity(key)
	if err != nil {
		c.Logger.WithError(err).Errorf("failed to fetch entity %s", key)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if entity == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(c, w, http.StatusOK, entity)
}

// handlePutEntity responds to PUT /entity/{key}, registering or updating an
// entity and running the entity-saved hook.
func handlePutEntity(c *Context, w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	defer r.Body.Close()

	entityRequest, err := model.NewEntityRequestFromReader(r.Body)
	if err != nil {
		c.Logger.WithError(err).Warn("invalid entity request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err = c.Store.SaveEntity(entityRequest.ToEntity(key))
	if err != nil {
		c.Logger.WithError(err).Errorf("failed to store entity %s", key)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	result, err := c.Engine.EntitySaved(r.Context(), key)
	if err != nil {
		writeOperationError(c, w, err)
		return
	}

	writeJSON(c, w, http.StatusOK, result)
}

// handleEntityAction responds to POST /entity/{key}/{action}. The optional
// locale query parameter is a langcode and narrows request, check-targets,
// download and cancel to one language.
func handleEntityAction(c *Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key := vars["key"]
	langcode := r.URL.Query().Get("locale")
	ctx := r.Context()

	var result *model.OperationResult
	var err error
	switch vars["action"] {
	case model.ActionUpload:
		result, err = c.Engine.Upload(ctx, key)
	case model.ActionCheck:
		result, err = c.Engine.CheckSourceStatus(ctx, key)
	case model.ActionRequest:
		if langcode != "" {
			result, err = c.Engine.RequestTranslation(ctx, key, langcode)
		} else {
			result, err = c.Engine.RequestAllTranslations(ctx, key)
		}
	case model.ActionCheckTargets:
		if langcode != "" {
			result, err = c.Engine.CheckTargetStatus(ctx, key, langcode)
		} else {
			result, err = c.Engine.CheckAllTargetStatuses(ctx, key)
		}
	case model.ActionDownload:
		if langcode != "" {
			result, err = c.Engine.DownloadTranslation(ctx, key, langcode)
		} else {
			result, err = c.Engine.DownloadAllTranslations(ctx, key)
		}
	case model.ActionDownloadInterim:
		if langcode == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		result, err = c.Engine.DownloadInterimTranslation(ctx, key, langcode)
	case model.ActionCancel:
		if langcode != "" {
			result, err = c.Engine.CancelTarget(ctx, key, langcode)
		} else {
			result, err = c.Engine.Cancel(ctx, key)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		writeOperationError(c, w, err)
		return
	}

	writeJSON(c, w, http.StatusOK, result)
}

// handleGetTranslation responds to GET /entity/{key}/translation/{langcode}.
// The optional revision query parameter selects an archived revision.
func handleGetTranslation(c *Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	revision := r.URL.Query().Get("revision")

	translation, err := c.Engine.Translation(r.Context(), vars["key"], vars["langcode"], revision)
	if err != nil {
		writeOperationError(c, w, err)
		return
	}
	if translation == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(c, w, http.StatusOK, translation)
}

// handleTranslationEdited responds to PUT /entity/{key}/translation/{langcode}
// with the locally edited translation as body.
func handleTranslationEdited(c *Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	defer r.Body.Close()

	content, err := io.ReadAll(io.LimitReader(r.Body, maxTranslationSize))
	if err != nil {
		c.Logger.WithError(err).Warn("failed to read translation")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := c.Engine.TranslationEdited(r.Context(), vars["key"], vars["langcode"], content)
	if err != nil {
		writeOperationError(c, w, err)
		return
	}

	writeJSON(c, w, http.StatusOK, result)
}

// handleTranslationDeleted responds to DELETE /entity/{key}/translation/{langcode}.
func handleTranslationDeleted(c *Context, w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	result, err := c.Engine.TranslationDeleted(r.Context(), vars["key"], vars["langcode"])
	if err != nil {
		writeOperationError(c, w, err)
		return
	}

	writeJSON(c, w, http.StatusOK, result)
}
