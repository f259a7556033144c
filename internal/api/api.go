// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mattermost/tmsync/internal/engine"
	"github.com/mattermost/tmsync/model"
)

// Register registers the API endpoints on the given router.
func Register(rootRouter *mux.Router, context *Context) {
	addContext := func(handler contextHandlerFunc) *contextHandler {
		return newContextHandler(context, handler)
	}

	rootRouter.Handle("/notify", addContext(handleNotify)).Methods("GET", "POST")

	rootRouter.Handle("/documents", addContext(handleGetDocuments)).Methods("GET")
	rootRouter.Handle("/document/{key}", addContext(handleGetDocument)).Methods("GET")

	rootRouter.Handle("/entities", addContext(handleGetEntities)).Methods("GET")
	entityRouter := rootRouter.PathPrefix("/entity/{key}").Subrouter()
	entityRouter.Handle("", addContext(handleGetEntity)).Methods("GET")
	entityRouter.Handle("", addContext(handlePutEntity)).Methods("PUT")
	entityRouter.Handle("/translation/{langcode}", addContext(handleGetTranslation)).Methods("GET")
	entityRouter.Handle("/translation/{langcode}", addContext(handleTranslationEdited)).Methods("PUT")
	entityRouter.Handle("/translation/{langcode}", addContext(handleTranslationDeleted)).Methods("DELETE")
	entityRouter.Handle("/{action}", addContext(handleEntityAction)).Methods("POST")
}

// outputJSON is a helper method to write the given data as JSON to the given writer.
//
// It only logs an error if one occurs, rather than returning, since there is no point in trying
// to send a new status code back to the client once the body has started sending.
func outputJSON(c *Context, w io.Writer, data interface{}) {
	encoder := json.NewEncoder(w)
	err := encoder.Encode(data)
	if err != nil {
		c.Logger.WithError(err).Error("failed to encode result")
	}
}

func writeJSON(c *Context, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	outputJSON(c, w, data)
}

// writeOperationError maps an engine error to a response. Preconditions
// are answered with the reason so callers can show it.
func writeOperationError(c *Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrEntityNotFound):
		w.WriteHeader(http.StatusNotFound)
	case engine.IsPrecondition(err):
		c.Logger.WithError(err).Debug("Operation not allowed")
		writeJSON(c, w, http.StatusConflict, &model.OperationResult{Messages: []string{err.Error()}})
	default:
		c.Logger.WithError(err).Error("Operation failed")
		w.WriteHeader(http.StatusInternalServerError)
	}
}
