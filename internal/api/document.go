// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// handleGetDocuments responds to GET /documents with the status of every
// tracked document.
func handleGetDocuments(c *Context, w http.ResponseWriter, r *http.Request) {
	statuses, err := c.Engine.Statuses(r.Context())
	if err != nil {
		c.Logger.WithError(err).Error("failed to fetch documents")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(c, w, http.StatusOK, statuses)
}

// handleGetDocument responds to GET /document/{key}.
func handleGetDocument(c *Context, w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	status, err := c.Engine.Status(r.Context(), key)
	if err != nil {
		writeOperationError(c, w, err)
		return
	}

	writeJSON(c, w, http.StatusOK, status)
}
