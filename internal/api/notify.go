// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/mattermost/tmsync/internal/notification"
	"github.com/mattermost/tmsync/model"
)

const nothingToSee = "It works, but nothing to look here."

// handleNotify responds to POST and GET /notify, the TMS webhook.
func handleNotify(c *Context, w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		c.Logger.WithError(err).Warn("failed to parse notification")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	n := model.NewNotificationFromURLQuery(r.Form)
	if n.IsEmpty() {
		writeNothingToSee(w)
		return
	}

	response, err := c.Dispatcher.Dispatch(r.Context(), n)
	if errors.Is(err, notification.ErrNoContent) {
		c.Logger.WithError(err).Debug("Notification ignored")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		c.Logger.WithError(err).WithField("type", n.Type).Error("failed to dispatch notification")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if response == nil {
		writeNothingToSee(w)
		return
	}

	writeJSON(c, w, http.StatusOK, response)
}

func writeNothingToSee(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(nothingToSee))
}
