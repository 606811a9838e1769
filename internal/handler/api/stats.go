// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
)

// statsBody is the body of the dashboard stats endpoint.
type statsBody struct {
	Posts int64 `json:"posts"`
	Pages int64 `json:"pages"`
	Media int64 `json:"media"`
	Users int64 `json:"users"`
}

// Stats returns record counts for the admin dashboard.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		body statsBody
		err  error
	)
	if body.Posts, err = h.queries.CountPosts(ctx); err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	if body.Pages, err = h.queries.CountPages(ctx); err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	if body.Media, err = h.queries.CountMedia(ctx); err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	if body.Users, err = h.queries.CountUsers(ctx); err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, body)
}
