package handler

import (
	"net/http"

	"github.com/sakif/sportify/internal/session"
)

// HandleHealth is a liveness probe. It also reports whether a user is
// signed in, which the shell uses to pick its first screen.
//
// HTTP: GET /api/health
func HandleHealth(sess *session.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":        "ok",
			"authenticated": sess.Authenticated(),
		})
	}
}
