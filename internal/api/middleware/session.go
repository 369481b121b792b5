package middleware

import (
	"net/http"
	"strings"

	"github.com/phrazzld/task-manager/internal/api/shared"
)

// RequireSession rejects requests without a non-blank X-Session-ID header
// with 400 and stores the header value in the request context otherwise.
// The value is passed through verbatim.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(shared.SessionHeader)
		if strings.TrimSpace(sessionID) == "" {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Session ID is required")
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.SetSessionID(r.Context(), sessionID)))
	})
}
