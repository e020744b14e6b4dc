package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/bakery/internal/constants"
	inHttp "github.com/Alturino/bakery/internal/http"
	"github.com/Alturino/bakery/internal/log"
)

// Session resolves the browsing session that owns a cart. Clients without a
// session id get a fresh one echoed back in the response header.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(inHttp.KEY_HEADER_SESSION_ID)
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
		}

		logger := zerolog.Ctx(r.Context()).
			With().
			Str(constants.KEY_SESSION_ID, sessionID).
			Logger()
		logger.Trace().Msg("attaching session to context")

		c := log.AttachSessionIDToContext(r.Context(), sessionID)
		c = logger.WithContext(c)
		w.Header().Set(inHttp.KEY_HEADER_SESSION_ID, sessionID)

		next.ServeHTTP(w, r.WithContext(c))
	})
}
