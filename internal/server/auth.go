package server

import (
	"context"
	"net/http"

	"mediamend/internal/sessions"
)

// SessionResolver resolves a presented token to a live session. A nil session
// with a nil error means the token is unknown or expired.
type SessionResolver interface {
	Lookup(ctx context.Context, token string) (*sessions.Session, error)
}

type contextKey string

const sessionKey contextKey = "session"

// requireSession validates the session cookie before invoking next. Requests
// without a resolvable session receive 401 {error}.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessions.CookieName)
		if err != nil || cookie.Value == "" {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		session, err := s.sessions.Lookup(r.Context(), cookie.Value)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "session lookup failed")
			return
		}
		if session == nil {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	}
}

func sessionFrom(ctx context.Context) *sessions.Session {
	session, _ := ctx.Value(sessionKey).(*sessions.Session)
	return session
}
