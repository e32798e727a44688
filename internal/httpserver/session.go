// internal/httpserver/session.go
//
// Session cookie handling.
// Responsibilities:
//   - Sign/verify the session cookie: an HS256 JWT whose "sid" claim is the
//     session id.
//   - withSession middleware: resolve (or mint) the session id, open and lock
//     the session for the duration of the request, expose it via context.
//
// Notes:
//   - The cookie carries no expiry; idle expiry is enforced by the store.
//   - Handlers commit the session themselves before writing a response.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/session"
)

// ctxSessionKey is the context key type for the open *session.Session.
type ctxSessionKey struct{}

// sessionFrom returns the session opened by withSession.
func sessionFrom(r *http.Request) *session.Session {
	s, _ := r.Context().Value(ctxSessionKey{}).(*session.Session)
	return s
}

// withSession opens the caller's session, issuing a new id and cookie when
// the request has none or an invalid one. The session stays locked until
// the handler returns.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.sessionID(r)
		if err != nil {
			id = session.NewID()
			tok, err := s.signSessionToken(id)
			if err != nil {
				log.Error().Err(err).Msg("sign session token")
				http.Error(w, `{"error":"session_unavailable"}`, http.StatusInternalServerError)
				return
			}
			s.setSessionCookie(w, r, tok)
		}

		sess, err := s.sessions.Open(r.Context(), id)
		if err != nil {
			log.Error().Err(err).Str("session", id).Msg("open session")
			http.Error(w, `{"error":"session_unavailable"}`, http.StatusInternalServerError)
			return
		}
		defer sess.Close()

		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionID extracts and verifies the session id from the request cookie.
func (s *Server) sessionID(r *http.Request) (string, error) {
	c, err := r.Cookie(s.cookieName)
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !t.Valid {
		return "", errors.New("invalid session token")
	}
	sid, _ := claims["sid"].(string)
	if _, err := uuid.Parse(sid); err != nil {
		return "", errors.New("session token without a valid sid")
	}
	return sid, nil
}

// signSessionToken creates the HS256 token carrying id.
func (s *Server) signSessionToken(id string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": id,
		"iat": time.Now().Unix(),
	})
	return t.SignedString(s.secret)
}

// setSessionCookie writes the session cookie as a browser-session cookie.
func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// isSecureRequest reports whether the request reached us over HTTPS,
// directly or through a TLS-terminating proxy.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
