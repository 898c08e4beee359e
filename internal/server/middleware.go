package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"civicwatch/internal"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// contextKey is a private type so request-context values cannot collide with
// other packages.
type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyEmail  contextKey = "email"
	contextKeyName   contextKey = "name"
	contextKeyPhone  contextKey = "phone"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth checks for a valid access token and adds the user to the
// request context, redirecting to login otherwise.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := s.authenticatedContext(r)
		if err != nil {
			s.logger.WithError(err).Debug("unauthenticated request to protected route")

			s.setRedirectCookie(w, r.URL.Path, time.Minute*5)

			http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUser adds the user to the request context when a valid access token is
// present, and lets the request through anonymously otherwise.
func (s *Service) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := s.authenticatedContext(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticatedContext decrypts the access-token cookie, verifies the JWT
// against the JWKS, and returns a context carrying the identity claims.
func (s *Service) authenticatedContext(r *http.Request) (context.Context, error) {
	cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
	if err != nil {
		return nil, err
	}

	var accessToken string
	err = s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken)
	if err != nil {
		return nil, err
	}

	set, err := s.jwksCache.Lookup(r.Context(), s.jwksURL)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(
		[]byte(accessToken),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, err
	}

	userID, ok := token.Subject()
	if !ok || userID == "" {
		return nil, errNoSubject
	}

	ctx := r.Context()
	ctx = context.WithValue(ctx, contextKeyUserID, userID)

	// Attribution claims are optional.
	for claim, key := range map[string]contextKey{
		"email":        contextKeyEmail,
		"name":         contextKeyName,
		"phone_number": contextKeyPhone,
	} {
		var value string
		if err := token.Get(claim, &value); err == nil && value != "" {
			ctx = context.WithValue(ctx, key, value)
		}
	}

	return ctx, nil
}

var errNoSubject = errors.New("no user ID in JWT subject claim")

// StripTrailingSlash canonicalizes URLs so /reports/ and /reports are the
// same page. The query string survives the redirect.
func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if path := r.URL.Path; path != "/" && strings.HasSuffix(path, "/") {
			stripped := *r.URL
			stripped.Path = strings.TrimSuffix(path, "/")
			http.Redirect(w, r, stripped.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
