package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"rentdesk/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeyUser contextKey = "current_user"

// Identity is the claim set extracted from a verified access token.
type Identity struct {
	Subject string
	Email   string
}

// TokenVerifier validates a raw bearer token and returns the identity
// it asserts. Production uses the JWKS-backed verifier; tests swap in
// a static one.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// JWKSVerifier checks token signatures against the identity provider's
// published key set.
type JWKSVerifier struct {
	cache   *jwk.Cache
	jwksURL string
}

func NewJWKSVerifier(cache *jwk.Cache, jwksURL string) *JWKSVerifier {
	return &JWKSVerifier{
		cache:   cache,
		jwksURL: jwksURL,
	}
}

func (v *JWKSVerifier) Verify(ctx context.Context, raw string) (*Identity, error) {
	set, err := v.cache.Lookup(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	// Use Subject() for the standard "sub" claim
	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("no subject claim in JWT")
	}

	// Use Get() for private/custom claims like "email"
	var email string
	_ = token.Get("email", &email)

	return &Identity{Subject: subject, Email: email}, nil
}

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

// RequireAuth validates the Authorization bearer token and loads the
// caller's user record into the request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			s.respondError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			s.respondError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		identity, err := s.verifier.Verify(r.Context(), raw)
		if err != nil {
			s.logger.WithError(err).Debug("token verification failed")
			s.respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := s.stores.Users.User(r.Context(), identity.Subject)
		if err != nil {
			if err == types.ErrUserNotFound {
				s.respondError(w, http.StatusUnauthorized, "user not found")
				return
			}

			s.internalServerError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUser, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func currentUser(ctx context.Context) *types.User {
	user, _ := ctx.Value(contextKeyUser).(*types.User)
	return user
}

// requireRole writes a 403 and returns nil unless the caller holds one
// of the given roles.
func (s *Service) requireRole(w http.ResponseWriter, r *http.Request, roles ...types.UserRole) *types.User {
	user := currentUser(r.Context())
	if user == nil {
		s.respondError(w, http.StatusUnauthorized, "missing authorization header")
		return nil
	}

	for _, role := range roles {
		if user.Role == role {
			return user
		}
	}

	s.respondError(w, http.StatusForbidden, "insufficient permissions")
	return nil
}
