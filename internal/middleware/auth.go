package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"assetgallery/internal/auth"
	"assetgallery/internal/domain/models"
	"assetgallery/internal/httputil"
)

// Authenticate resolves the caller from a bearer token and stores it in the
// request context. When verifier is nil (development without JWKS), every
// request runs as devCaller. Requests without a resolvable caller get 401.
func Authenticate(verifier auth.JWTVerifier, devCaller *models.Caller, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				if devCaller == nil {
					httputil.RespondError(w, http.StatusUnauthorized, "authentication is not configured")
					return
				}
				next.ServeHTTP(w, httputil.WithCaller(r, devCaller))
				return
			}

			token, err := bearerToken(r)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, err.Error())
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("authentication failed", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			memberID, err := claims.GetMemberID()
			if err != nil || memberID <= 0 {
				logger.Debug("token subject is not a member id", "path", r.URL.Path, "sub", claims.Subject)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			caller := &models.Caller{
				MemberID: memberID,
				Email:    claims.Email,
				Roles:    claims.Roles,
			}

			next.ServeHTTP(w, httputil.WithCaller(r, caller))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("authorization header must be a bearer token")
	}
	return strings.TrimSpace(token), nil
}
