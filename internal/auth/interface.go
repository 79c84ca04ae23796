package auth

import "assetgallery/internal/domain/models"

// JWTVerifier verifies bearer tokens. The middleware depends on this
// interface only, so tests can supply their own verifier.
type JWTVerifier interface {
	// VerifyToken validates a JWT and returns its claims.
	// Returns an error wrapping domain.ErrUnauthorized when the token is
	// invalid, expired or signed with an unexpected algorithm.
	VerifyToken(tokenString string) (*models.GalleryClaims, error)

	// Close releases any resources held by the verifier
	Close() error
}
