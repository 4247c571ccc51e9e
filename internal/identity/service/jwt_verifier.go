// Package service provides caller bearer-token verification.
package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/allisson/ghostpass/internal/errors"
	identityDomain "github.com/allisson/ghostpass/internal/identity/domain"
)

// JWTVerifier validates caller bearer JWTs issued by the identity provider.
type JWTVerifier interface {
	// Verify checks signature, expiry and the configured issuer/audience, and
	// returns the verified claims. Any failure is ErrInvalidCredentials.
	Verify(tokenString string) (*identityDomain.Claims, error)
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type jwtVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewJWTVerifier creates an HS256 verifier. Empty issuer or audience disables that check.
func NewJWTVerifier(secret, issuer, audience string) JWTVerifier {
	return &jwtVerifier{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}
}

func (v *jwtVerifier) Verify(tokenString string) (*identityDomain.Claims, error) {
	if len(v.secret) == 0 {
		return nil, apperrors.Wrap(identityDomain.ErrInvalidCredentials, "jwt secret not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, apperrors.Wrap(identityDomain.ErrInvalidCredentials, err.Error())
	}
	if !token.Valid {
		return nil, identityDomain.ErrInvalidCredentials
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.Wrap(identityDomain.ErrInvalidCredentials, "subject is not a uuid")
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.UTC()
	}

	return &identityDomain.Claims{
		Subject:   subject,
		Email:     claims.Email,
		ExpiresAt: expiresAt,
	}, nil
}
