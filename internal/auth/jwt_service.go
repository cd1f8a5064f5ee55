package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "nutritrack/internal/errors"
)

// DevSubject is the subject claim of the permanent development token.
// A signed token with this subject bypasses expiry handling and resolves to
// an auto-provisioned test account. It must never be honored in production.
const DevSubject = "dev_test_user"

// Claims represents the JWT claim set: a subject identifier and, for normal
// tokens, an expiry instant. The dev token carries no expiry claim.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService handles token issuance and verification with a symmetric secret.
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService creates a JWT service signing HS256 tokens with the given
// secret and default time-to-live.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// GenerateAccessToken issues a signed token for the subject with the
// configured default expiry.
func (s *JWTService) GenerateAccessToken(subject string) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// GenerateDevToken issues the permanent development token: subject
// DevSubject and no expiry claim.
func (s *JWTService) GenerateDevToken() (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: DevSubject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies signature and expiry and returns the claims.
// Expired tokens fail with ErrTokenExpired, everything else with
// ErrInvalidToken.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, s.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}

// IsDevToken reports whether the token is the development token. The token
// is decoded with claim validation skipped, solely to inspect the subject;
// the signature must still verify.
func (s *JWTService) IsDevToken(tokenString string) bool {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, s.keyFunc)
	if err != nil {
		return false
	}
	claims, ok := token.Claims.(*Claims)
	return ok && claims.Subject == DevSubject
}

func (s *JWTService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.secret, nil
}
