// Package auth issues and verifies the HS256 access tokens handed out by
// the account service. The user id travels in the subject claim.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Issuer is stamped on every access token and required when verifying.
const Issuer = "studydeck"

var signingMethod = jwt.SigningMethodHS256

// IssueAccessToken signs a token for userID that expires after ttl.
func IssueAccessToken(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(signingMethod, claims).SignedString(secret)
}

// VerifyAccessToken checks the signature, issuer and expiry of token and
// returns its user id. An expired token yields common.ErrTokenExpired;
// anything else wrong with it yields common.ErrInvalidToken.
func VerifyAccessToken(token string, secret []byte) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", common.ErrTokenExpired
	case err != nil:
		return "", common.ErrInvalidToken
	case claims.Subject == "":
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}
