// Package token issues and verifies the two credential kinds the auth flow
// needs: stateless signed session tokens and single-use email-verification
// tokens. Session verification never touches the database.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidSession = errors.New("invalid session token")
	ErrExpiredSession = errors.New("session token expired")
)

type Issuer struct {
	secret          []byte
	sessionTTL      time.Duration
	verificationTTL time.Duration
}

func NewIssuer(secret string, sessionTTL, verificationTTL time.Duration) *Issuer {
	return &Issuer{
		secret:          []byte(secret),
		sessionTTL:      sessionTTL,
		verificationTTL: verificationTTL,
	}
}

// IssueSession returns an HS256 JWT bound to the user id.
func (i *Issuer) IssueSession(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(i.sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// VerifySession checks signature and expiry and returns the user id.
func (i *Issuer) VerifySession(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrExpiredSession
		}
		return uuid.Nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidSession
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidSession
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidSession
	}
	return userID, nil
}

// NewVerificationToken generates a random single-use token. The plaintext
// goes into the emailed link; only the SHA-256 hash is meant to be stored.
func (i *Issuer) NewVerificationToken() (plaintext, hash string, expiresAt time.Time, err error) {
	raw := make([]byte, 32)
	if _, err = rand.Read(raw); err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to generate random bytes: %w", err)
	}

	plaintext = hex.EncodeToString(raw)
	hash = HashToken(plaintext)
	expiresAt = time.Now().Add(i.verificationTTL)
	return plaintext, hash, expiresAt, nil
}

// HashToken maps a plaintext verification token to its stored form.
func HashToken(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}
