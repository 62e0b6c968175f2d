// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid owner token")

// OwnerTokenTTL is how long an issued owner token stays valid.
const OwnerTokenTTL = 24 * time.Hour

// IssueOwnerToken signs a bearer token for the deployment owner.
func IssueOwnerToken(secret string) (string, error) {
	claims := jwt.MapClaims{
		"role": "owner",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(OwnerTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign owner token: %w", err)
	}
	return signed, nil
}

// VerifyOwnerToken checks signature, expiry, and the owner role claim.
func VerifyOwnerToken(tokenString, secret string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "owner" {
		return ErrInvalidToken
	}
	return nil
}
