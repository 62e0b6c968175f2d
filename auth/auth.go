// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrInvalidOwnerKey = errors.New("invalid owner key")

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// accessCodeAlphabet omits characters that read ambiguously when a code is
// dictated or typed from paper (0/O, 1/I/l).
const accessCodeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// AccessCodeLength is the length of generated participant access codes.
const AccessCodeLength = 8

// GenerateAccessCode creates a short credential handed to a participant.
// Codes are looked up by exact match; uniqueness is enforced by the store.
func GenerateAccessCode() (string, error) {
	b := make([]byte, AccessCodeLength)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate access code: %w", err)
	}
	for i := range b {
		b[i] = accessCodeAlphabet[int(b[i])%len(accessCodeAlphabet)]
	}
	return string(b), nil
}

// GenerateLinkToken creates a short, deterministic URL token for a session
// or poll. Uses HMAC for determinism and base62 encoding for URL-friendliness.
func GenerateLinkToken(id, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(id))
	sum := h.Sum(nil)

	// Take first 8 bytes for a shorter token
	return base62Encode(sum[:8])
}

// ValidateOwnerKey compares a caller-presented owner key against the
// configured one in constant time.
func ValidateOwnerKey(provided, expected string) error {
	if !hmac.Equal([]byte(provided), []byte(expected)) {
		return ErrInvalidOwnerKey
	}
	return nil
}

// base62Encode converts bytes to base62 (0-9, a-z, A-Z)
// This creates URL-friendly tokens without special characters
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Convert bytes to a big integer
	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	if num == 0 {
		return "0"
	}

	result := make([]byte, 0, 11) // max length for uint64
	for num > 0 {
		result = append(result, base62Chars[num%62])
		num /= 62
	}

	// Reverse the string
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}

// HashFingerprint creates a one-way hash of a client-derived device key.
// The salted hash is the identity key for anonymous ballots; the raw device
// key is never stored.
func HashFingerprint(deviceKey, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(deviceKey))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}
