// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential generation and validation utilities.

# Access Codes

Participants authenticate with short, typeable codes:

	code, err := auth.GenerateAccessCode()

Codes use an alphabet without visually ambiguous characters and are looked
up by exact match; the participant table's UNIQUE constraint guarantees
uniqueness.

# Link Tokens

Link tokens create URL-friendly identifiers for the public voting page:

	token := auth.GenerateLinkToken(sessionID, salt)

Tokens are deterministic (HMAC-SHA256 of the record ID) and base62 encoded,
so the same session and salt always produce the same link.

# Owner Tokens

The deployment owner logs in with a shared secret and receives a signed
bearer token (HS256, 24h expiry):

	jwt, err := auth.IssueOwnerToken(secret)
	err = auth.VerifyOwnerToken(jwt, secret)

Owner key comparison uses constant-time equality:

	err := auth.ValidateOwnerKey(provided, expected)

# Fingerprint Hashing

Anonymous quick-poll voters are identified by a salted one-way hash of a
client-derived device key:

	fp := auth.HashFingerprint(deviceKey, salt)

The raw device key is never stored. This identity regime is deliberately
weaker than access codes; a voter who clears state gets a new identity.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
