// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: server listen port (default: 3410)
  - DatabaseURL: sqlite path or postgres connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - OwnerKey: shared secret for owner login (required)
  - TokenSecret: HMAC secret for owner bearer tokens (required)
  - LinkTokenSalt: secret for link token generation; also salts device
    fingerprint hashes (required)
  - SweepInterval: periodic expiry sweep cadence (default 30s, 0 disables)

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	OWNER_KEY       → --owner-key
	TOKEN_SECRET    → --token-secret
	LINK_TOKEN_SALT → --link-salt
	SWEEP_INTERVAL  → --sweep

CLI flags take precedence over environment variables. ParseFlags returns an
error if any required value is missing.
*/
package cliparse
