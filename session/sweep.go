// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tribunal-app/tribunal/models"
)

// Sweep finalizes every active session and poll whose window has elapsed.
// Lazy reads already correct state on demand; the sweep keeps rows from
// lagging when nobody is watching a session. Returns how many rows were
// finalized.
func Sweep(db *sql.DB, now time.Time) (int, error) {
	total := 0
	for _, table := range []string{"session", "poll"} {
		n, err := sweepTable(db, table, now)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func sweepTable(db *sql.DB, table string, now time.Time) (int, error) {
	// Expiry arithmetic differs between sqlite and postgres, so candidates
	// are selected and checked in Go rather than in SQL.
	rows, err := db.Query(
		`SELECT id, activated_at, duration_seconds FROM ` + table + ` WHERE state = 'active'`)
	if err != nil {
		return 0, fmt.Errorf("sweep %s: %w", table, err)
	}
	defer rows.Close()

	var expired []string
	for rows.Next() {
		var id string
		var activatedAt sql.NullTime
		var duration int
		if err := rows.Scan(&id, &activatedAt, &duration); err != nil {
			return 0, fmt.Errorf("sweep %s: %w", table, err)
		}
		if activatedAt.Valid && !now.Before(ExpiresAt(activatedAt.Time, duration)) {
			expired = append(expired, id)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("sweep %s: %w", table, err)
	}

	count := 0
	for _, id := range expired {
		res, err := db.Exec(
			`UPDATE `+table+` SET state = $1 WHERE id = $2 AND state = $3`,
			models.StateFinalized, id, models.StateActive)
		if err != nil {
			return count, fmt.Errorf("sweep %s: %w", table, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			count++
		}
	}
	return count, nil
}

// Run sweeps on a fixed interval until ctx is cancelled. Safe to run
// alongside lazy finalization; both paths race on the same guarded UPDATE.
func Run(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := Sweep(db, now)
			if err != nil {
				slog.Error("expiry sweep failed", "error", err)
			} else if n > 0 {
				slog.Info("expiry sweep finalized", "count", n)
			}
		}
	}
}
