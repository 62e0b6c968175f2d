// Copyright (c) 2026 Tribunal contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"time"

	"github.com/tribunal-app/tribunal/models"
)

// There is no standing scheduler: stored state may lag reality once the
// voting window has passed. Every consumer that needs an authoritative state
// derives it through EffectiveState before trusting the stored column.

// EffectiveState returns the state a reader must act on right now. An active
// record whose window has elapsed reads as finalized even if the row has not
// been materialized yet.
func EffectiveState(stored string, activatedAt *time.Time, durationSeconds int, now time.Time) string {
	if stored != models.StateActive || activatedAt == nil {
		return stored
	}
	if !now.Before(ExpiresAt(*activatedAt, durationSeconds)) {
		return models.StateFinalized
	}
	return models.StateActive
}

// ExpiresAt is the instant the voting window closes. The window itself is
// [activatedAt, ExpiresAt).
func ExpiresAt(activatedAt time.Time, durationSeconds int) time.Time {
	return activatedAt.Add(time.Duration(durationSeconds) * time.Second)
}

// WindowOpen reports whether now falls inside the admissible voting window.
func WindowOpen(activatedAt time.Time, durationSeconds int, now time.Time) bool {
	return !now.Before(activatedAt) && now.Before(ExpiresAt(activatedAt, durationSeconds))
}

// RemainingSeconds is the countdown value shown to viewers: the full
// duration before activation, the time left while active, zero afterwards.
func RemainingSeconds(stored string, activatedAt *time.Time, durationSeconds int, now time.Time) int64 {
	switch EffectiveState(stored, activatedAt, durationSeconds, now) {
	case models.StateInactive:
		return int64(durationSeconds)
	case models.StateActive:
		if activatedAt == nil {
			// Malformed row: active with no activation instant. Nothing has
			// started counting down yet.
			return int64(durationSeconds)
		}
		left := ExpiresAt(*activatedAt, durationSeconds).Sub(now)
		secs := int64(left / time.Second)
		if left%time.Second > 0 {
			secs++ // round up so the countdown never shows 0 while open
		}
		return secs
	default:
		return 0
	}
}
