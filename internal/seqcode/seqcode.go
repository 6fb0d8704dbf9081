// Package seqcode generates human-readable entity codes of the form
// PREFIX-YY-NNN, scoped to a prefix and a two-digit year.
//
// The same generator runs on both sides of the API: server services verify
// candidates against the database, the client SDK verifies against the remote
// gateway, so two sessions creating records concurrently cannot both commit
// the same code.
package seqcode

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrExhausted is returned when the retry budget runs out without finding a
// free code. Callers must treat this as a fatal operation failure rather than
// fall back to a duplicate or malformed code.
var ErrExhausted = errors.New("seqcode: retry budget exhausted")

// maxAttempts bounds collision retries against the authoritative store.
const maxAttempts = 10

// ExistsFunc reports whether a candidate code is already taken in the
// authoritative store.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Next proposes the next free code for prefix in the year of now.
//
// It scans existing for codes matching PREFIX-YY-NNN of the current year,
// takes the maximum numeric suffix plus one, then re-verifies the candidate
// with exists before returning it. On collision the suffix is incremented and
// re-verified, up to maxAttempts times.
func Next(ctx context.Context, prefix string, now time.Time, existing []string, exists ExistsFunc) (string, error) {
	if prefix == "" {
		return "", errors.New("seqcode: empty prefix")
	}

	yy := now.Format("06")
	seq := maxSuffix(prefix, yy, existing) + 1

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := Format(prefix, yy, seq)
		if exists == nil {
			return code, nil
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("seqcode: verify %s: %w", code, err)
		}
		if !taken {
			return code, nil
		}
		seq++
	}
	return "", ErrExhausted
}

// Format renders a code. Suffixes up to 999 are zero-padded to three digits;
// past 999 the counter widens to four digits instead of truncating.
func Format(prefix, yy string, seq int) string {
	if seq > 999 {
		return fmt.Sprintf("%s-%s-%04d", prefix, yy, seq)
	}
	return fmt.Sprintf("%s-%s-%03d", prefix, yy, seq)
}

// maxSuffix returns the highest numeric suffix among existing codes for
// prefix-yy, or 0 when none match.
func maxSuffix(prefix, yy string, existing []string) int {
	re := regexp.MustCompile(fmt.Sprintf(`^%s-%s-(\d{3,4})$`, regexp.QuoteMeta(prefix), yy))
	max := 0
	for _, code := range existing {
		m := re.FindStringSubmatch(code)
		if m == nil {
			continue
		}
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		if n > max {
			max = n
		}
	}
	return max
}
