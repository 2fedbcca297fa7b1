package utils

import (
	"fmt"
	"time"
)

// FormatOrderNumber builds the human-facing order number. seq is the shop's
// per-day sequence and must be allocated under the shop row lock so that
// concurrent placements never collide.
func FormatOrderNumber(shopID int64, at time.Time, seq int64) string {
	return fmt.Sprintf("TB-%s-%d-%04d", at.Format("20060102"), shopID, seq)
}
