package edition

import (
	"time"
)

// LatestWithin returns the path of the most recent edition strictly
// before the date, within the lookback window, or "" when none exists.
// Used to decide whether an insufficient-content day can stand on a
// recent prior edition instead of aborting.
func (s *Store) LatestWithin(date time.Time, lookbackDays int) string {
	for back := 1; back <= lookbackDays; back++ {
		candidate := date.AddDate(0, 0, -back)
		if s.Exists(candidate) {
			return s.Path(candidate)
		}
	}
	return ""
}
