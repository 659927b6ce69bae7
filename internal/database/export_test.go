package database

import "time"

// SetClock overrides the repository clock so tests control the
// created/updated timestamps.
func SetClock(repo *RecordRepository, now func() time.Time) {
	repo.nowFunc = now
}
