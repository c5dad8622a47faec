package services

import "time"

// SetClock replaces the time source used for filenames and saved_at.
func (s *PhotoService) SetClock(now func() time.Time) {
	s.now = now
}
