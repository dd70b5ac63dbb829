// internal/status/snapshot.go
package status

// Snapshot is the health of one bridge process after its latest cycle.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	State       State
	Health      uint16
	LastError   string
	ErrorStreak uint32 // consecutive failed cycles, reset on recovery
}

// Record folds one cycle outcome into the snapshot.
// It reports whether health or error text changed.
func (s *Snapshot) Record(err error) bool {
	if err == nil {
		changed := s.Health != HealthOK || s.LastError != ""
		s.Health = HealthOK
		s.LastError = ""
		s.ErrorStreak = 0
		return changed
	}

	msg := err.Error()
	changed := s.Health != HealthError || s.LastError != msg
	s.Health = HealthError
	s.LastError = msg
	if s.ErrorStreak < MaxErrorStreak {
		s.ErrorStreak++
	}
	return changed
}
