// internal/status/snapshot_test.go
package status

import (
	"errors"
	"testing"
)

func TestRecord_ErrorThenRecovery(t *testing.T) {
	var s Snapshot

	if !s.Record(errors.New("boom")) {
		t.Fatalf("first error must report a change")
	}
	if s.Record(errors.New("boom")) {
		t.Fatalf("repeated identical error must not report a change")
	}
	if s.Health != HealthError || s.ErrorStreak != 2 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}

	if !s.Record(nil) {
		t.Fatalf("recovery must report a change")
	}
	if s.Health != HealthOK || s.ErrorStreak != 0 || s.LastError != "" {
		t.Fatalf("streak not reset on recovery: %+v", s)
	}
	if s.Record(nil) {
		t.Fatalf("steady OK must not report a change")
	}
}

func TestRecord_StreakDoesNotWrap(t *testing.T) {
	s := Snapshot{ErrorStreak: MaxErrorStreak}
	s.Record(errors.New("x"))
	if s.ErrorStreak != MaxErrorStreak {
		t.Fatalf("streak wrapped: %d", s.ErrorStreak)
	}
}

func TestStateString(t *testing.T) {
	if StateInit.String() != "INIT" || StateRunning.String() != "RUNNING" || StateStopped.String() != "STOPPED" {
		t.Fatalf("unexpected state names")
	}
}
