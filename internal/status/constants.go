// internal/status/constants.go
package status

// Lifecycle and health codes shared by the bridge processes.
// Numeric values are exported as metrics and MUST NOT change.

// ---- LIFECYCLE ----

// State is the scan driver lifecycle position.
type State uint16

// StateInit covers startup until the first scan period begins.
const StateInit State = 0

// StateRunning means the scan loop is cycling.
const StateRunning State = 1

// StateStopped means the runtime shutdown call was made.
const StateStopped State = 2

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a clean last cycle.
const HealthOK uint16 = 1

// HealthError represents a failed last cycle.
const HealthError uint16 = 2

// ---- LIMITS ----

// MaxErrorStreak caps the consecutive-failure counter so it never wraps.
const MaxErrorStreak = 65535
