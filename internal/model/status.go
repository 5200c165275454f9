package model

// Visit lifecycle states. A new visit starts Pending; admins move it to
// Approved, Rejected or Complete. Rejected and Complete are terminal under
// the strict transition table.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
	StatusComplete = "Complete"
)

// ValidStatus reports whether s is one of the four lifecycle states.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusComplete:
		return true
	}
	return false
}

// transitions is the strict lifecycle table, enforced only when
// STATUS_STRICT_TRANSITIONS is enabled. The default contract is permissive:
// any valid status may be written over any other.
var transitions = map[string][]string{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusComplete, StatusRejected},
	StatusRejected: {},
	StatusComplete: {},
}

// CanTransition reports whether the strict table allows from -> to.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
