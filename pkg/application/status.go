package application

// Status is the lifecycle state of an application.
//
// WITHDRAWN_BY_SEEKER exists in the persisted enum but no operation drives
// it; it is kept so stored rows round-trip.
type Status string

const (
	StatusSubmitted    Status = "SUBMITTED"
	StatusViewed       Status = "VIEWED"
	StatusInterviewing Status = "INTERVIEWING"
	StatusOffered      Status = "OFFERED"
	StatusHired        Status = "HIRED"
	StatusRejected     Status = "REJECTED"
	StatusWithdrawn    Status = "WITHDRAWN_BY_SEEKER"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusViewed, StatusInterviewing, StatusOffered,
		StatusHired, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// EmployerSettable reports whether an employer may select this status
// explicitly. SUBMITTED is set only at creation and WITHDRAWN_BY_SEEKER is
// not employer-driven; every other status is reachable from any source.
// No stricter ordering is enforced, so an accidental rejection can be
// undone.
func (s Status) EmployerSettable() bool {
	switch s {
	case StatusViewed, StatusInterviewing, StatusOffered, StatusHired, StatusRejected:
		return true
	}
	return false
}
