package job

// Status is the lifecycle state of a posting.
//
// DRAFT has no creation path: postings always enter review directly, and
// DRAFT is reachable only through direct administrative mutation. Editing
// a DRAFT submits it for review like any other edit.
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
	StatusArchived        Status = "ARCHIVED"
	StatusFilled          Status = "FILLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusRejected,
		StatusArchived, StatusFilled:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s Status) Terminal() bool {
	return s == StatusArchived || s == StatusFilled
}

// Editable reports whether an owner edit may touch the posting. An edit
// always lands the job back in PENDING_APPROVAL so that changed content is
// re-reviewed before going live again.
func (s Status) Editable() bool {
	return !s.Terminal()
}

// Closable reports whether the owner may move the posting into a terminal
// status. Only live postings are closed; everything else is already out of
// public view.
func (s Status) Closable() bool {
	return s == StatusApproved
}

// AcceptsApplications reports whether seekers may apply.
func (s Status) AcceptsApplications() bool {
	return s == StatusApproved
}
