package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusPendingApproval, StatusApproved,
		StatusRejected, StatusArchived, StatusFilled} {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, Status("OPEN").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusArchived.Terminal())
	assert.True(t, StatusFilled.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.False(t, StatusPendingApproval.Terminal())
	assert.False(t, StatusDraft.Terminal())
	assert.False(t, StatusRejected.Terminal())
}

func TestStatusEditable(t *testing.T) {
	// Everything but the terminal statuses can be edited, and an edit
	// always lands back in PENDING_APPROVAL.
	assert.True(t, StatusDraft.Editable())
	assert.True(t, StatusPendingApproval.Editable())
	assert.True(t, StatusApproved.Editable())
	assert.True(t, StatusRejected.Editable())
	assert.False(t, StatusArchived.Editable())
	assert.False(t, StatusFilled.Editable())
}

func TestStatusClosableAndApplications(t *testing.T) {
	assert.True(t, StatusApproved.Closable())
	assert.False(t, StatusPendingApproval.Closable())
	assert.False(t, StatusFilled.Closable())

	assert.True(t, StatusApproved.AcceptsApplications())
	assert.False(t, StatusPendingApproval.AcceptsApplications())
	assert.False(t, StatusRejected.AcceptsApplications())
	assert.False(t, StatusFilled.AcceptsApplications())
}

func TestJobValidate(t *testing.T) {
	base := func() Job {
		return Job{
			Title:       "Backend Engineer",
			Company:     "Acme",
			Location:    "Berlin",
			Type:        TypeFullTime,
			Description: "Build things",
			ApplyEmail:  "jobs@acme.test",
		}
	}

	assert.NoError(t, base().Validate())

	j := base()
	j.Title = "  "
	assert.EqualError(t, j.Validate(), "title is required")

	j = base()
	j.Type = "SOMETIMES"
	assert.EqualError(t, j.Validate(), "unknown job type")

	j = base()
	lo, hi := int64(90000), int64(60000)
	j.SalaryMin, j.SalaryMax, j.SalaryCurrency = &lo, &hi, "EUR"
	assert.EqualError(t, j.Validate(), "salary minimum exceeds maximum")

	j = base()
	j.SalaryMin = &lo
	assert.EqualError(t, j.Validate(), "salary currency is required when a range is set")

	j = base()
	j.ApplyEmail = ""
	j.ApplyURL = ""
	assert.EqualError(t, j.Validate(), "an application email or URL is required")

	j = base()
	j.Tags = []string{"go", "sql", "docker", "k8s", "grpc", "redis"}
	assert.EqualError(t, j.Validate(), "at most 5 tags are allowed")

	j = base()
	j.Tags = []string{"go", "sql"}
	assert.NoError(t, j.Validate())
}
