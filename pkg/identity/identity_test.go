package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"JOB_SEEKER", "EMPLOYER", "ADMIN"} {
		role, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, Role(s), role)
		assert.True(t, role.Valid())
	}

	for _, s := range []string{"", "admin", "employer", "MODERATOR"} {
		_, err := ParseRole(s)
		assert.ErrorIs(t, err, ErrUnknownRole, "input %q", s)
	}
}
