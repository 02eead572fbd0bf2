package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUser(t *testing.T) {
	tests := []struct {
		name, username, email, password string
		field, reason                   string
	}{
		{"blank username", "  ", "a@x.com", "pw", "username", "must not be empty"},
		{"empty username", "", "a@x.com", "pw", "username", "must not be empty"},
		{"empty email", "a", "", "pw", "email", "must not be empty"},
		{"bad email", "a", "a@", "pw", "email", "must be a valid email address"},
		{"empty password", "a", "a@x.com", "", "password", "must not be empty"},
		{"long password", "a", "a@x.com", strings.Repeat("p", 73), "password", "must be at most 72 characters"},
		{"username reported first", "", "bad", "", "username", "must not be empty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateUser(tc.username, tc.email, tc.password)
			var ve *common.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, tc.reason, ve.Reason)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}

	assert.NoError(t, validateUser("alice", "alice@example.com", strings.Repeat("p", 72)))
}

func TestValidationError_PassesOtherErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	assert.Same(t, boom, validationError(boom))
	assert.NoError(t, validationError(nil))
}
