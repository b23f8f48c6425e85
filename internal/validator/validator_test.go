package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerReq struct {
	Username        string `validate:"required,username"`
	Password        string `validate:"required,min=8"`
	PasswordConfirm string `validate:"required,eqfield=Password"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	err := v.Validate(registerReq{Username: "alice.b+1", Password: "longenough", PasswordConfirm: "longenough"})
	require.NoError(t, err)
}

func TestValidate_Messages(t *testing.T) {
	v := New()

	cases := []struct {
		name string
		in   registerReq
		want string
	}{
		{"missing username", registerReq{Password: "longenough", PasswordConfirm: "longenough"}, "username required"},
		{"bad username", registerReq{Username: "a b", Password: "longenough", PasswordConfirm: "longenough"}, "username may contain only letters, digits and @/./+/-/_"},
		{"short password", registerReq{Username: "alice", Password: "short", PasswordConfirm: "short"}, "password must be >= 8"},
		{"mismatch", registerReq{Username: "alice", Password: "longenough", PasswordConfirm: "different1"}, "password_confirm must match password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, tc.want, Message(err))
		})
	}
}
