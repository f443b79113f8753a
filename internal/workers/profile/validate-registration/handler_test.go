package validateregistration

import (
	"context"
	"testing"
	"time"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		Username:        "  ana.lopez ",
		Email:           "Ana@Example.org",
		Password:        "s3cret!pass",
		ConfirmPassword: "s3cret!pass",
	})
	require.NoError(t, err)
	assert.True(t, out.Valid)
	assert.Equal(t, "ana.lopez", out.Username)
	assert.Equal(t, "ana@example.org", out.Email)
}

func TestHandler_Execute_Rejected(t *testing.T) {
	valid := Input{Username: "ana.lopez", Email: "ana@example.org", Password: "s3cret!pass", ConfirmPassword: "s3cret!pass"}

	tests := []struct {
		name   string
		mutate func(in *Input)
		code   errors.ErrorCode
	}{
		{name: "short username", mutate: func(in *Input) { in.Username = "ana" }, code: errors.RegistrationUsernameInvalid},
		{name: "username with space", mutate: func(in *Input) { in.Username = "ana lopez" }, code: errors.RegistrationUsernameInvalid},
		{name: "bad email", mutate: func(in *Input) { in.Email = "ana@example" }, code: errors.RegistrationEmailInvalid},
		{name: "no symbol", mutate: func(in *Input) { in.Password, in.ConfirmPassword = "secret123", "secret123" }, code: errors.RegistrationPasswordInvalid},
		{name: "too short", mutate: func(in *Input) { in.Password, in.ConfirmPassword = "a1!", "a1!" }, code: errors.RegistrationPasswordInvalid},
		{name: "mismatch", mutate: func(in *Input) { in.ConfirmPassword = "s3cret!pasS" }, code: errors.RegistrationPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)
			in := valid
			tt.mutate(&in)

			out, err := h.Execute(context.Background(), &in)
			assert.Nil(t, out)
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Equal(t, errors.KindValidation, errors.KindOf(err))
		})
	}
}

func TestHandler_Decode_MissingConfirm(t *testing.T) {
	h := newTestHandler(t)

	var input Input
	err := h.runner.Decode(`{"username":"ana.lopez","email":"ana@example.org","password":"x"}`, &input)
	assert.Equal(t, errors.JobInputInvalid, errors.CodeOf(err))
}
