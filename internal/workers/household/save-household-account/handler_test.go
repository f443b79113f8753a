package savehouseholdaccount

import (
	"context"
	"testing"
	"time"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountSaver struct {
	got *models.HouseholdAccount
	err error
}

func (f *fakeAccountSaver) SaveAccount(_ context.Context, _ string, a *models.HouseholdAccount) (*models.HouseholdAccount, error) {
	f.got = a
	if f.err != nil {
		return nil, f.err
	}
	saved := *a
	saved.ID = 501
	saved.HouseholdID = 1
	return &saved, nil
}

func newTestHandler(t *testing.T, svc *fakeAccountSaver) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, svc, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	svc := &fakeAccountSaver{}
	h := newTestHandler(t, svc)

	var input Input
	require.NoError(t, h.runner.Decode(`{
		"username": "ana.lopez",
		"account": {
			"typeCd": "SAVINGS",
			"institutionName": "First Bank",
			"accountNumber": "0002",
			"value": 5000,
			"primaryHolderMemberId": 11
		}
	}`, &input))

	out, err := h.Execute(context.Background(), &input)
	require.NoError(t, err)
	assert.Equal(t, int64(501), out.AccountID)
	assert.Equal(t, int64(11), out.PrimaryHolderMemberID)
	assert.Equal(t, "5000.00", out.Value)
	assert.Equal(t, "SAVINGS", svc.got.TypeCd)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name string
		code errors.ErrorCode
		kind errors.Kind
	}{
		{"unknown holder", errors.HouseholdPrimaryHolderInvalid, errors.KindValidation},
		{"duplicate", errors.HouseholdDuplicateAccount, errors.KindDuplicate},
		{"missing account", errors.HouseholdAccountNotFound, errors.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &fakeAccountSaver{err: errors.New(tt.code, "")})

			_, err := h.Execute(context.Background(), &Input{Username: "ana.lopez"})
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Equal(t, tt.kind, errors.KindOf(err))
		})
	}
}

func TestHandler_Decode_NegativeHolder(t *testing.T) {
	h := newTestHandler(t, &fakeAccountSaver{})

	var input Input
	err := h.runner.Decode(`{"username":"ana.lopez","account":{"primaryHolderMemberId":-1}}`, &input)
	assert.Equal(t, errors.JobInputInvalid, errors.CodeOf(err))
}
