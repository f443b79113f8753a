package withdrawapplication

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

type fakeWithdrawer struct {
	username string
	app      *models.HousingApplication
	err      error
}

func (f *fakeWithdrawer) Withdraw(_ context.Context, username string, _ int64) (*models.HousingApplication, error) {
	f.username = username
	return f.app, f.err
}

func newTestHandler(t *testing.T, svc *fakeWithdrawer) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, svc, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	at := time.Date(2026, 4, 2, 8, 15, 0, 0, time.UTC)
	svc := &fakeWithdrawer{app: &models.HousingApplication{ID: 1001, StatusCd: models.StatusWithdrawn, WithdrawnAt: &at}}
	h := newTestHandler(t, svc)

	out, err := h.Execute(context.Background(), &Input{Username: "ana.lopez\t", ApplicationID: 1001})
	require.NoError(t, err)
	assert.Equal(t, models.StatusWithdrawn, out.StatusCd)
	assert.Equal(t, "2026-04-02T08:15:00Z", out.WithdrawnAt)
	assert.Equal(t, "ana.lopez", svc.username)
}

func TestHandler_Execute_Errors(t *testing.T) {
	for _, code := range []errors.ErrorCode{
		errors.ApplicationWithdrawNotPermitted,
		errors.ApplicationWithdrawWindowClosed,
		errors.ApplicationNotFound,
	} {
		t.Run(string(code), func(t *testing.T) {
			h := newTestHandler(t, &fakeWithdrawer{err: errors.New(code, "")})

			out, err := h.Execute(context.Background(), &Input{Username: "ana.lopez", ApplicationID: 1001})
			assert.Nil(t, out)
			assert.Equal(t, code, errors.CodeOf(err))
		})
	}
}
