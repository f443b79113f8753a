package addapplicationcomment

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

type fakeCommenter struct {
	text string
	err  error
}

func (f *fakeCommenter) AddComment(_ context.Context, username string, applicationID int64, text string) (*models.ApplicationComment, error) {
	f.text = text
	if f.err != nil {
		return nil, f.err
	}
	return &models.ApplicationComment{
		ID:            9,
		ApplicationID: applicationID,
		Text:          text,
		Author:        username,
		CreatedAt:     time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC),
	}, nil
}

func newTestHandler(t *testing.T, svc *fakeCommenter) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, svc, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	svc := &fakeCommenter{}
	h := newTestHandler(t, svc)

	out, err := h.Execute(context.Background(), &Input{Username: "ana.lopez", ApplicationID: 1001, Text: "This is not a duplicate."})
	require.NoError(t, err)
	assert.Equal(t, int64(9), out.CommentID)
	assert.Equal(t, "2026-03-05T14:00:00Z", out.CreatedAt)
	assert.Equal(t, "This is not a duplicate.", svc.text)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name string
		code errors.ErrorCode
	}{
		{"not allowed", errors.CommentNotAllowed},
		{"blank text", errors.CommentTextRequired},
		{"too long", errors.CommentTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &fakeCommenter{err: errors.New(tt.code, "")})

			_, err := h.Execute(context.Background(), &Input{Username: "ana.lopez", ApplicationID: 1001})
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestHandler_Decode_RequiresText(t *testing.T) {
	h := newTestHandler(t, &fakeCommenter{})

	var input Input
	err := h.runner.Decode(`{"username":"ana.lopez","applicationId":1001}`, &input)
	assert.Equal(t, errors.JobInputInvalid, errors.CodeOf(err))
}
