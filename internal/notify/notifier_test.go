package notify

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	calls         []*ses.SendEmailInput
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls = append(m.calls, params)
	if m.SendEmailFunc == nil {
		return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
	}
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	calls       []*sns.PublishInput
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls = append(m.calls, params)
	if m.PublishFunc == nil {
		return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
	}
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() Config {
	return Config{
		EmailEnabled: true,
		FromEmail:    "noreply@housing.example.org",
		SMSEnabled:   true,
		SenderID:     "HOUSING",
	}
}

func createTestNotice(kind, status string) models.Notice {
	return models.Notice{
		Type:           kind,
		Username:       "ana.lopez",
		RecipientName:  "Ana Lopez",
		Email:          "ana@example.com",
		Phone:          "2125550100",
		ApplicationID:  1001,
		ListingID:      77,
		ListingName:    "Water Street Homes",
		ListingAddress: "200 Water St, New York, NY 10038",
		StatusCd:       status,
		OccurredAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func newTestNotifier(t *testing.T, cfg Config) (*Notifier, *MockSESService, *MockSNSService) {
	t.Helper()
	sesMock, snsMock := &MockSESService{}, &MockSNSService{}
	n, err := New(cfg, sesMock, snsMock, logger.NewTestLogger(t))
	require.NoError(t, err)
	n.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC) }
	return n, sesMock, snsMock
}

// ==========================
// Core Functionality Tests
// ==========================

func TestDeliver_BothChannels(t *testing.T) {
	n, sesMock, snsMock := newTestNotifier(t, createTestConfig())

	records, err := n.Deliver(context.Background(), createTestNotice(models.NoticeSubmitted, models.StatusWaitlisted))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, StatusSent, records[0].Status)
	assert.Equal(t, StatusSent, records[1].Status)
	assert.Equal(t, records[0].ID, records[1].ID)
	assert.Equal(t, "2026-03-01T10:00:05Z", records[0].SentAt)

	require.Len(t, sesMock.calls, 1)
	email := sesMock.calls[0]
	assert.Equal(t, []string{"ana@example.com"}, email.Destination.ToAddresses)
	assert.Equal(t, "noreply@housing.example.org", aws.ToString(email.Source))
	assert.Equal(t, "Application 1001 received for Water Street Homes", aws.ToString(email.Message.Subject.Data))
	body := aws.ToString(email.Message.Body.Text.Data)
	assert.Contains(t, body, "Hello Ana Lopez")
	assert.Contains(t, body, "at 200 Water St, New York, NY 10038 was received on March 1, 2026")
	assert.Contains(t, body, "placed on the waitlist")

	require.Len(t, snsMock.calls, 1)
	sms := snsMock.calls[0]
	assert.Equal(t, "+12125550100", aws.ToString(sms.PhoneNumber))
	assert.Equal(t, "Application 1001 for Water Street Homes received (WAITLISTED).", aws.ToString(sms.Message))
	assert.Equal(t, "HOUSING", aws.ToString(sms.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))
}

func TestDeliver_ChannelSelection(t *testing.T) {
	tests := []struct {
		name      string
		mutateCfg func(*Config)
		mutate    func(*models.Notice)
		emails    int
		texts     int
		statuses  []string
	}{
		{
			name:      "email disabled",
			mutateCfg: func(c *Config) { c.EmailEnabled = false },
			texts:     1,
			statuses:  []string{StatusDisabled, StatusSent},
		},
		{
			name:     "no phone on file",
			mutate:   func(n *models.Notice) { n.Phone = "" },
			emails:   1,
			statuses: []string{StatusSent, StatusDisabled},
		},
		{
			name:      "everything disabled",
			mutateCfg: func(c *Config) { c.EmailEnabled, c.SMSEnabled = false, false },
			statuses:  []string{StatusDisabled, StatusDisabled},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			if tt.mutateCfg != nil {
				tt.mutateCfg(&cfg)
			}
			n, sesMock, snsMock := newTestNotifier(t, cfg)
			notice := createTestNotice(models.NoticeWithdrawn, models.StatusWithdrawn)
			if tt.mutate != nil {
				tt.mutate(&notice)
			}

			records, err := n.Deliver(context.Background(), notice)
			require.NoError(t, err)
			assert.Len(t, sesMock.calls, tt.emails)
			assert.Len(t, snsMock.calls, tt.texts)
			require.Len(t, records, len(tt.statuses))
			for i, status := range tt.statuses {
				assert.Equal(t, status, records[i].Status, records[i].Channel)
			}
		})
	}
}

// ==========================
// Error Handling Tests
// ==========================

func TestSend_EmailFailureStillTexts(t *testing.T) {
	n, sesMock, snsMock := newTestNotifier(t, createTestConfig())
	sesMock.SendEmailFunc = func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		return nil, stderrors.New("throttled")
	}

	err := n.Send(context.Background(), createTestNotice(models.NoticeSubmitted, models.StatusSubmitted))
	require.Error(t, err)
	assert.Equal(t, errors.NotificationEmailFailed, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "throttled")
	assert.Len(t, snsMock.calls, 1)
}

func TestSend_UnknownType(t *testing.T) {
	n, sesMock, _ := newTestNotifier(t, createTestConfig())

	err := n.Send(context.Background(), createTestNotice("lottery_results", models.StatusSubmitted))
	assert.Equal(t, errors.NotificationTemplateMissing, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "lottery_results")
	assert.Empty(t, sesMock.calls)
}

// ==========================
// Templates
// ==========================

func TestNew_TemplateDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(`
- type: application_submitted
  subject: "Got it, {{.RecipientName}}"
  body: "Application {{.ApplicationID}}"
`), 0o600))

	cfg := createTestConfig()
	cfg.TemplateDir = dir
	n, sesMock, snsMock := newTestNotifier(t, cfg)

	records, err := n.Deliver(context.Background(), createTestNotice(models.NoticeSubmitted, models.StatusSubmitted))
	require.NoError(t, err)
	assert.Equal(t, "Got it, Ana Lopez", aws.ToString(sesMock.calls[0].Message.Subject.Data))
	// No sms text in the template.
	assert.Empty(t, snsMock.calls)
	assert.Equal(t, StatusDisabled, records[1].Status)

	_, err = n.Deliver(context.Background(), createTestNotice(models.NoticeWithdrawn, models.StatusWithdrawn))
	assert.Error(t, err)
}

func TestNew_TemplateErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty directory"},
		{name: "bad yaml", content: "- type: [unclosed"},
		{name: "bad template", content: "- type: x\n  subject: \"{{.Broken\""},
		{name: "missing type", content: "- subject: hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "t.yaml"), []byte(tt.content), 0o600))
			}
			_, err := New(Config{TemplateDir: dir}, &MockSESService{}, &MockSNSService{}, logger.NewTestLogger(t))
			assert.Error(t, err)
		})
	}
}

func TestE164(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2125550100", "+12125550100"},
		{"(212) 555-0100", "+12125550100"},
		{"12125550100", "+12125550100"},
		{"+44 20 7946 0958", "+442079460958"},
		{"555-0100", "555-0100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, E164(tt.in), tt.in)
	}
}
