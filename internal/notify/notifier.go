// Package notify delivers submission and withdrawal notices by email through SES and by
// SMS through SNS.
package notify

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/common/metrics"
	"housing-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"
)

// Delivery outcomes.
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Config struct {
	EmailEnabled bool
	FromEmail    string
	SMSEnabled   bool
	SenderID     string
	TemplateDir  string
}

// Notifier renders a notice from its template and sends it on every enabled channel the
// recipient has an address for.
type Notifier struct {
	config    Config
	ses       SESService
	sns       SNSService
	templates map[string]*compiled
	logger    logger.Logger
	now       func() time.Time
}

func New(cfg Config, sesClient SESService, snsClient SNSService, log logger.Logger) (*Notifier, error) {
	templates, err := loadTemplates(cfg.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return &Notifier{
		config:    cfg,
		ses:       sesClient,
		sns:       snsClient,
		templates: templates,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
		now:       time.Now,
	}, nil
}

// Send delivers notice on every channel. A channel failure does not stop the others; the
// failures are returned joined.
func (n *Notifier) Send(ctx context.Context, notice models.Notice) error {
	_, err := n.Deliver(ctx, notice)
	return err
}

// Deliver is Send that also reports what happened on each channel.
func (n *Notifier) Deliver(ctx context.Context, notice models.Notice) ([]models.Notification, error) {
	tmpl, ok := n.templates[notice.Type]
	if !ok {
		return nil, errors.New(errors.NotificationTemplateMissing, notice.Type)
	}

	id := uuid.New().String()
	log := n.logger.WithFields(map[string]interface{}{
		"notificationId": id,
		"type":           notice.Type,
		"applicationId":  notice.ApplicationID,
	})

	var (
		records []models.Notification
		errs    []error
	)
	record := func(channel, status string) {
		metrics.NotificationsSent.WithLabelValues(channel, status).Inc()
		records = append(records, models.Notification{
			ID:      id,
			Type:    notice.Type,
			Channel: channel,
			Status:  status,
			SentAt:  n.now().UTC().Format(time.RFC3339),
		})
	}

	switch {
	case !n.config.EmailEnabled || notice.Email == "":
		record("email", StatusDisabled)
	default:
		if err := n.sendEmail(ctx, tmpl, notice); err != nil {
			log.Error("email send failed", map[string]interface{}{"error": err.Error()})
			errs = append(errs, errors.Wrap(errors.NotificationEmailFailed, err))
			record("email", StatusFailed)
		} else {
			record("email", StatusSent)
		}
	}

	switch {
	case !n.config.SMSEnabled || notice.Phone == "" || tmpl.sms == nil:
		record("sms", StatusDisabled)
	default:
		if err := n.sendSMS(ctx, tmpl, notice); err != nil {
			log.Error("SMS send failed", map[string]interface{}{"error": err.Error()})
			errs = append(errs, errors.Wrap(errors.NotificationSMSFailed, err))
			record("sms", StatusFailed)
		} else {
			record("sms", StatusSent)
		}
	}

	log.Info("notice processed", map[string]interface{}{"channels": len(records), "failures": len(errs)})
	return records, stderrors.Join(errs...)
}

func (n *Notifier) sendEmail(ctx context.Context, tmpl *compiled, notice models.Notice) error {
	subject, err := render(tmpl.subject, notice)
	if err != nil {
		return err
	}
	body, err := render(tmpl.body, notice)
	if err != nil {
		return err
	}
	_, err = n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{notice.Email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(strings.TrimSpace(subject))},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.FromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, tmpl *compiled, notice models.Notice) error {
	message, err := render(tmpl.sms, notice)
	if err != nil {
		return err
	}
	input := &sns.PublishInput{
		PhoneNumber: aws.String(E164(notice.Phone)),
		Message:     aws.String(strings.TrimSpace(message)),
	}
	if n.config.SenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {DataType: aws.String("String"), StringValue: aws.String(n.config.SenderID)},
		}
	}
	_, err = n.sns.Publish(ctx, input)
	return err
}

// E164 formats a stored ten-digit US number as +1XXXXXXXXXX. Other values pass through.
func E164(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	switch {
	case strings.HasPrefix(phone, "+"):
		return "+" + digits
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits
	default:
		return phone
	}
}
