// internal/models/notification.go
package models

import "time"

// Notice types.
const (
	NoticeSubmitted = "application_submitted"
	NoticeWithdrawn = "application_withdrawn"
)

// Notice is a submission or withdrawal notice addressed to an applicant.
// The listing address comes from the application's submission snapshot.
type Notice struct {
	Type           string    `json:"type"`
	Username       string    `json:"username"`
	RecipientName  string    `json:"recipientName"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	ApplicationID  int64     `json:"applicationId"`
	ListingID      int64     `json:"listingId"`
	ListingName    string    `json:"listingName"`
	ListingAddress string    `json:"listingAddress"`
	StatusCd       string    `json:"statusCd"`
	OccurredAt     time.Time `json:"occurredAt"`
}

type NotificationTemplate struct {
	Type    string `json:"type" yaml:"type"`
	Subject string `json:"subject" yaml:"subject"`
	Body    string `json:"body" yaml:"body"`
	SMS     string `json:"sms,omitempty" yaml:"sms"`
}

// Notification records one delivery attempt.
type Notification struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Channel string `json:"channel"` // "email", "sms"
	Status  string `json:"status"`  // "sent", "failed", "disabled"
	SentAt  string `json:"sentAt"`
}
