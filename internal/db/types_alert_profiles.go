package db

import (
	"time"

	"github.com/google/uuid"
)

// AlertProfile is a stored search subscription. The scheduler runs the
// positions through the aggregator and delivers matches to the webhook.
type AlertProfile struct {
	ID               uuid.UUID  `json:"id"`
	Positions        []string   `json:"positions"`
	Skills           []string   `json:"skills"`
	PreferredCountry string     `json:"preferred_country"`
	WebhookURL       *string    `json:"webhook_url,omitempty"`
	IsActive         bool       `json:"is_active"`
	LastAlertedAt    *time.Time `json:"last_alerted_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// AlertProfileCreateInput is the payload for creating an alert profile.
type AlertProfileCreateInput struct {
	Positions        []string
	Skills           []string
	PreferredCountry string
	WebhookURL       *string
	IsActive         bool
}

// AlertProfileUpdateInput is a partial update; nil fields are left unchanged.
type AlertProfileUpdateInput struct {
	Positions        []string
	Skills           []string
	PreferredCountry *string
	WebhookURL       *string
	IsActive         *bool
}
