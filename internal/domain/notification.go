package domain

import "time"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Notifications self-remove after this long unless dismissed earlier.
const NotificationTTL = 5 * time.Second

type Notification struct {
	ID        string
	Severity  Severity
	Title     string
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}
