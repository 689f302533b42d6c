package models

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	NotificationSuccess = "success"
	NotificationError   = "error"
	NotificationInfo    = "info"
	NotificationWarning = "warning"
)

const (
	// ApprovedDateLayout is the day/month/year format stored in review fields.
	ApprovedDateLayout = "02/01/2006"

	// EventDateLayout is the calendar-date format used by event and range fields.
	EventDateLayout = "2006-01-02"

	// MonthBucketLayout labels the per-month report buckets, e.g. "Jan 2025".
	MonthBucketLayout = "Jan 2006"
)

// ValidStatus reports whether s is one of the three lifecycle statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ValidNotificationType reports whether t is a known notification type.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationSuccess, NotificationError, NotificationInfo, NotificationWarning:
		return true
	}
	return false
}
