package model

import "time"

const DefaultNotificationTitle = "Aqua Buddy 💧"

// ScheduledNotification is a queued push message. Times are epoch milliseconds.
type ScheduledNotification struct {
	ID            string `db:"id" json:"id"`
	Token         string `db:"token" json:"token"`
	Title         string `db:"title" json:"title"`
	Message       string `db:"message" json:"message"`
	ScheduledTime int64  `db:"scheduled_time" json:"scheduledTime"`
	Sent          bool   `db:"sent" json:"sent"`
	CreatedAt     int64  `db:"created_at" json:"createdAt"`
	SentAt        *int64 `db:"sent_at" json:"sentAt,omitempty"`
}

// IsDue reports whether the entry should be picked up by a drain at now.
func (n *ScheduledNotification) IsDue(now time.Time) bool {
	return !n.Sent && n.ScheduledTime <= now.UnixMilli()
}

// ScheduledAt returns the due time as a time.Time in UTC.
func (n *ScheduledNotification) ScheduledAt() time.Time {
	return time.UnixMilli(n.ScheduledTime).UTC()
}
