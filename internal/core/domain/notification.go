package domain

import "time"

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

var notificationColors = map[NotificationType]string{
	NotificationSuccess: "#059669",
	NotificationError:   "#dc2626",
	NotificationWarning: "#d97706",
	NotificationInfo:    "#2563eb",
}

// ParseNotificationType falls back to info for unknown or empty values.
func ParseNotificationType(v string) NotificationType {
	t := NotificationType(v)
	if _, ok := notificationColors[t]; ok {
		return t
	}
	return NotificationInfo
}

func (t NotificationType) Color() string {
	if c, ok := notificationColors[t]; ok {
		return c
	}
	return notificationColors[NotificationInfo]
}

type NotificationState string

const (
	NotificationVisible NotificationState = "visible"
	NotificationExiting NotificationState = "exiting"
)

type Notification struct {
	ID        string            `json:"id"`
	Message   string            `json:"message"`
	Type      NotificationType  `json:"type"`
	Color     string            `json:"color"`
	State     NotificationState `json:"state"`
	CreatedAt time.Time         `json:"created_at"`
}
