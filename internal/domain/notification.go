package domain

import "time"

type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
	NotifyWarning NotificationType = "warning"
)

// Notification is an advisory message shown to the visitor. It is never persisted.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
}
