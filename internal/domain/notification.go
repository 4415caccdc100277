package domain

import (
	"context"
	"time"
)

type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationInfo    NotificationLevel = "info"
)

// Notification is a transient, non-blocking toast for one user.
type Notification struct {
	ID        string            `json:"id"`
	Subject   string            `json:"-"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	Entity    string            `json:"entity,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) {}
