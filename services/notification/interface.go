// Package notification delivers customer-facing messages (one-time codes,
// invoices) through an external channel. Delivery is best-effort: callers
// surface the outcome as a response flag but never fail their primary
// operation on it.
package notification

import "context"

// NotificationService is the delivery collaborator consumed by the core.
type NotificationService interface {
	// IsConfigured gates whether delivery is attempted at all.
	IsConfigured() bool
	// Send queues one message for the phone number using the named template.
	Send(ctx context.Context, phone, template string, params map[string]string) error
}
