package recordRepo

import (
	"context"

	"garagelink/models"
)

// ServiceRecordRepository defines persistence operations for service records.
//
// Every transition method is conditioned on the record's current status so
// that two racing callers can never both succeed: the filter matches at most
// once and the loser observes matched == false.
type ServiceRecordRepository interface {
	Create(ctx context.Context, record *models.ServiceRecord) error
	GetByID(ctx context.Context, id string) (*models.ServiceRecord, error)
	// MarkCodeVerified transitions awaiting-code -> code-verified and clears
	// the stored one-time code so it can never be read or replayed again.
	MarkCodeVerified(ctx context.Context, id string) (matched bool, err error)
	// MarkCompleted transitions code-verified -> completed with the immutable
	// payment snapshot fields.
	MarkCompleted(ctx context.Context, id, paymentMethod, paymentRef string, isReliable bool) (matched bool, err error)
	// MarkCancelled transitions any non-completed, non-cancelled record to
	// cancelled.
	MarkCancelled(ctx context.Context, id string) (matched bool, err error)
	ListByGarage(ctx context.Context, garageID string) ([]models.ServiceRecord, error)
	ListByPhone(ctx context.Context, phone string) ([]models.ServiceRecord, error)
	// HasCompleted reports whether the phone holder has at least one
	// completed record with the garage (review eligibility).
	HasCompleted(ctx context.Context, garageID, phone string) (bool, error)
}
