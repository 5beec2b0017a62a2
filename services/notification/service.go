package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"garagelink/models"

	"github.com/hibiken/asynq"
)

// TypeNotifySend is the asynq task type for queued message delivery.
const TypeNotifySend = "notify:send"

// AsynqNotificationService queues messages on redis for the notification
// worker. Enqueueing decouples delivery latency and failures from the
// request path.
type AsynqNotificationService struct {
	Client  *asynq.Client
	Enabled bool
}

// NewAsynqNotificationService builds the queue-backed notification service.
func NewAsynqNotificationService(redisOpts asynq.RedisClientOpt, enabled bool) *AsynqNotificationService {
	return &AsynqNotificationService{
		Client:  asynq.NewClient(redisOpts),
		Enabled: enabled,
	}
}

func (s *AsynqNotificationService) IsConfigured() bool {
	return s.Enabled && s.Client != nil
}

func (s *AsynqNotificationService) Send(ctx context.Context, phone, template string, params map[string]string) error {
	if !s.IsConfigured() {
		return fmt.Errorf("notification delivery is not configured")
	}
	payload, err := json.Marshal(models.NotificationPayload{
		Phone:    phone,
		Template: template,
		Params:   params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	task := asynq.NewTask(TypeNotifySend, payload, asynq.MaxRetry(3))
	if _, err := s.Client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}
