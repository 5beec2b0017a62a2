package notification

import (
	"context"
	"encoding/json"

	"garagelink/models"
	"garagelink/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitNotifyWorker runs the async delivery worker in the background.
func InitNotifyWorker(redisOpts asynq.RedisClientOpt) *asynq.Server {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNotifySend, handleNotifyTask)

	go func() {
		logger := utils.GetLogger()
		logger.Info("starting notification worker")
		if err := srv.Run(mux); err != nil {
			logger.Error("notification worker stopped", zap.Error(err))
		}
	}()
	return srv
}

func handleNotifyTask(ctx context.Context, task *asynq.Task) error {
	var p models.NotificationPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		utils.GetLogger().Error("invalid notification payload", zap.Error(err))
		return err
	}
	return SendWhatsAppMessage(p.Phone, RenderTemplate(p.Template, p.Params))
}
