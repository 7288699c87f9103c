package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ze-news/internal/logger"
	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/provider"
	"github.com/ze-news/internal/queue"
	"github.com/ze-news/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskFactCheckStatusEmail, c.handleFactCheckStatusEmail)
	mux.HandleFunc(queue.TaskFactCheckSourceSnapshot, c.handleFactCheckSourceSnapshot)
}

func (c *Consumer) handleFactCheckStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_fact_check_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.FactCheckStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_fact_check_email_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if strings.TrimSpace(payload.FactCheckID) == "" {
		logger.Debugw("worker_fact_check_email_skip_invalid_payload")
		return nil
	}
	item, err := c.FactCheckRepo.GetByID(payload.FactCheckID)
	if err != nil {
		logger.Warnw("worker_fact_check_email_fetch_failed", "fact_check_id", payload.FactCheckID, "error", err)
		return err
	}
	if item == nil {
		logger.Debugw("worker_fact_check_email_skip_not_found", "fact_check_id", payload.FactCheckID)
		return nil
	}
	receiver := strings.TrimSpace(item.SubmitterEmail)
	if receiver == "" {
		logger.Debugw("worker_fact_check_email_skip_empty_receiver", "fact_check_id", item.ID)
		return nil
	}
	if c.EmailService == nil || !c.EmailService.Enabled() {
		logger.Infow("worker_fact_check_email_skip_disabled", "fact_check_id", item.ID)
		return nil
	}

	input := buildFactCheckStatusEmailInput(item, payload.Status)
	if err := c.EmailService.SendFactCheckStatusEmail(receiver, input, payload.Locale); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailServiceNotConfigured), errors.Is(err, service.ErrEmailServiceDisabled):
			logger.Infow("worker_fact_check_email_skip_disabled", "fact_check_id", item.ID)
			return nil
		case errors.Is(err, service.ErrEmailRecipientRejected):
			logger.Warnw("worker_fact_check_email_recipient_rejected",
				"fact_check_id", item.ID,
				"receiver_email", receiver,
				"error", err,
			)
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		default:
			logger.Warnw("worker_fact_check_email_send_failed",
				"fact_check_id", item.ID,
				"receiver_email", receiver,
				"status", input.Status,
				"error", err,
			)
			return err
		}
	}
	logger.Infow("worker_fact_check_email_sent", "fact_check_id", item.ID, "status", input.Status)
	return nil
}

func (c *Consumer) handleFactCheckSourceSnapshot(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_source_snapshot_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.FactCheckSourceSnapshotPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_source_snapshot_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if strings.TrimSpace(payload.FactCheckID) == "" || strings.TrimSpace(payload.SourceURL) == "" {
		logger.Debugw("worker_source_snapshot_skip_invalid_payload", "fact_check_id", payload.FactCheckID)
		return nil
	}
	if c.SourceSnapshotService == nil {
		logger.Warnw("worker_source_snapshot_skip_service_nil", "fact_check_id", payload.FactCheckID)
		return nil
	}
	if _, err := c.SourceSnapshotService.Capture(ctx, payload.FactCheckID, payload.SourceURL); err != nil {
		switch {
		case errors.Is(err, service.ErrFactCheckNotFound):
			logger.Debugw("worker_source_snapshot_skip_not_found", "fact_check_id", payload.FactCheckID)
			return nil
		case errors.Is(err, service.ErrInvalidSourceURL):
			logger.Debugw("worker_source_snapshot_skip_invalid_url", "fact_check_id", payload.FactCheckID)
			return nil
		default:
			logger.Warnw("worker_source_snapshot_failed", "fact_check_id", payload.FactCheckID, "error", err)
			return err
		}
	}
	return nil
}

// buildFactCheckStatusEmailInput 以入队时的状态为准，缺省时取当前状态
func buildFactCheckStatusEmailInput(item *models.FactCheck, status string) service.FactCheckStatusEmailInput {
	if item == nil {
		return service.FactCheckStatusEmailInput{}
	}
	status = strings.TrimSpace(status)
	if status == "" {
		status = item.Status
	}
	return service.FactCheckStatusEmailInput{
		FactCheckID:   item.ID,
		Claim:         strings.TrimSpace(item.Claim),
		Status:        status,
		VerdictNote:   strings.TrimSpace(item.VerdictNote),
		SubmitterName: strings.TrimSpace(item.SubmitterName),
	}
}
