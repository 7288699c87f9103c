package queue

import (
	"encoding/json"

	"github.com/ze-news/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskFactCheckStatusEmail 核查状态邮件通知任务
	TaskFactCheckStatusEmail = constants.TaskFactCheckStatusEmail
	// TaskFactCheckSourceSnapshot 来源快照抓取任务
	TaskFactCheckSourceSnapshot = constants.TaskFactCheckSourceSnapshot
)

// FactCheckStatusEmailPayload 核查状态邮件任务载荷
type FactCheckStatusEmailPayload struct {
	FactCheckID string `json:"fact_check_id"`
	Status      string `json:"status"`
	Locale      string `json:"locale"`
}

// FactCheckSourceSnapshotPayload 来源快照任务载荷
type FactCheckSourceSnapshotPayload struct {
	FactCheckID string `json:"fact_check_id"`
	SourceURL   string `json:"source_url"`
}

// NewFactCheckStatusEmailTask 创建核查状态邮件任务
func NewFactCheckStatusEmailTask(payload FactCheckStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFactCheckStatusEmail, body, asynq.MaxRetry(5)), nil
}

// NewFactCheckSourceSnapshotTask 创建来源快照任务
func NewFactCheckSourceSnapshotTask(payload FactCheckSourceSnapshotPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFactCheckSourceSnapshot, body, asynq.MaxRetry(3)), nil
}
