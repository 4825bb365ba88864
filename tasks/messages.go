package tasks

import (
	"context"

	"qualibot.com/qualifier/redis"
)

const MessagesDB redis.DB = 2

// MessageTask is the redis record of one incoming message.
type MessageTask struct {
	JobID        string              `json:"job_id"`
	TextFileKey  string              `json:"text_file_key"`
	TaskStatuses MessageTaskStatuses `json:"task_statuses"`
}

type MessageTaskStatuses struct {
	Qualifier TaskInfo `json:"qualifier"`
}

type TaskInfo struct {
	ResultsFileKey string     `json:"results_file_key"`
	StartedAt      *string    `json:"started_at"`
	CompletedAt    *string    `json:"completed_at"`
	Attempts       int        `json:"attempts"`
	Status         TaskStatus `json:"status"`
	ErrorMessages  []string   `json:"error_messages"`
}

type MessageTasks struct {
	client redis.Client
}

func (tasks MessageTasks) Get(ctx context.Context, redisKey string) (*MessageTask, error) {
	var task MessageTask
	if err := tasks.client.GetDocument(ctx, redisKey, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks MessageTasks) Update(ctx context.Context, redisKey string, updateFunc func(task *MessageTask)) error {
	var task MessageTask
	return tasks.client.UpdateDocument(ctx, redisKey, &task, func() {
		updateFunc(&task)
	})
}
