package tasks

import (
	"fmt"

	"qualibot.com/qualifier/redis"
)

// WorkerName is the key of the qualifier status in task records.
const WorkerName = "qualifier"

type TaskStatus string

const (
	TaskStatusProcessing       TaskStatus = "processing"
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
	TaskStatusCanceled         TaskStatus = "canceled"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure || s == TaskStatusCanceled
}

func (s TaskStatus) Submitted() bool {
	return s == TaskStatusSubmitted || s == TaskStatusStarted || s == TaskStatusProcessing
}

type Client struct {
	Messages MessageTasks
	Jobs     JobTasks
}

// NewClient connects one redis client per task database.
func NewClient() (Client, error) {
	cfg, err := redis.NewConfig()
	if err != nil {
		return Client{}, err
	}
	return Client{
		Messages: MessageTasks{client: redis.NewClient(cfg, MessagesDB)},
		Jobs:     JobTasks{client: redis.NewClient(cfg, JobsDB)},
	}, nil
}

func (client *Client) Close() {
	_ = client.Messages.client.Close()
	_ = client.Jobs.client.Close()
}

func cachedPropertiesKey(redisKey string) string {
	return fmt.Sprintf("%s-cached-properties", redisKey)
}
