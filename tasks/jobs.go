package tasks

import (
	"context"

	"qualibot.com/qualifier/redis"
)

const JobsDB redis.DB = 1

// JobTask groups the messages of one conversation.
type JobTask struct {
	UserCanceled  bool     `json:"user_canceled"`
	StopOnFailure bool     `json:"stop_on_failure"`
	FailedTasks   []string `json:"failed_tasks"`
}

type JobTasks struct {
	client redis.Client
}

// GetCached reads the lightweight copy of the job kept next to the full
// record.
func (tasks JobTasks) GetCached(ctx context.Context, redisKey string) (*JobTask, error) {
	var task JobTask
	if err := tasks.client.GetDocument(ctx, cachedPropertiesKey(redisKey), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update changes both the job record and its cached copy.
func (tasks JobTasks) Update(ctx context.Context, redisKey string, updateFunc func(task *JobTask)) error {
	var task JobTask
	if err := tasks.client.UpdateDocument(ctx, redisKey, &task, func() { updateFunc(&task) }); err != nil {
		return err
	}
	var cached JobTask
	return tasks.client.UpdateDocument(ctx, cachedPropertiesKey(redisKey), &cached, func() { updateFunc(&cached) })
}
