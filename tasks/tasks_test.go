package tasks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"qualibot.com/qualifier/redis"
)

func TestTaskStatus(t *testing.T) {
	for _, status := range []TaskStatus{TaskStatusCompletedSuccess, TaskStatusCompletedFailure, TaskStatusCanceled} {
		require.True(t, status.Complete(), status)
		require.False(t, status.Submitted(), status)
	}
	for _, status := range []TaskStatus{TaskStatusSubmitted, TaskStatusStarted, TaskStatusProcessing} {
		require.False(t, status.Complete(), status)
		require.True(t, status.Submitted(), status)
	}
	require.False(t, TaskStatusFailed.Complete())
}

func TestMessageTaskUpdateKeepsOtherWorkers(t *testing.T) {
	raw := []byte(`{
		"job_id": "job-1",
		"text_file_key": "messages/1.txt",
		"task_statuses": {
			"qualifier": {"status": "submitted", "attempts": 0},
			"translator": {"status": "completed - success"}
		}
	}`)

	var task MessageTask
	merged, err := redis.MergeUpdate(raw, &task, func() {
		task.TaskStatuses.Qualifier.Status = TaskStatusStarted
		task.TaskStatuses.Qualifier.Attempts++
	})
	require.NoError(t, err)

	var statuses struct {
		TaskStatuses map[string]map[string]interface{} `json:"task_statuses"`
	}
	require.NoError(t, json.Unmarshal(merged, &statuses))
	require.Equal(t, "started", statuses.TaskStatuses[WorkerName]["status"])
	require.Equal(t, float64(1), statuses.TaskStatuses[WorkerName]["attempts"])
	require.Equal(t, "completed - success", statuses.TaskStatuses["translator"]["status"])
}

func TestCachedPropertiesKey(t *testing.T) {
	require.Equal(t, "job-1-cached-properties", cachedPropertiesKey("job-1"))
}
