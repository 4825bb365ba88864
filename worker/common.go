package worker

import (
	"fmt"
	"path"
	"time"

	"qualibot.com/qualifier/utils"
)

// results live next to the message, named after the text they answer
func getResultsFileKey(task *Task) string {
	return path.Join(
		"processed",
		"jobs",
		task.messageTask.JobID,
		"messages",
		task.redisKey,
		fmt.Sprintf("%s.qualifier_results.json", utils.HashKey(task.messageTask.TextFileKey)),
	)
}

const RFC3339Micro = "2006-01-02T15:04:05.000000-07:00"

func getFormattedNow() *string {
	now := time.Now().UTC().Format(RFC3339Micro)
	return &now
}
