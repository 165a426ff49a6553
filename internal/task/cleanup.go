package task

import (
	"CloudStore/internal/mq"
	"context"
	"encoding/json"
)

// CleanupMessage asks the worker to remove one blob.
type CleanupMessage struct {
	Bucket  string `json:"bucket"`
	Object  string `json:"object"`
	Attempt int    `json:"attempt"`
}

// EnqueueBlobCleanup schedules deferred removal of a blob that could not
// be deleted inline.
func EnqueueBlobCleanup(ctx context.Context, bucket, object string) error {
	msg := CleanupMessage{
		Bucket:  bucket,
		Object:  object,
		Attempt: 0,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	publisher, err := mq.GetPublisher()
	if err != nil {
		return err
	}
	return publisher.PublishTask(ctx, body)
}
