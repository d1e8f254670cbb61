package ingest

import (
	"context"
	"encoding/json"
	"errors"
)

// TypeIngestUpload is the queue task name for one upload.
const TypeIngestUpload = "ingest.upload"

// Task is one unit of background work: ingest a single stored upload.
type Task struct {
	UploadID   int64  `json:"upload_id"`
	DealerID   int64  `json:"dealer_id"`
	StorageKey string `json:"storage_key"`
}

var ErrInvalidTask = errors.New("invalid ingest task")

func (t Task) Validate() error {
	if t.UploadID <= 0 || t.DealerID <= 0 || t.StorageKey == "" {
		return ErrInvalidTask
	}
	return nil
}

func (t Task) Marshal() ([]byte, error) {
	return json.Marshal(t)
}

func ParseTask(data []byte) (Task, error) {
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return Task{}, err
	}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Runner executes a task to a terminal upload state.
type Runner interface {
	Run(ctx context.Context, t Task) error
}
