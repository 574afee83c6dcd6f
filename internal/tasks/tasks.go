// Package tasks defines the asynq task types used by the background worker.
package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TypeDigestGenerate = "digest:generate"

// DigestPayload carries the parameters of a scheduled digest run.
type DigestPayload struct {
	RunID string `json:"run_id"`
	Hours int    `json:"hours"`
}

func NewDigestTask(hours int) (*asynq.Task, error) {
	payload, err := json.Marshal(DigestPayload{
		RunID: uuid.New().String(),
		Hours: hours,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDigestGenerate, payload), nil
}
