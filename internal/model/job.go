package model

import (
	"time"
)

// Job is the unit of portal visibility scoping.
type Job struct {
	ID         string    `db:"id" json:"id"`
	ContractID string    `db:"contract_id" json:"contractId"`
	Title      string    `db:"title" json:"title"`
	Stage      JobStage  `db:"stage" json:"stage"`
	Address    *string   `db:"address" json:"address,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

type JobFile struct {
	ID        string    `db:"id" json:"id"`
	JobID     string    `db:"job_id" json:"jobId"`
	Name      string    `db:"name" json:"name"`
	URL       string    `db:"url" json:"url"`
	SizeBytes int64     `db:"size_bytes" json:"sizeBytes"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateJobFileParams struct {
	JobID     string
	Name      string
	URL       string
	SizeBytes int64
}

type JobMessage struct {
	ID        string    `db:"id" json:"id"`
	JobID     string    `db:"job_id" json:"jobId"`
	Sender    string    `db:"sender" json:"sender"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateJobMessageParams struct {
	JobID  string
	Sender string
	Body   string
}

// JobNote is a staff note surfaced to the portal viewer.
type JobNote struct {
	ID        string    `db:"id" json:"id"`
	JobID     string    `db:"job_id" json:"jobId"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateJobNoteParams struct {
	JobID string
	Body  string
}
