package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/brixwork/portal-server/internal/database"
	"github.com/brixwork/portal-server/internal/model"
)

type JobRepository interface {
	FindByID(ctx context.Context, id string) (*model.Job, error)
	FindByContractID(ctx context.Context, contractID string) ([]model.Job, error)
	UpdateStage(ctx context.Context, id string, stage model.JobStage) (*model.Job, error)
}

type jobRepo struct {
	db database.DBTX
}

func NewJobRepository(db *sqlx.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	err := r.db.GetContext(ctx, &job, `SELECT * FROM jobs WHERE id = $1`, id)
	return HandleNotFound(&job, err)
}

func (r *jobRepo) FindByContractID(ctx context.Context, contractID string) ([]model.Job, error) {
	jobs := []model.Job{}
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT * FROM jobs WHERE contract_id = $1 ORDER BY created_at DESC
	`, contractID)
	return jobs, err
}

func (r *jobRepo) UpdateStage(ctx context.Context, id string, stage model.JobStage) (*model.Job, error) {
	var job model.Job
	err := r.db.GetContext(ctx, &job, `
		UPDATE jobs
		SET stage = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, stage)
	return HandleNotFound(&job, err)
}

// Job files

type JobFileRepository interface {
	FindByID(ctx context.Context, id string) (*model.JobFile, error)
	FindByJobID(ctx context.Context, jobID string) ([]model.JobFile, error)
	Create(ctx context.Context, params model.CreateJobFileParams) (*model.JobFile, error)
	Delete(ctx context.Context, id string) error
}

type jobFileRepo struct {
	db database.DBTX
}

func NewJobFileRepository(db *sqlx.DB) JobFileRepository {
	return &jobFileRepo{db: db}
}

func (r *jobFileRepo) FindByID(ctx context.Context, id string) (*model.JobFile, error) {
	var file model.JobFile
	err := r.db.GetContext(ctx, &file, `SELECT * FROM job_files WHERE id = $1`, id)
	return HandleNotFound(&file, err)
}

func (r *jobFileRepo) FindByJobID(ctx context.Context, jobID string) ([]model.JobFile, error) {
	files := []model.JobFile{}
	err := r.db.SelectContext(ctx, &files, `
		SELECT * FROM job_files WHERE job_id = $1 ORDER BY created_at
	`, jobID)
	return files, err
}

func (r *jobFileRepo) Create(ctx context.Context, params model.CreateJobFileParams) (*model.JobFile, error) {
	var file model.JobFile
	err := r.db.GetContext(ctx, &file, `
		INSERT INTO job_files (job_id, name, url, size_bytes)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.JobID, params.Name, params.URL, params.SizeBytes)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *jobFileRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM job_files WHERE id = $1`, id)
	return err
}

// Job messages

type JobMessageRepository interface {
	FindByJobID(ctx context.Context, jobID string) ([]model.JobMessage, error)
	Create(ctx context.Context, params model.CreateJobMessageParams) (*model.JobMessage, error)
}

type jobMessageRepo struct {
	db database.DBTX
}

func NewJobMessageRepository(db *sqlx.DB) JobMessageRepository {
	return &jobMessageRepo{db: db}
}

func (r *jobMessageRepo) FindByJobID(ctx context.Context, jobID string) ([]model.JobMessage, error) {
	messages := []model.JobMessage{}
	err := r.db.SelectContext(ctx, &messages, `
		SELECT * FROM job_messages WHERE job_id = $1 ORDER BY created_at
	`, jobID)
	return messages, err
}

func (r *jobMessageRepo) Create(ctx context.Context, params model.CreateJobMessageParams) (*model.JobMessage, error) {
	var msg model.JobMessage
	err := r.db.GetContext(ctx, &msg, `
		INSERT INTO job_messages (job_id, sender, body)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.JobID, params.Sender, params.Body)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Job notes

type JobNoteRepository interface {
	FindByJobID(ctx context.Context, jobID string) ([]model.JobNote, error)
	Create(ctx context.Context, params model.CreateJobNoteParams) (*model.JobNote, error)
}

type jobNoteRepo struct {
	db database.DBTX
}

func NewJobNoteRepository(db *sqlx.DB) JobNoteRepository {
	return &jobNoteRepo{db: db}
}

func (r *jobNoteRepo) FindByJobID(ctx context.Context, jobID string) ([]model.JobNote, error) {
	notes := []model.JobNote{}
	err := r.db.SelectContext(ctx, &notes, `
		SELECT * FROM job_notes WHERE job_id = $1 ORDER BY created_at
	`, jobID)
	return notes, err
}

func (r *jobNoteRepo) Create(ctx context.Context, params model.CreateJobNoteParams) (*model.JobNote, error) {
	var note model.JobNote
	err := r.db.GetContext(ctx, &note, `
		INSERT INTO job_notes (job_id, body)
		VALUES ($1, $2)
		RETURNING *
	`, params.JobID, params.Body)
	if err != nil {
		return nil, err
	}
	return &note, nil
}
