package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/brixwork/portal-server/internal/errors"
	"github.com/brixwork/portal-server/internal/live"
	"github.com/brixwork/portal-server/internal/model"
	"github.com/brixwork/portal-server/internal/repository"
)

// JobService applies staff-side mutations and fans the resulting update out
// to live portal viewers. Fanout is fire-and-forget: a delivery failure is
// logged and never fails the mutation that triggered it.
type JobService struct {
	jobRepo  repository.JobRepository
	fileRepo repository.JobFileRepository
	msgRepo  repository.JobMessageRepository
	noteRepo repository.JobNoteRepository
	hub      *live.Hub
}

func NewJobService(
	jobRepo repository.JobRepository,
	fileRepo repository.JobFileRepository,
	msgRepo repository.JobMessageRepository,
	noteRepo repository.JobNoteRepository,
	hub *live.Hub,
) *JobService {
	return &JobService{
		jobRepo:  jobRepo,
		fileRepo: fileRepo,
		msgRepo:  msgRepo,
		noteRepo: noteRepo,
		hub:      hub,
	}
}

func (s *JobService) UpdateStage(ctx context.Context, jobID string, stage model.JobStage) (*model.Job, error) {
	if !stage.Valid() {
		return nil, apperrors.InvalidInput("stage", string(stage))
	}

	job, err := s.jobRepo.UpdateStage(ctx, jobID, stage)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if job == nil {
		return nil, apperrors.NotFound("Job")
	}

	log.Info().Str("jobId", jobID).Str("stage", string(stage)).Msg("job stage updated")

	s.publish(ctx, jobID, live.JobChanged(job))
	return job, nil
}

func (s *JobService) AddFile(ctx context.Context, params model.CreateJobFileParams) (*model.JobFile, error) {
	if err := s.requireJob(ctx, params.JobID); err != nil {
		return nil, err
	}

	file, err := s.fileRepo.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	s.publish(ctx, params.JobID, live.FileAdded(file))
	return file, nil
}

func (s *JobService) DeleteFile(ctx context.Context, jobID, fileID string) error {
	file, err := s.fileRepo.FindByID(ctx, fileID)
	if err != nil {
		return apperrors.Database(err)
	}
	if file == nil || file.JobID != jobID {
		return apperrors.NotFound("File")
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return apperrors.Database(err)
	}

	s.publish(ctx, jobID, live.FileDeleted(fileID))
	return nil
}

func (s *JobService) AddMessage(ctx context.Context, params model.CreateJobMessageParams) (*model.JobMessage, error) {
	if err := s.requireJob(ctx, params.JobID); err != nil {
		return nil, err
	}

	msg, err := s.msgRepo.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	s.publish(ctx, params.JobID, live.MessageAdded(msg))
	return msg, nil
}

func (s *JobService) AddNote(ctx context.Context, params model.CreateJobNoteParams) (*model.JobNote, error) {
	if err := s.requireJob(ctx, params.JobID); err != nil {
		return nil, err
	}

	note, err := s.noteRepo.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	s.publish(ctx, params.JobID, live.NoteAdded(note))
	return note, nil
}

func (s *JobService) requireJob(ctx context.Context, jobID string) error {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return apperrors.Database(err)
	}
	if job == nil {
		return apperrors.NotFound("Job")
	}
	return nil
}

func (s *JobService) publish(ctx context.Context, jobID string, update live.Update) {
	if err := s.hub.Publish(ctx, jobID, update); err != nil {
		log.Error().Err(err).
			Str("jobId", jobID).
			Str("updateType", string(update.Type)).
			Msg("failed to publish live update")
	}
}
