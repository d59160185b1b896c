package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justsurfingit/TalentScout-AI/internal/apperr"
	"github.com/justsurfingit/TalentScout-AI/internal/dtos"
	"github.com/justsurfingit/TalentScout-AI/internal/models"
)

// JobService is the job store. Every query filters by (id, owner).
type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{
		DB: db,
	}
}

func (s *JobService) CreateJob(ctx context.Context, ownerID string, req *dtos.JobCreationRequest) (*models.Job, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if ownerID == "" {
		return nil, apperr.InvalidInput("owner is required")
	}
	if title == "" || description == "" {
		return nil, apperr.InvalidInput("title and description are required")
	}

	job := &models.Job{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Status:      models.JobActive,
	}
	if err := s.DB.WithContext(ctx).Create(job).Error; err != nil {
		return nil, apperr.Persistence(err)
	}
	return job, nil
}

// ListJobs returns the caller's jobs, newest first. A non-empty status filters them.
func (s *JobService) ListJobs(ctx context.Context, ownerID, status string) ([]models.Job, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", ownerID)
	if status != "" {
		st, err := models.ParseJobStatus(status)
		if err != nil {
			return nil, apperr.InvalidInput("%v", err)
		}
		q = q.Where("status = ?", st)
	}

	jobs := []models.Job{}
	if err := q.Order("created_at desc").Find(&jobs).Error; err != nil {
		return nil, apperr.Persistence(err)
	}
	return jobs, nil
}

// GetJob loads a job owned by ownerID. A missing job and a job owned by
// someone else return the same NotFoundOrUnauthorized error.
func (s *JobService) GetJob(ctx context.Context, jobID, ownerID string) (*models.Job, error) {
	if !validID(jobID) || ownerID == "" {
		return nil, apperr.NotFound("job")
	}

	var job models.Job
	err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", jobID, ownerID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("job")
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return &job, nil
}

func (s *JobService) UpdateJobStatus(ctx context.Context, jobID, ownerID, status string) (*models.Job, error) {
	st, err := models.ParseJobStatus(status)
	if err != nil {
		return nil, apperr.InvalidInput("%v", err)
	}

	job, err := s.GetJob(ctx, jobID, ownerID)
	if err != nil {
		return nil, err
	}
	if job.Status == st {
		return job, nil
	}

	err = s.DB.WithContext(ctx).Model(job).
		Where("user_id = ?", ownerID).
		Update("status", st).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	job.Status = st
	return job, nil
}

// validID rejects ids that are not UUIDs before they reach a uuid column.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
