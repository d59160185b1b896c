package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/justsurfingit/TalentScout-AI/internal/apperr"
	"github.com/justsurfingit/TalentScout-AI/internal/models"
	"github.com/justsurfingit/TalentScout-AI/internal/storage"
)

const ResumeURLExpiry = 15 * time.Minute

// CandidateService reads and mutates candidates. Every operation walks
// Candidate -> Job -> owner again; nothing trusts an earlier check.
type CandidateService struct {
	DB      *gorm.DB
	Jobs    *JobService
	Archive storage.ResumeArchive // nil when no object storage is configured
}

func NewCandidateService(db *gorm.DB, jobs *JobService, archive storage.ResumeArchive) *CandidateService {
	return &CandidateService{
		DB:      db,
		Jobs:    jobs,
		Archive: archive,
	}
}

// ListCandidates returns a job's candidates, best score first.
func (s *CandidateService) ListCandidates(ctx context.Context, jobID, ownerID string) ([]models.Candidate, error) {
	job, err := s.Jobs.GetJob(ctx, jobID, ownerID)
	if err != nil {
		return nil, err
	}

	candidates := []models.Candidate{}
	err = s.DB.WithContext(ctx).
		Where("job_id = ?", job.ID).
		Order("ai_score desc").
		Order("created_at asc").
		Find(&candidates).Error
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return candidates, nil
}

func (s *CandidateService) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

// owned loads a candidate and re-derives its job under ownerID. A missing
// candidate and a candidate of someone else's job look the same.
func (s *CandidateService) owned(ctx context.Context, candidateID, ownerID string) (*models.Candidate, *models.Job, error) {
	if !validID(candidateID) {
		return nil, nil, apperr.NotFound("candidate")
	}

	var c models.Candidate
	err := s.DB.WithContext(ctx).Where("id = ?", candidateID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperr.NotFound("candidate")
	}
	if err != nil {
		return nil, nil, apperr.Persistence(err)
	}

	job, err := s.Jobs.GetJob(ctx, c.JobID, ownerID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil, apperr.NotFound("candidate")
	}
	if err != nil {
		return nil, nil, err
	}
	return &c, job, nil
}

// candidateOfJob loads a candidate that must belong to job.
func (s *CandidateService) candidateOfJob(ctx context.Context, candidateID string, job *models.Job) (*models.Candidate, error) {
	if !validID(candidateID) {
		return nil, apperr.NotFound("candidate")
	}

	var c models.Candidate
	err := s.DB.WithContext(ctx).Where("id = ? AND job_id = ?", candidateID, job.ID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("candidate")
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return &c, nil
}

// UpdateStatus moves a candidate to status. emailBody may only accompany
// Invited; a later revert keeps the stored body. Repeating the same update
// leaves the record untouched.
func (s *CandidateService) UpdateStatus(ctx context.Context, candidateID, ownerID, status string, emailBody *string) (*models.Candidate, error) {
	st, err := models.ParseCandidateStatus(status)
	if err != nil {
		return nil, apperr.InvalidInput("%v", err)
	}
	if emailBody != nil && strings.TrimSpace(*emailBody) == "" {
		emailBody = nil
	}
	if emailBody != nil && st != models.CandidateInvited {
		return nil, apperr.InvalidInput("emailBody is only accepted with status %s", models.CandidateInvited)
	}

	c, _, err := s.owned(ctx, candidateID, ownerID)
	if err != nil {
		return nil, err
	}

	bodyChanged := emailBody != nil && (c.EmailBody == nil || *c.EmailBody != *emailBody)
	if c.Status == st && !bodyChanged {
		return c, nil
	}

	updates := map[string]any{"status": st}
	if bodyChanged {
		updates["email_body"] = *emailBody
	}
	if err := s.DB.WithContext(ctx).Model(c).Updates(updates).Error; err != nil {
		return nil, apperr.Persistence(err)
	}

	c.Status = st
	if bodyChanged {
		c.EmailBody = emailBody
	}
	log.Printf("[Candidate: %s] status -> %s", c.ID, st)
	return c, nil
}

// DeleteCandidate removes a candidate permanently after checking ownership again.
func (s *CandidateService) DeleteCandidate(ctx context.Context, candidateID, ownerID string) error {
	c, _, err := s.owned(ctx, candidateID, ownerID)
	if err != nil {
		return err
	}

	res := s.DB.WithContext(ctx).Where("id = ? AND job_id = ?", c.ID, c.JobID).Delete(&models.Candidate{})
	if res.Error != nil {
		return apperr.Persistence(res.Error)
	}
	// lost a race with another delete
	if res.RowsAffected == 0 {
		return apperr.NotFound("candidate")
	}
	log.Printf("[Candidate: %s] 🗑️ deleted", c.ID)
	return nil
}

// ResumeURL returns a short-lived download link for the archived upload.
func (s *CandidateService) ResumeURL(ctx context.Context, candidateID, ownerID string) (string, error) {
	c, _, err := s.owned(ctx, candidateID, ownerID)
	if err != nil {
		return "", err
	}
	if s.Archive == nil || c.ResumeKey == "" {
		return "", apperr.NotFound("resume file")
	}

	url, err := s.Archive.PresignedURL(ctx, c.ResumeKey, ResumeURLExpiry)
	if err != nil {
		return "", apperr.Wrap(apperr.KindPersistence, err, "could not sign resume link")
	}
	return url, nil
}
