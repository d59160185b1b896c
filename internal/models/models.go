package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Job is a recruiting campaign. Every read and write is scoped by (ID, UserID).
type Job struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Owner, as resolved by the identity layer. Never taken from a request body.
	UserID string `gorm:"not null;index" json:"userId"`

	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Status      JobStatus `gorm:"not null;default:'Active'" json:"status"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.Status == "" {
		j.Status = JobActive
	}
	return nil
}

// Candidate is one graded resume. It is only reachable through a Job owned by the caller.
type Candidate struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	JobID string `gorm:"not null;index;type:uuid" json:"jobId"`
	Job   *Job   `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Name      string                          `gorm:"not null" json:"name"`
	Email     string                          `gorm:"not null" json:"email"`
	AIScore   int                             `gorm:"not null;index" json:"aiScore"`
	Tier      Tier                            `gorm:"not null" json:"tier"`
	Summary   string                          `gorm:"type:text;not null" json:"summary"`
	KeySkills datatypes.JSONType[SkillScores] `json:"keySkills"`
	Badges    datatypes.JSONSlice[string]     `json:"badges"`
	Status    CandidateStatus                 `gorm:"not null;default:'New'" json:"status"`

	// Set when the candidate is moved to Invited.
	EmailBody *string `gorm:"type:text" json:"emailBody,omitempty"`

	OriginalResumeText string `gorm:"type:text" json:"originalResumeText"`
	// Object key of the archived upload, empty when no archive is configured.
	ResumeKey string `json:"resumeKey,omitempty"`
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = CandidateNew
	}
	return nil
}

// Skills returns the ordered skill scores.
func (c *Candidate) Skills() SkillScores {
	return c.KeySkills.Data()
}
