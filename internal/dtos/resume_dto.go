package dtos

import "github.com/justsurfingit/TalentScout-AI/internal/models"

// AnalyzeForm is the non-file part of the multipart analyze request.
type AnalyzeForm struct {
	JobID string `form:"jobId" binding:"required"`
}

type EmailDraftRequest struct {
	CandidateID string `json:"candidateId" binding:"required"`
	JobID       string `json:"jobId" binding:"required"`
}

type EmailDraftResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type CandidateStatusRequest struct {
	CandidateID string  `json:"candidateId" binding:"required"`
	Status      string  `json:"status" binding:"required"`
	EmailBody   *string `json:"emailBody"`
}

type CandidateResponse struct {
	Message   string            `json:"message"`
	Candidate *models.Candidate `json:"candidate"`
}

type ResumeFileResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
}
