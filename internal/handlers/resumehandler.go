package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/TalentScout-AI/internal/apperr"
	"github.com/justsurfingit/TalentScout-AI/internal/dtos"
	"github.com/justsurfingit/TalentScout-AI/internal/services"
)

// Multipart field names accepted for the uploaded file.
var resumeFields = []string{"resume", "file"}

type ResumeHandler struct {
	GradingService   *services.GradingService
	EmailService     *services.EmailService
	CandidateService *services.CandidateService
	MaxUploadBytes   int64
}

func NewResumeHandler(g *services.GradingService, e *services.EmailService, cs *services.CandidateService, maxUploadBytes int64) *ResumeHandler {
	return &ResumeHandler{
		GradingService:   g,
		EmailService:     e,
		CandidateService: cs,
		MaxUploadBytes:   maxUploadBytes,
	}
}

// Analyze is POST /resumes/analyze (multipart: resume|file, jobId)
func (h *ResumeHandler) Analyze(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}

	data, err := h.readUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var form dtos.AnalyzeForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, apperr.InvalidInput("Job ID is required"))
		return
	}

	candidate, err := h.GradingService.Analyze(c.Request.Context(), form.JobID, ownerID, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.CandidateResponse{Message: "Analysis complete", Candidate: candidate})
}

func (h *ResumeHandler) readUpload(c *gin.Context) ([]byte, error) {
	var (
		header *multipart.FileHeader
		err    error
	)
	for _, field := range resumeFields {
		if header, err = c.FormFile(field); err == nil {
			break
		}
	}
	if header == nil {
		return nil, apperr.InvalidInput("No resume file uploaded")
	}
	if h.MaxUploadBytes > 0 && header.Size > h.MaxUploadBytes {
		return nil, apperr.InvalidInput("File is larger than %d MB", h.MaxUploadBytes>>20)
	}

	f, err := header.Open()
	if err != nil {
		return nil, apperr.InvalidInput("Could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperr.InvalidInput("Could not read uploaded file")
	}
	if len(data) == 0 {
		return nil, apperr.InvalidInput("No resume file uploaded")
	}
	return data, nil
}

// GenerateEmail is POST /resumes/generate-email
func (h *ResumeHandler) GenerateEmail(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req dtos.EmailDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	draft, err := h.EmailService.DraftInvite(c.Request.Context(), req.CandidateID, req.JobID, ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.EmailDraftResponse{Subject: draft.Subject, Body: draft.Body})
}

// UpdateStatus is PATCH /resumes/status
func (h *ResumeHandler) UpdateStatus(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req dtos.CandidateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	candidate, err := h.CandidateService.UpdateStatus(c.Request.Context(), req.CandidateID, ownerID, req.Status, req.EmailBody)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.CandidateResponse{Message: "Status updated", Candidate: candidate})
}

// DeleteCandidate is DELETE /resumes/:id
func (h *ResumeHandler) DeleteCandidate(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	if err := h.CandidateService.DeleteCandidate(c.Request.Context(), c.Param("id"), ownerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Candidate deleted"})
}

// ResumeFile is GET /resumes/:id/file
func (h *ResumeHandler) ResumeFile(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	url, err := h.CandidateService.ResumeURL(c.Request.Context(), c.Param("id"), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.ResumeFileResponse{URL: url, ExpiresIn: int(services.ResumeURLExpiry.Seconds())})
}
