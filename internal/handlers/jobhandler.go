package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/TalentScout-AI/internal/auth"
	"github.com/justsurfingit/TalentScout-AI/internal/dtos"
	"github.com/justsurfingit/TalentScout-AI/internal/export"
	"github.com/justsurfingit/TalentScout-AI/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type JobHandler struct {
	JobService       *services.JobService
	CandidateService *services.CandidateService
}

func NewJobHandler(j *services.JobService, cs *services.CandidateService) *JobHandler {
	return &JobHandler{
		JobService:       j,
		CandidateService: cs,
	}
}

// owner aborts with 401 when the auth middleware did not run.
func owner(c *gin.Context) (string, bool) {
	id, ok := auth.OwnerID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return id, ok
}

// CreateJob is POST /jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	job, err := h.JobService.CreateJob(c.Request.Context(), ownerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// ListJobs is GET /jobs?status=
func (h *JobHandler) ListJobs(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var q dtos.JobListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	jobs, err := h.JobService.ListJobs(c.Request.Context(), ownerID, q.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GetJob is GET /jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	job, err := h.JobService.GetJob(c.Request.Context(), c.Param("id"), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// UpdateJobStatus is PATCH /jobs/:id/status
func (h *JobHandler) UpdateJobStatus(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req dtos.JobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	job, err := h.JobService.UpdateJobStatus(c.Request.Context(), c.Param("id"), ownerID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListCandidates is GET /jobs/:id/candidates
func (h *JobHandler) ListCandidates(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	candidates, err := h.CandidateService.ListCandidates(c.Request.Context(), c.Param("id"), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// ExportCandidates is GET /jobs/:id/candidates/export
func (h *JobHandler) ExportCandidates(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	job, err := h.JobService.GetJob(ctx, c.Param("id"), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	candidates, err := h.CandidateService.ListCandidates(ctx, job.ID, ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	// rendered in memory so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := export.WriteCandidates(&buf, job, candidates); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(job)+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
