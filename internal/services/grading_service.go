package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/justsurfingit/TalentScout-AI/internal/apperr"
	"github.com/justsurfingit/TalentScout-AI/internal/extract"
	"github.com/justsurfingit/TalentScout-AI/internal/llm"
	"github.com/justsurfingit/TalentScout-AI/internal/models"
	"github.com/justsurfingit/TalentScout-AI/internal/normalize"
	"github.com/justsurfingit/TalentScout-AI/internal/prompts"
	"github.com/justsurfingit/TalentScout-AI/internal/storage"
)

const (
	DefaultCandidateName  = "Unknown"
	DefaultCandidateEmail = "no-email@found.com"
)

// Completer sends one prompt to the completion service and returns its raw
// text. Validators decide whether the text may be reused for the same prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string, validate ...llm.Validator) (string, error)
}

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	Extract(data []byte) (string, error)
}

// GradingService runs a resume through extraction, the model and the
// normalizer, then stores the result as a Candidate of the job.
type GradingService struct {
	Jobs       *JobService
	Candidates *CandidateService
	Extractor  TextExtractor
	LLM        Completer
	Archive    storage.ResumeArchive // optional
}

func NewGradingService(jobs *JobService, candidates *CandidateService, extractor TextExtractor, llm Completer, archive storage.ResumeArchive) *GradingService {
	return &GradingService{
		Jobs:       jobs,
		Candidates: candidates,
		Extractor:  extractor,
		LLM:        llm,
		Archive:    archive,
	}
}

// Analyze grades resume against the job. There are no retries; the caller
// may resubmit the same file.
func (s *GradingService) Analyze(ctx context.Context, jobID, ownerID string, resume []byte) (*models.Candidate, error) {
	logPrefix := "[Analyze: " + jobID + "]"

	c, err := s.analyze(ctx, jobID, ownerID, resume)
	if err != nil {
		log.Printf("%s ❌ %s: %v", logPrefix, apperr.KindOf(err), err)
		return nil, err
	}
	log.Printf("%s ✅ %s graded %d (%s)", logPrefix, c.Name, c.AIScore, c.Tier)
	return c, nil
}

func (s *GradingService) analyze(ctx context.Context, jobID, ownerID string, resume []byte) (*models.Candidate, error) {
	if len(resume) == 0 {
		return nil, apperr.InvalidInput("no resume file uploaded")
	}
	if strings.TrimSpace(jobID) == "" {
		return nil, apperr.InvalidInput("job ID is required")
	}

	job, err := s.Jobs.GetJob(ctx, jobID, ownerID)
	if err != nil {
		return nil, err
	}

	text, err := s.Extractor.Extract(resume)
	if err != nil {
		if apperr.KindOf(err) == "" {
			err = apperr.Wrap(apperr.KindExtractionFailed, err, "could not read document")
		}
		return nil, err
	}

	prompt := prompts.Grading(job.Title, job.Description, text)
	var analysis *normalize.Analysis
	raw, err := s.LLM.Complete(ctx, prompt, func(text string) error {
		a, err := normalize.ParseAnalysis(text)
		analysis = a
		return err
	})
	if err != nil {
		return nil, modelError(jobID, raw, err)
	}
	if strings.TrimSpace(raw) == "" || analysis == nil {
		return nil, apperr.New(apperr.KindEmptyAIResponse, "AI returned an empty response")
	}

	c := newCandidate(job, analysis, text)
	s.archive(ctx, c, resume)

	if err := s.Candidates.CreateCandidate(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// modelError keeps normalizer errors as they are and treats anything else
// from the completion call as a transport failure.
func modelError(id, raw string, err error) error {
	if apperr.KindOf(err) != "" {
		log.Printf("[Model: %s] raw model output: %q", id, raw)
		return err
	}
	return apperr.Wrap(apperr.KindAIServiceUnavailable, err, "AI service unavailable")
}

// newCandidate fills the record. Name and email are the only fields that
// fall back to placeholders.
func newCandidate(job *models.Job, a *normalize.Analysis, resumeText string) *models.Candidate {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		name = DefaultCandidateName
	}
	email := strings.TrimSpace(a.Email)
	if email == "" {
		email = DefaultCandidateEmail
	}

	return &models.Candidate{
		ID:                 uuid.NewString(),
		JobID:              job.ID,
		Name:               name,
		Email:              email,
		AIScore:            a.AIScore,
		Tier:               a.Tier,
		Summary:            a.Summary,
		KeySkills:          datatypes.NewJSONType(a.KeySkills),
		Badges:             datatypes.JSONSlice[string](a.Badges),
		Status:             models.CandidateNew,
		OriginalResumeText: resumeText,
	}
}

// archive stores the original upload. Failure only costs the download link.
func (s *GradingService) archive(ctx context.Context, c *models.Candidate, resume []byte) {
	if s.Archive == nil {
		return
	}
	mime := extract.Detect(resume)
	key := storage.ResumeKey(c.JobID, c.ID, mime.Extension())
	if err := s.Archive.Upload(ctx, key, resume, mime.String()); err != nil {
		log.Printf("[Analyze: %s] ⚠️ could not archive resume: %v", c.JobID, err)
		return
	}
	c.ResumeKey = key
}
