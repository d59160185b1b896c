package services

import (
	"context"
	"log"
	"strings"

	"github.com/justsurfingit/TalentScout-AI/internal/apperr"
	"github.com/justsurfingit/TalentScout-AI/internal/normalize"
	"github.com/justsurfingit/TalentScout-AI/internal/prompts"
)

// EmailService drafts interview invitations. It never persists anything;
// committing a draft is CandidateService.UpdateStatus.
type EmailService struct {
	Jobs       *JobService
	Candidates *CandidateService
	LLM        Completer
}

func NewEmailService(jobs *JobService, candidates *CandidateService, llm Completer) *EmailService {
	return &EmailService{
		Jobs:       jobs,
		Candidates: candidates,
		LLM:        llm,
	}
}

func (s *EmailService) DraftInvite(ctx context.Context, candidateID, jobID, ownerID string) (*normalize.EmailDraft, error) {
	logPrefix := "[Email: " + candidateID + "]"

	draft, err := s.draftInvite(ctx, candidateID, jobID, ownerID)
	if err != nil {
		log.Printf("%s ❌ %s: %v", logPrefix, apperr.KindOf(err), err)
		return nil, err
	}
	log.Printf("%s ✉️ draft ready: %q", logPrefix, draft.Subject)
	return draft, nil
}

func (s *EmailService) draftInvite(ctx context.Context, candidateID, jobID, ownerID string) (*normalize.EmailDraft, error) {
	if strings.TrimSpace(candidateID) == "" || strings.TrimSpace(jobID) == "" {
		return nil, apperr.InvalidInput("candidateId and jobId are required")
	}

	job, err := s.Jobs.GetJob(ctx, jobID, ownerID)
	if err != nil {
		return nil, err
	}
	c, err := s.Candidates.candidateOfJob(ctx, candidateID, job)
	if err != nil {
		return nil, err
	}

	var draft *normalize.EmailDraft
	raw, err := s.LLM.Complete(ctx, prompts.Invite(c.Name, job.Title, c.Summary), func(text string) error {
		d, err := normalize.ParseEmailDraft(text)
		draft = d
		return err
	})
	if err != nil {
		return nil, modelError(candidateID, raw, err)
	}
	if strings.TrimSpace(raw) == "" || draft == nil {
		return nil, apperr.New(apperr.KindEmptyAIResponse, "AI returned an empty response")
	}
	return draft, nil
}
