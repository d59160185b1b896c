package uploader

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/justsurfingit/TalentScout-AI/internal/models"
)

const analyzePath = "/api/resumes/analyze"

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Kind       string `json:"kind"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Kind, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

type analyzeResponse struct {
	Message   string            `json:"message"`
	Candidate *models.Candidate `json:"candidate"`
}

// APIClient talks to the resume analysis endpoint.
type APIClient struct {
	rest *resty.Client
}

// NewAPIClient builds a client for baseURL. Requests have no timeout of
// their own; the analysis call lasts as long as the model does.
func NewAPIClient(baseURL, token string) *APIClient {
	rest := resty.New().
		SetBaseURL(baseURL)
	if token != "" {
		rest.SetAuthToken(token)
	}
	return &APIClient{rest: rest}
}

// Analyze uploads one resume for jobID.
func (c *APIClient) Analyze(ctx context.Context, jobID string, file File) (*models.Candidate, error) {
	var (
		result  analyzeResponse
		failure APIError
	)
	resp, err := c.rest.R().
		SetContext(ctx).
		SetFileReader("resume", file.Name, bytes.NewReader(file.Data)).
		SetFormData(map[string]string{"jobId": jobID}).
		SetResult(&result).
		SetError(&failure).
		Post(analyzePath)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", file.Name, err)
	}
	if resp.IsError() {
		failure.StatusCode = resp.StatusCode()
		if failure.Message == "" {
			failure.Message = resp.Status()
		}
		return nil, &failure
	}
	if result.Candidate == nil {
		return nil, fmt.Errorf("upload %s: response has no candidate", file.Name)
	}
	return result.Candidate, nil
}

// ForJob returns a Submitter that uploads every file to jobID.
func (c *APIClient) ForJob(jobID string) Submitter {
	return func(ctx context.Context, file File) (*models.Candidate, error) {
		return c.Analyze(ctx, jobID, file)
	}
}
