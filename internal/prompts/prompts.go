// Package prompts builds the instruction strings sent to the completion service.
package prompts

import "fmt"

const (
	MaxDescriptionRunes = 2000
	MaxResumeRunes      = 6000
)

const gradingPrompt = `
You are an expert ATS. Analyze the following Resume against the provided Job Description.

CRITICAL INSTRUCTION:
Output ONLY a single raw JSON object. Do not output markdown, code fences, explanations, or "Here is the JSON".

JOB TITLE: %s
JOB DESCRIPTION: "%s"

RESUME TEXT: "%s"

ANALYSIS RULES:
1. Tiers: Use ONLY "S", "A", "B", or "F".
2. Skills: Identify the top 4 most important skills FROM THE JOB DESCRIPTION.
   Score the candidate on those specific skills (0-100).
3. aiScore is an integer from 0 to 100 for overall fit.
4. If the name or email cannot be found in the resume, omit that field. Do not guess.

REQUIRED JSON STRUCTURE:
{
  "name": "Candidate Name",
  "email": "candidate@email.com",
  "aiScore": 85,
  "tier": "S",
  "summary": "1-2 sentence summary of fit.",
  "keySkills": { "Skill One": 90, "Skill Two": 80, "Skill Three": 50, "Skill Four": 70 },
  "badges": ["badge1", "badge2"]
}
`

const invitePrompt = `
You are an expert technical recruiter. Write a short, exciting interview invitation email.
Output strictly one raw JSON object with no surrounding text.

CANDIDATE: %s
ROLE: %s
KEY STRENGTH: %s

JSON Structure:
{
  "subject": "Email Subject Line",
  "body": "Email Body Text (Plain text, no HTML)"
}
`

// Grading builds the resume analysis prompt. Description and resume text are
// cut to a fixed prefix to bound request size.
func Grading(jobTitle, jobDescription, resumeText string) string {
	return fmt.Sprintf(gradingPrompt,
		jobTitle,
		Truncate(jobDescription, MaxDescriptionRunes),
		Truncate(resumeText, MaxResumeRunes),
	)
}

// Invite builds the interview invitation prompt.
func Invite(candidateName, jobTitle, candidateSummary string) string {
	return fmt.Sprintf(invitePrompt, candidateName, jobTitle, candidateSummary)
}

// Truncate returns the first max runes of s.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
