// Package normalize repairs raw model output into validated structured records.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/justsurfingit/TalentScout-AI/internal/apperr"
	"github.com/justsurfingit/TalentScout-AI/internal/models"
)

var fence = regexp.MustCompile("```(?i:json)?")

// Clean strips code fences and slices the text to the span between the first
// '{' and the last '}'. Braces inside string values survive because only the
// outermost positions are used.
func Clean(text string) string {
	clean := strings.TrimSpace(fence.ReplaceAllString(text, ""))

	first := strings.Index(clean, "{")
	last := strings.LastIndex(clean, "}")
	if first != -1 && last > first {
		clean = clean[first : last+1]
	}
	return clean
}

// Object normalizes text and parses it as a JSON object.
func Object(text string) (map[string]json.RawMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.New(apperr.KindEmptyAIResponse, "model returned no text")
	}

	var obj map[string]json.RawMessage
	dec := json.NewDecoder(strings.NewReader(Clean(text)))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return nil, apperr.Malformed(text, err)
	}
	// the whole span must be one object
	if _, err := dec.Token(); err != io.EOF {
		return nil, apperr.Malformed(text, fmt.Errorf("unexpected data after the JSON object"))
	}
	if obj == nil {
		return nil, apperr.Malformed(text, fmt.Errorf("result is not an object"))
	}
	return obj, nil
}

// Analysis is the grading result returned by the model.
type Analysis struct {
	// Name and Email are empty when the model left them out.
	Name      string
	Email     string
	AIScore   int
	Tier      models.Tier
	Summary   string
	KeySkills models.SkillScores
	Badges    []string
}

// ParseAnalysis validates a grading result. aiScore, tier and summary are
// required; keySkills and badges may be absent but must be well typed.
func ParseAnalysis(text string) (*Analysis, error) {
	obj, err := Object(text)
	if err != nil {
		return nil, err
	}
	fail := func(format string, args ...any) error {
		return apperr.Malformed(text, fmt.Errorf(format, args...))
	}

	a := &Analysis{KeySkills: models.SkillScores{}, Badges: []string{}}

	if a.Name, err = optionalString(obj, "name"); err != nil {
		return nil, fail("%w", err)
	}
	if a.Email, err = optionalString(obj, "email"); err != nil {
		return nil, fail("%w", err)
	}

	rawScore, ok := present(obj, "aiScore")
	if !ok {
		return nil, fail("missing aiScore")
	}
	var num json.Number
	if err := json.Unmarshal(rawScore, &num); err != nil {
		return nil, fail("aiScore must be a number")
	}
	if a.AIScore, err = models.ParseScore(num); err != nil {
		return nil, fail("aiScore: %w", err)
	}

	tier, err := requiredString(obj, "tier")
	if err != nil {
		return nil, fail("%w", err)
	}
	if a.Tier, err = models.ParseTier(tier); err != nil {
		return nil, fail("%w", err)
	}

	if a.Summary, err = requiredString(obj, "summary"); err != nil {
		return nil, fail("%w", err)
	}

	if raw, ok := present(obj, "keySkills"); ok {
		if err := json.Unmarshal(raw, &a.KeySkills); err != nil {
			return nil, fail("keySkills: %w", err)
		}
		if a.KeySkills == nil {
			a.KeySkills = models.SkillScores{}
		}
	}

	if raw, ok := present(obj, "badges"); ok {
		var badges []string
		if err := json.Unmarshal(raw, &badges); err != nil {
			return nil, fail("badges must be a list of strings")
		}
		for _, b := range badges {
			if b = strings.TrimSpace(b); b != "" {
				a.Badges = append(a.Badges, b)
			}
		}
	}

	return a, nil
}

// EmailDraft is an invitation email suggested by the model.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ParseEmailDraft validates an invitation draft; subject and body are both required.
func ParseEmailDraft(text string) (*EmailDraft, error) {
	obj, err := Object(text)
	if err != nil {
		return nil, err
	}

	d := &EmailDraft{}
	if d.Subject, err = requiredString(obj, "subject"); err != nil {
		return nil, apperr.Malformed(text, err)
	}
	if d.Body, err = requiredString(obj, "body"); err != nil {
		return nil, apperr.Malformed(text, err)
	}
	return d, nil
}

// present reports whether key exists with a non-null value.
func present(obj map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := obj[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}

func optionalString(obj map[string]json.RawMessage, key string) (string, error) {
	raw, ok := present(obj, key)
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return strings.TrimSpace(s), nil
}

func requiredString(obj map[string]json.RawMessage, key string) (string, error) {
	if _, ok := present(obj, key); !ok {
		return "", fmt.Errorf("missing %s", key)
	}
	s, err := optionalString(obj, key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("%s is empty", key)
	}
	return s, nil
}
