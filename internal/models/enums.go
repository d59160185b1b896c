package models

import (
	"fmt"
	"strings"
)

type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierF Tier = "F"
)

// Tiers lists the closed tier set in display order.
var Tiers = []Tier{TierS, TierA, TierB, TierF}

// ParseTier accepts any casing and surrounding space; anything outside S/A/B/F is rejected.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TierS, TierA, TierB, TierF:
		return t, nil
	}
	return "", fmt.Errorf("invalid tier %q", s)
}

type CandidateStatus string

const (
	CandidateNew      CandidateStatus = "New"
	CandidateSelected CandidateStatus = "Selected"
	CandidateInvited  CandidateStatus = "Invited"
	CandidateRejected CandidateStatus = "Rejected"
)

func ParseCandidateStatus(s string) (CandidateStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new":
		return CandidateNew, nil
	case "selected":
		return CandidateSelected, nil
	case "invited":
		return CandidateInvited, nil
	case "rejected":
		return CandidateRejected, nil
	}
	return "", fmt.Errorf("invalid candidate status %q", s)
}

type JobStatus string

const (
	JobActive   JobStatus = "Active"
	JobArchived JobStatus = "archived"
)

// ParseJobStatus folds the legacy lowercase "active" default into "Active".
func ParseJobStatus(s string) (JobStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return JobActive, nil
	case "archived":
		return JobArchived, nil
	}
	return "", fmt.Errorf("invalid job status %q", s)
}
