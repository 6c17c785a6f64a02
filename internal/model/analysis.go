package model

import (
	"errors"
	"time"
)

// ErrNoRepositories is returned when an analysis request names no repository.
var ErrNoRepositories = errors.New("analysis request needs at least one repository")

type Mode int

const (
	ModeSingleRepo Mode = iota
	ModeMultiRepo
)

func (m Mode) String() string {
	switch m {
	case ModeSingleRepo:
		return "single"
	case ModeMultiRepo:
		return "multi"
	default:
		return "unknown"
	}
}

// AnalysisRequest describes one invocation of the external report script.
// Dates are passed through uninterpreted.
type AnalysisRequest struct {
	RepoPaths []string
	StartDate string
	EndDate   string
}

// NewAnalysisRequest builds a request, rejecting an empty repository list.
func NewAnalysisRequest(repoPaths []string, startDate, endDate string) (AnalysisRequest, error) {
	if len(repoPaths) == 0 {
		return AnalysisRequest{}, ErrNoRepositories
	}
	paths := make([]string, len(repoPaths))
	copy(paths, repoPaths)
	return AnalysisRequest{
		RepoPaths: paths,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

// Mode is derived from the number of repositories.
func (r AnalysisRequest) Mode() Mode {
	if len(r.RepoPaths) > 1 {
		return ModeMultiRepo
	}
	return ModeSingleRepo
}

// WorkDir is the first repository, used as the script's working directory.
func (r AnalysisRequest) WorkDir() string {
	if len(r.RepoPaths) == 0 {
		return ""
	}
	return r.RepoPaths[0]
}

type ExitStatus int

const (
	StatusSuccess ExitStatus = iota
	StatusFailure
)

func (s ExitStatus) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "failure"
}

// Outcome distinguishes what the caller should present.
type Outcome int

const (
	OutcomeArtifact   Outcome = iota // ran and produced a recognizable artifact
	OutcomeNoArtifact                // ran fine, nothing to show
	OutcomeFailure                   // did not run, or exited non-zero
)

func (o Outcome) String() string {
	switch o {
	case OutcomeArtifact:
		return "artifact"
	case OutcomeNoArtifact:
		return "no-artifact"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

type AnalysisResult struct {
	Status       ExitStatus
	Message      string // Failure message (empty on success)
	ArtifactPath string // Absolute artifact path, empty when absent

	Stdout   string
	Stderr   string
	Duration time.Duration
}

func (r AnalysisResult) Outcome() Outcome {
	switch {
	case r.Status == StatusFailure:
		return OutcomeFailure
	case r.ArtifactPath == "":
		return OutcomeNoArtifact
	default:
		return OutcomeArtifact
	}
}

func (r AnalysisResult) HasArtifact() bool {
	return r.Status == StatusSuccess && r.ArtifactPath != ""
}

// Failure builds a failed result carrying message.
func Failure(message string) AnalysisResult {
	return AnalysisResult{Status: StatusFailure, Message: message}
}
