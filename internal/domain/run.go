package domain

import (
	"fmt"
	"strings"
	"time"
)

type RunID int64

// RunStatus is the lifecycle state of a workflow run as reported by the API.
type RunStatus string

const (
	StatusQueued     RunStatus = "queued"
	StatusInProgress RunStatus = "in_progress"
	StatusCompleted  RunStatus = "completed"
	StatusWaiting    RunStatus = "waiting"
	StatusRequested  RunStatus = "requested"
	StatusPending    RunStatus = "pending"
)

// ParseRunStatus resolves the wire value into the closed enumeration.
// Matching is case-insensitive.
func ParseRunStatus(raw string) (RunStatus, error) {
	status := RunStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case StatusQueued, StatusInProgress, StatusCompleted, StatusWaiting, StatusRequested, StatusPending:
		return status, nil
	}
	return "", fmt.Errorf("unknown run status %q", raw)
}

func (s RunStatus) DisplayName() string {
	switch s {
	case StatusQueued:
		return "Queued"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusWaiting:
		return "Waiting"
	case StatusRequested:
		return "Requested"
	case StatusPending:
		return "Pending"
	}
	return string(s)
}

// RunConclusion is the outcome of a completed run. Empty unless the run's
// status is StatusCompleted.
type RunConclusion string

const (
	ConclusionSuccess        RunConclusion = "success"
	ConclusionFailure        RunConclusion = "failure"
	ConclusionCancelled      RunConclusion = "cancelled"
	ConclusionSkipped        RunConclusion = "skipped"
	ConclusionNeutral        RunConclusion = "neutral"
	ConclusionTimedOut       RunConclusion = "timed_out"
	ConclusionActionRequired RunConclusion = "action_required"
)

// ParseRunConclusion resolves the wire value into the closed enumeration.
// The empty string is valid and means the run has not concluded.
func ParseRunConclusion(raw string) (RunConclusion, error) {
	conclusion := RunConclusion(strings.ToLower(strings.TrimSpace(raw)))
	switch conclusion {
	case "", ConclusionSuccess, ConclusionFailure, ConclusionCancelled, ConclusionSkipped,
		ConclusionNeutral, ConclusionTimedOut, ConclusionActionRequired:
		return conclusion, nil
	}
	return "", fmt.Errorf("unknown run conclusion %q", raw)
}

func (c RunConclusion) DisplayName() string {
	switch c {
	case ConclusionTimedOut:
		return "Timed Out"
	case ConclusionActionRequired:
		return "Action Required"
	case "":
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ColorTag names a terminal color class for a run outcome. The render
// adapter maps tags to concrete styles.
type ColorTag string

const (
	ColorGreen  ColorTag = "green"
	ColorRed    ColorTag = "red"
	ColorGray   ColorTag = "gray"
	ColorBlue   ColorTag = "blue"
	ColorOrange ColorTag = "orange"
	ColorYellow ColorTag = "yellow"
)

func (c RunConclusion) Color() ColorTag {
	switch c {
	case ConclusionSuccess:
		return ColorGreen
	case ConclusionFailure:
		return ColorRed
	case ConclusionCancelled, ConclusionSkipped:
		return ColorGray
	case ConclusionNeutral:
		return ColorBlue
	case ConclusionTimedOut:
		return ColorOrange
	case ConclusionActionRequired:
		return ColorYellow
	}
	return ColorGray
}

func (c RunConclusion) Icon() string {
	switch c {
	case ConclusionSuccess:
		return "✓"
	case ConclusionFailure:
		return "✗"
	case ConclusionCancelled:
		return "⊘"
	case ConclusionSkipped:
		return "»"
	case ConclusionNeutral:
		return "−"
	case ConclusionTimedOut:
		return "⏱"
	case ConclusionActionRequired:
		return "!"
	}
	return "·"
}

type RunRepository struct {
	Name     string
	FullName string
}

// Run is one execution record of a repository's workflow pipeline.
// Identity is the numeric ID.
type Run struct {
	ID         RunID
	Name       string
	HeadSHA    string
	Status     RunStatus
	Conclusion RunConclusion
	CreatedAt  time.Time
	HTMLURL    string
	Repository RunRepository
}

func (r Run) ShortSHA() string {
	if len(r.HeadSHA) <= 7 {
		return r.HeadSHA
	}
	return r.HeadSHA[:7]
}

// DisplayStatus prefers the conclusion once a run has completed.
func (r Run) DisplayStatus() string {
	if r.Status == StatusCompleted && r.Conclusion != "" {
		return r.Conclusion.DisplayName()
	}
	return r.Status.DisplayName()
}

func (r Run) StatusColor() ColorTag {
	if r.Status == StatusCompleted && r.Conclusion != "" {
		return r.Conclusion.Color()
	}
	switch r.Status {
	case StatusInProgress, StatusQueued, StatusWaiting, StatusRequested, StatusPending:
		return ColorYellow
	}
	return ColorGray
}

func (r Run) StatusIcon() string {
	if r.Status == StatusCompleted && r.Conclusion != "" {
		return r.Conclusion.Icon()
	}
	switch r.Status {
	case StatusInProgress:
		return "↻"
	case StatusQueued, StatusWaiting, StatusRequested, StatusPending:
		return "⏱"
	}
	return "·"
}
