package model

import "time"

// CopyStatus is the outcome of one copy attempt.
type CopyStatus int

const (
	// Copied indicates the asset was written to its destination.
	Copied CopyStatus = iota
	// AlreadyCopied indicates the destination was handled earlier in the same run.
	AlreadyCopied
	// Skipped indicates the destination already existed on disk.
	Skipped
	// Failed indicates the copy failed and the run was allowed to continue.
	Failed
	// Planned indicates a dry run would have copied the asset.
	Planned
)

func (s CopyStatus) String() string {
	switch s {
	case Copied:
		return "copied"
	case AlreadyCopied:
		return "already copied"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	case Planned:
		return "planned"
	default:
		return "unknown"
	}
}

// ParseCopyStatus is the inverse of CopyStatus.String.
func ParseCopyStatus(value string) (CopyStatus, bool) {
	for _, status := range []CopyStatus{Copied, AlreadyCopied, Skipped, Failed, Planned} {
		if status.String() == value {
			return status, true
		}
	}

	return 0, false
}

// AssetKind is a coarse category of a dependency, used for reporting.
type AssetKind string

const (
	// KindTexture is an image file.
	KindTexture AssetKind = "texture"
	// KindMesh is a geometry file.
	KindMesh AssetKind = "mesh"
	// KindOther is anything else.
	KindOther AssetKind = "other"
)

// CopyOutcome records what happened to one dependency.
type CopyOutcome struct {
	Source      Path
	Destination Path
	Status      CopyStatus
	Kind        AssetKind
	Size        int64
	Err         error
}

// ProjectReport holds the results for a single project file.
type ProjectReport struct {
	Project      ProjectFile
	Extracted    bool
	Dependencies int
	Outcomes     []CopyOutcome
}

// Count returns the number of outcomes with the given status.
func (r ProjectReport) Count(status CopyStatus) int {
	n := 0

	for _, outcome := range r.Outcomes {
		if outcome.Status == status {
			n++
		}
	}

	return n
}

// RunSummary aggregates every project processed in one invocation.
type RunSummary struct {
	Source      Path
	Destination Path
	StartedAt   time.Time
	FinishedAt  time.Time
	Projects    []ProjectReport
}

// Total returns the number of outcomes with the given status across all projects.
func (s RunSummary) Total(status CopyStatus) int {
	n := 0
	for _, project := range s.Projects {
		n += project.Count(status)
	}

	return n
}

// Outcomes flattens the outcomes of every project.
func (s RunSummary) Outcomes() []CopyOutcome {
	var outcomes []CopyOutcome
	for _, project := range s.Projects {
		outcomes = append(outcomes, project.Outcomes...)
	}

	return outcomes
}
