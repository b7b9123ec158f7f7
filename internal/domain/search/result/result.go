package result

import (
	"fmt"

	"github.com/cabswale/raahi/internal/domain/geo"
	"github.com/cabswale/raahi/internal/domain/record"
)

// Stage names the sub-steps of a dual-stage search.
type Stage string

// Search stages.
const (
	StageText    Stage = "text"
	StageGeocode Stage = "geocode"
	StageGeo     Stage = "geo"
)

// Status is the outcome of a single stage.
type Status string

// Stage statuses.
const (
	// StatusOK means the stage ran and produced records (possibly none).
	StatusOK Status = "ok"
	// StatusDegraded means the stage failed and contributes nothing.
	StatusDegraded Status = "degraded"
	// StatusSkipped means the stage's preconditions were not met.
	StatusSkipped Status = "skipped"
)

// StageResult is the explicit outcome of one stage.
type StageResult struct {
	stage   Stage
	status  Status
	records []record.Record
	reason  error
}

// OK wraps records produced by a stage.
func OK(stage Stage, records []record.Record) StageResult {
	return StageResult{stage: stage, status: StatusOK, records: records}
}

// Degraded records a stage failure; the stage contributes no records.
func Degraded(stage Stage, reason error) StageResult {
	if reason == nil {
		reason = fmt.Errorf("%s stage degraded", stage)
	}
	return StageResult{stage: stage, status: StatusDegraded, reason: reason}
}

// Skipped records a stage that did not run.
func Skipped(stage Stage) StageResult {
	return StageResult{stage: stage, status: StatusSkipped}
}

// Stage returns the stage name.
func (r StageResult) Stage() Stage { return r.stage }

// Status returns the stage status.
func (r StageResult) Status() Status { return r.status }

// Records returns the stage's records; nil unless StatusOK.
func (r StageResult) Records() []record.Record { return r.records }

// Reason returns the degradation cause; nil unless StatusDegraded.
func (r StageResult) Reason() error { return r.reason }

// IsDegraded reports whether the stage failed.
func (r StageResult) IsDegraded() bool { return r.status == StatusDegraded }

// Outcome is the merged record set of one collection search plus what each stage did.
type Outcome struct {
	Records []record.Record
	Text    StageResult
	Geocode StageResult
	Geo     StageResult
	// Pickup is the geocode stage resolution; Absent when geocoding did not run.
	Pickup geo.Resolution
}

// UsedGeo reports whether the geo stage ran and succeeded.
func (o Outcome) UsedGeo() bool { return o.Geo.Status() == StatusOK }
