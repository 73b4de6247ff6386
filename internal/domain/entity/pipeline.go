package entity

// PipelineStage is a state of a single relay run.
type PipelineStage string

const (
	StageReceived   PipelineStage = "received"
	StageValidated  PipelineStage = "validated"
	StageEnriched   PipelineStage = "enriched"
	StageRendered   PipelineStage = "rendered"
	StageDispatched PipelineStage = "dispatched"
	StageSucceeded  PipelineStage = "succeeded"
	StageFailed     PipelineStage = "failed"
)

// String returns the stage name.
func (s PipelineStage) String() string {
	return string(s)
}

// IsTerminal returns true for succeeded and failed.
func (s PipelineStage) IsTerminal() bool {
	return s == StageSucceeded || s == StageFailed
}

// next lists the only stage each non-terminal stage may advance to on success.
var next = map[PipelineStage]PipelineStage{
	StageReceived:   StageValidated,
	StageValidated:  StageEnriched,
	StageEnriched:   StageRendered,
	StageRendered:   StageDispatched,
	StageDispatched: StageSucceeded,
}

// CanAdvanceTo reports whether moving from s to target is a legal transition.
// Any non-terminal stage may move to StageFailed.
func (s PipelineStage) CanAdvanceTo(target PipelineStage) bool {
	if s.IsTerminal() {
		return false
	}
	if target == StageFailed {
		return true
	}
	return next[s] == target
}
