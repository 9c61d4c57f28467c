package setup

// Status classifies how a single setup step went.
type Status int

const (
	StatusCreated Status = iota
	StatusFailed
	StatusWarned
	StatusInfo
)

// StepKind names what kind of resource a step touched.
type StepKind string

const (
	StepSettings StepKind = "settings"
	StepRole     StepKind = "role"
	StepCategory StepKind = "category"
	StepChannel  StepKind = "channel"
	StepMessage  StepKind = "message"
	StepSummary  StepKind = "summary"
)

// StepResult records the outcome of one setup step. Target is the resource
// name the step acted on; Reason carries the failure or warning cause.
type StepResult struct {
	Kind   StepKind
	Target string
	Status Status
	Detail string
	Reason string
}

// Line renders the step as a single report line with a status glyph. Info
// steps render their detail as-is.
func (s StepResult) Line() string {
	switch s.Status {
	case StatusCreated:
		return "✅ " + s.Detail
	case StatusFailed:
		if s.Reason == "" {
			return "❌ " + s.Detail
		}
		return "❌ " + s.Detail + ": " + s.Reason
	case StatusWarned:
		return "⚠️ " + s.Detail + ": " + s.Reason
	default:
		return s.Detail
	}
}

// Report accumulates step results over a setup run.
type Report struct {
	Steps []StepResult
}

func (r *Report) Add(step StepResult) {
	r.Steps = append(r.Steps, step)
}

// Counts tallies created, failed, and warned steps. Info steps are not
// counted.
func (r *Report) Counts() (succeeded, failed, warned int) {
	for _, s := range r.Steps {
		switch s.Status {
		case StatusCreated:
			succeeded++
		case StatusFailed:
			failed++
		case StatusWarned:
			warned++
		}
	}
	return succeeded, failed, warned
}

// CreatedCount counts successfully created steps of one kind.
func (r *Report) CreatedCount(kind StepKind) int {
	n := 0
	for _, s := range r.Steps {
		if s.Kind == kind && s.Status == StatusCreated {
			n++
		}
	}
	return n
}

// Lines renders every step in order.
func (r *Report) Lines() []string {
	lines := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		lines = append(lines, s.Line())
	}
	return lines
}
