package events

// KindStartupProgress identifies backend initialization progress. The
// channel is process-wide and carries no conversation correlation.
const KindStartupProgress Kind = "startup-progress"

// StartupStatus is the reported state of one initialization step.
type StartupStatus string

const (
	StartupStatusProgress StartupStatus = "progress"
	StartupStatusSuccess  StartupStatus = "success"
	StartupStatusError    StartupStatus = "error"
)

// StartupProgress reports backend initialization progress. A status of
// StartupStatusSuccess at Step >= TotalSteps, or StartupStatusError at any
// step, is terminal.
type StartupProgress struct {
	Base
	Step       int
	TotalSteps int
	Message    string
	Status     StartupStatus
	Details    string
	Err        string
}

// NewStartupProgress creates a startup progress event.
func NewStartupProgress(step, totalSteps int, message string, status StartupStatus) StartupProgress {
	return StartupProgress{
		Base:       NewBase(KindStartupProgress),
		Step:       step,
		TotalSteps: totalSteps,
		Message:    message,
		Status:     status,
	}
}

// Terminal reports whether this event ends the startup watch.
func (e StartupProgress) Terminal() bool {
	return e.Status == StartupStatusError ||
		(e.Status == StartupStatusSuccess && e.Step >= e.TotalSteps)
}
