package domain

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"    // Awaiting processing
	StatusProcessing Status = "processing" // Handed to the external processor
	StatusCompleted  Status = "completed"  // Suggestion produced; removed on successful apply
	StatusFailed     Status = "failed"     // Processing or apply failed; retained for retry
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusCompleted, StatusFailed}
}

// transitions defines the allowed status transitions.
// Flow: pending, processing, completed, with failed as the retry loop.
// A successful apply deletes the row instead of persisting a terminal
// state; an apply that fails sends the completed task back to failed.
// Failed allows the self-transition so a retry that fails again can
// refresh the stored error message.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {StatusFailed},
	StatusFailed:     {StatusPending, StatusProcessing, StatusFailed},
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusProcessing:
		return "Processing"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	default:
		return string(s)
	}
}
