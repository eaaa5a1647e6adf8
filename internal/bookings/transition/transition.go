package transition

import (
	"fmt"
	"strings"

	"fixhub/pkg/model"
)

// statusTransitions encodes the booking lifecycle.
// Flow: pending → accepted → in_progress → completed, with cancellation
// allowed from any non-terminal state.
var statusTransitions = map[string][]string{
	model.StatusPending:    {model.StatusAccepted, model.StatusCancelled},
	model.StatusAccepted:   {model.StatusInProgress, model.StatusCancelled},
	model.StatusInProgress: {model.StatusCompleted, model.StatusCancelled},
	model.StatusCompleted:  {},
	model.StatusCancelled:  {},
}

// ValidNextStatuses returns the outgoing edges for a status. Unknown
// statuses have no edges.
func ValidNextStatuses(current string) []string {
	next, ok := statusTransitions[current]
	if !ok {
		return []string{}
	}
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// StatusOptions returns the current status followed by its valid next
// statuses, for populating a status selection control.
func StatusOptions(current string) []string {
	return append([]string{current}, ValidNextStatuses(current)...)
}

// IsValid reports whether from→to is an allowed transition. A
// self-transition is always allowed as an idempotent no-op.
func IsValid(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsLocked reports whether a status is terminal.
func IsLocked(status string) bool {
	return status == model.StatusCompleted || status == model.StatusCancelled
}

// DescribeRejection explains why from→to is not allowed.
func DescribeRejection(from, to string) string {
	if IsLocked(from) {
		return fmt.Sprintf("Cannot change status - booking is %s", from)
	}

	valid := ValidNextStatuses(from)
	if len(valid) == 0 {
		return fmt.Sprintf("No status changes allowed from %s", from)
	}

	return fmt.Sprintf("Invalid transition: %s → %s. Allowed: %s", from, to, strings.Join(valid, ", "))
}

// Decide runs the full check and packages the outcome for callers that
// want the decision without acting on it.
func Decide(from, to string) model.TransitionDecision {
	decision := model.TransitionDecision{
		Allowed: IsValid(from, to),
		Next:    ValidNextStatuses(from),
	}
	if !decision.Allowed {
		decision.Reason = DescribeRejection(from, to)
	}
	return decision
}
