package transition

import (
	"strings"
	"testing"

	"fixhub/pkg/model"
)

func TestValidNextStatuses(t *testing.T) {
	tests := []struct {
		name    string
		current string
		want    []string
	}{
		{
			name:    "pending can be accepted or cancelled",
			current: model.StatusPending,
			want:    []string{model.StatusAccepted, model.StatusCancelled},
		},
		{
			name:    "accepted can start or be cancelled",
			current: model.StatusAccepted,
			want:    []string{model.StatusInProgress, model.StatusCancelled},
		},
		{
			name:    "in_progress can complete or be cancelled",
			current: model.StatusInProgress,
			want:    []string{model.StatusCompleted, model.StatusCancelled},
		},
		{
			name:    "completed is terminal",
			current: model.StatusCompleted,
			want:    []string{},
		},
		{
			name:    "cancelled is terminal",
			current: model.StatusCancelled,
			want:    []string{},
		},
		{
			name:    "unknown status has no edges",
			current: "archived",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidNextStatuses(tt.current)
			if len(got) != len(tt.want) {
				t.Fatalf("ValidNextStatuses(%q) = %v, want %v", tt.current, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ValidNextStatuses(%q)[%d] = %q, want %q", tt.current, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidNextStatusesReturnsCopy(t *testing.T) {
	first := ValidNextStatuses(model.StatusPending)
	first[0] = "mutated"

	second := ValidNextStatuses(model.StatusPending)
	if second[0] != model.StatusAccepted {
		t.Errorf("ValidNextStatuses shares internal state, got %v", second)
	}
}

func TestIsValid(t *testing.T) {
	allStatuses := []string{
		model.StatusPending,
		model.StatusAccepted,
		model.StatusInProgress,
		model.StatusCompleted,
		model.StatusCancelled,
	}

	validEdges := map[string]map[string]bool{
		model.StatusPending:    {model.StatusAccepted: true, model.StatusCancelled: true},
		model.StatusAccepted:   {model.StatusInProgress: true, model.StatusCancelled: true},
		model.StatusInProgress: {model.StatusCompleted: true, model.StatusCancelled: true},
		model.StatusCompleted:  {},
		model.StatusCancelled:  {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := from == to || validEdges[from][to]
			if got := IsValid(from, to); got != want {
				t.Errorf("IsValid(%q, %q) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestIsValidSelfTransition(t *testing.T) {
	for _, status := range []string{
		model.StatusPending,
		model.StatusAccepted,
		model.StatusInProgress,
		model.StatusCompleted,
		model.StatusCancelled,
	} {
		if !IsValid(status, status) {
			t.Errorf("IsValid(%q, %q) = false, want true for self-transition", status, status)
		}
	}
}

func TestIsLocked(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{model.StatusPending, false},
		{model.StatusAccepted, false},
		{model.StatusInProgress, false},
		{model.StatusCompleted, true},
		{model.StatusCancelled, true},
	}

	for _, tt := range tests {
		if got := IsLocked(tt.status); got != tt.want {
			t.Errorf("IsLocked(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestDescribeRejection(t *testing.T) {
	t.Run("locked state names the terminal status", func(t *testing.T) {
		msg := DescribeRejection(model.StatusCompleted, model.StatusPending)
		if !strings.Contains(msg, "booking is completed") {
			t.Errorf("DescribeRejection for completed booking = %q, want locked-state message", msg)
		}
	})

	t.Run("invalid edge lists allowed next states", func(t *testing.T) {
		msg := DescribeRejection(model.StatusPending, model.StatusInProgress)
		if !strings.Contains(msg, model.StatusAccepted) || !strings.Contains(msg, model.StatusCancelled) {
			t.Errorf("DescribeRejection(pending, in_progress) = %q, want allowed statuses listed", msg)
		}
		if strings.Contains(msg, model.StatusCompleted) {
			t.Errorf("DescribeRejection(pending, in_progress) = %q, should not list completed", msg)
		}
	})
}

func TestStatusOptions(t *testing.T) {
	got := StatusOptions(model.StatusAccepted)
	want := []string{model.StatusAccepted, model.StatusInProgress, model.StatusCancelled}

	if len(got) != len(want) {
		t.Fatalf("StatusOptions(accepted) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("StatusOptions(accepted)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDecide(t *testing.T) {
	t.Run("allowed transition has no reason", func(t *testing.T) {
		decision := Decide(model.StatusPending, model.StatusAccepted)
		if !decision.Allowed {
			t.Fatal("Decide(pending, accepted).Allowed = false, want true")
		}
		if decision.Reason != "" {
			t.Errorf("Decide(pending, accepted).Reason = %q, want empty", decision.Reason)
		}
	})

	t.Run("rejected transition carries reason and next states", func(t *testing.T) {
		decision := Decide(model.StatusPending, model.StatusInProgress)
		if decision.Allowed {
			t.Fatal("Decide(pending, in_progress).Allowed = true, want false")
		}
		if decision.Reason == "" {
			t.Error("Decide(pending, in_progress).Reason is empty, want rejection message")
		}
		if len(decision.Next) != 2 {
			t.Errorf("Decide(pending, in_progress).Next = %v, want 2 statuses", decision.Next)
		}
	})
}
