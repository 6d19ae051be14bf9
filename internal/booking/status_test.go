package booking

import "testing"

func TestCanTransition(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusPending, StatusExpired},
		{StatusConfirmed, StatusCancelled},
		{StatusConfirmed, StatusOngoing},
		{StatusOngoing, StatusCompleted},
	}
	for _, tc := range legal {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	illegal := []struct{ from, to Status }{
		{StatusPending, StatusOngoing},
		{StatusPending, StatusCompleted},
		{StatusConfirmed, StatusPending},
		{StatusConfirmed, StatusExpired},
		{StatusOngoing, StatusCancelled},
		{StatusCompleted, StatusOngoing},
	}
	for _, tc := range illegal {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be illegal", tc.from, tc.to)
		}
	}
}

func TestTerminalStatesHaveNoOutboundTransitions(t *testing.T) {
	terminals := []Status{StatusCancelled, StatusExpired, StatusCompleted}
	all := []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusExpired, StatusOngoing, StatusCompleted}

	for _, from := range terminals {
		if !from.Terminal() {
			t.Errorf("expected %s to be terminal", from)
		}
		for _, to := range all {
			if CanTransition(from, to) {
				t.Errorf("terminal state %s allows transition to %s", from, to)
			}
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("confirmed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseStatus("nonsense"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
