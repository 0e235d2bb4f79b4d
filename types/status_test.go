package types

import "testing"

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		name   string
	}{
		{New, "NEW"},
		{Runnable, "RUNNABLE"},
		{Running, "RUNNING"},
		{Blocked, "BLOCKED"},
		{Waiting, "WAITING"},
		{TimedWaiting, "TIMED_WAITING"},
		{UninterruptablyBlocked, "UNINTERRUPTABLY_BLOCKED"},
		{AsyncWaiting, "ASYNC_WAITING"},
		{Parked, "PARKED"},
		{Terminated, "TERMINATED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.status.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.status.String(), tt.name)
			}
		})
	}
}

func TestStatusRequiresMonitor(t *testing.T) {
	want := map[Status]bool{
		New:                    false,
		Runnable:               false,
		Running:                false,
		Blocked:                true,
		Waiting:                true,
		TimedWaiting:           true,
		UninterruptablyBlocked: true,
		AsyncWaiting:           false,
		Parked:                 false,
		Terminated:             false,
	}
	for status, expect := range want {
		if got := status.RequiresMonitor(); got != expect {
			t.Errorf("%s.RequiresMonitor() = %v, want %v", status, got, expect)
		}
	}
}

func TestStatusIsSuspended(t *testing.T) {
	want := map[Status]bool{
		New:                    false,
		Runnable:               false,
		Running:                false,
		Blocked:                true,
		Waiting:                true,
		TimedWaiting:           true,
		UninterruptablyBlocked: true,
		AsyncWaiting:           true,
		Parked:                 true,
		Terminated:             false,
	}
	for status, expect := range want {
		if got := status.IsSuspended(); got != expect {
			t.Errorf("%s.IsSuspended() = %v, want %v", status, got, expect)
		}
	}
}
