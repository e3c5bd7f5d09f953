package session

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusProposed, StatusAccepted, true},
		{StatusProposed, StatusCancelled, true},
		{StatusAccepted, StatusCompleted, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusProposed, StatusProposed, true},
		{StatusProposed, StatusCompleted, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusAccepted, false},
		{StatusCompleted, StatusProposed, false},
		{StatusAccepted, Status("DONE"), false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestFocusRoleTeacher(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	if FocusUserATeaches.Teacher(a, b) != a {
		t.Fatalf("expected user A to teach")
	}
	if FocusUserBTeaches.Teacher(a, b) != b {
		t.Fatalf("expected user B to teach")
	}
	if FocusRole("MUTUAL").Teacher(a, b) != uuid.Nil {
		t.Fatalf("expected nil teacher for unknown role")
	}
}
