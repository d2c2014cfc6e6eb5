package models

import "testing"

func TestRemainingTasks(t *testing.T) {
	task := Task{TotalTasksNeeded: 5, CompletedTasks: 3}
	if got := task.RemainingTasks(); got != 2 {
		t.Fatalf("expected 2 remaining, got %d", got)
	}

	task.CompletedTasks = 5
	if got := task.RemainingTasks(); got != 0 {
		t.Fatalf("expected 0 when full, got %d", got)
	}

	// Counters can briefly overshoot between a rejection decrement and a
	// reload; remaining never goes negative.
	task.CompletedTasks = 7
	if got := task.RemainingTasks(); got != 0 {
		t.Fatalf("expected 0 when overshot, got %d", got)
	}
}

func TestValidCategoryAndProofType(t *testing.T) {
	if !ValidCategory("data-entry") || ValidCategory("gardening") {
		t.Fatal("category validation mismatch")
	}
	if !ValidProofType("url") || ValidProofType("video") {
		t.Fatal("proof type validation mismatch")
	}
}

func TestSubmissionDecided(t *testing.T) {
	s := Submission{Status: SubmissionStatusPending}
	if s.Decided() {
		t.Fatal("pending submission reported decided")
	}
	for _, st := range []string{SubmissionStatusApproved, SubmissionStatusRejected, SubmissionStatusAutoApproved} {
		s.Status = st
		if !s.Decided() {
			t.Fatalf("status %s should be decided", st)
		}
	}
}
