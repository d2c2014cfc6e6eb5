package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/Gbothemy/taskapp/models"
)

func TestWalletSnapshotPendingEarnings(t *testing.T) {
	e, db, _ := newTestEngine(t)
	employer := seedUser(t, db, models.RoleEmployer, 100)
	worker := seedUser(t, db, models.RoleWorker, 0)
	task := seedTask(t, e, employer.ID, 15.00, 3)
	ctx := context.Background()

	sub, err := e.SubmitProof(ctx, worker.ID, task.ID, Proof{Type: "text", Content: "done"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Pending submission earnings show up before any decision.
	wallet, err := e.WalletSnapshot(ctx, worker.ID)
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}
	if wallet.PendingEarnings != 14.25 {
		t.Fatalf("expected pending earnings 14.25, got %.2f", wallet.PendingEarnings)
	}
	if wallet.Balance != 0 {
		t.Fatalf("expected zero balance while pending, got %.2f", wallet.Balance)
	}

	if _, err := e.DecideSubmission(ctx, employer.ID, sub.ID, true, nil); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Approval moves the amount from pending to balance.
	wallet, err = e.WalletSnapshot(ctx, worker.ID)
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}
	if wallet.PendingEarnings != 0 {
		t.Fatalf("expected no pending earnings after approval, got %.2f", wallet.PendingEarnings)
	}
	if wallet.Balance != 14.25 || wallet.TotalEarned != 14.25 {
		t.Fatalf("expected balance/total 14.25, got %.2f/%.2f", wallet.Balance, wallet.TotalEarned)
	}
}

func TestWalletSnapshotMissingUser(t *testing.T) {
	e, _, _ := newTestEngine(t)
	if _, err := e.WalletSnapshot(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWorkerStats(t *testing.T) {
	e, db, _ := newTestEngine(t)
	employer := seedUser(t, db, models.RoleEmployer, 100)
	worker := seedUser(t, db, models.RoleWorker, 0)
	approvedTask := seedTask(t, e, employer.ID, 10.00, 1)
	pendingTask := seedTask(t, e, employer.ID, 4.00, 1)
	ctx := context.Background()

	sub, err := e.SubmitProof(ctx, worker.ID, approvedTask.ID, Proof{Type: "text", Content: "a"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := e.DecideSubmission(ctx, employer.ID, sub.ID, true, nil); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := e.SubmitProof(ctx, worker.ID, pendingTask.ID, Proof{Type: "text", Content: "b"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	stats, err := e.WorkerStats(ctx, worker.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TasksCompleted != 1 || stats.PendingTasks != 1 {
		t.Fatalf("expected 1 completed / 1 pending, got %d/%d", stats.TasksCompleted, stats.PendingTasks)
	}
	if stats.TotalEarnings != 9.50 {
		t.Fatalf("expected total earnings 9.50, got %.2f", stats.TotalEarnings)
	}
	if stats.TodayEarnings != 9.50 {
		t.Fatalf("expected today earnings 9.50, got %.2f", stats.TodayEarnings)
	}
	if stats.PendingEarnings != 3.80 {
		t.Fatalf("expected pending earnings 3.80, got %.2f", stats.PendingEarnings)
	}
	if stats.Level != 1 || stats.ApprovalRate != 100 {
		t.Fatalf("expected level 1 rate 100, got %d/%.0f", stats.Level, stats.ApprovalRate)
	}
}

func TestEmployerStats(t *testing.T) {
	e, db, _ := newTestEngine(t)
	employer := seedUser(t, db, models.RoleEmployer, 100)
	worker := seedUser(t, db, models.RoleWorker, 0)
	active := seedTask(t, e, employer.ID, 5.00, 3)
	paused := seedTask(t, e, employer.ID, 5.00, 2)
	ctx := context.Background()

	if err := db.Model(&models.Task{}).Where("id = ?", paused.ID).
		Update("status", models.TaskStatusPaused).Error; err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := e.SubmitProof(ctx, worker.ID, active.ID, Proof{Type: "text", Content: "x"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	stats, err := e.EmployerStats(ctx, employer.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TasksPosted != 2 || stats.ActiveTasks != 1 {
		t.Fatalf("expected 2 posted / 1 active, got %d/%d", stats.TasksPosted, stats.ActiveTasks)
	}
	if stats.PendingReviews != 1 {
		t.Fatalf("expected 1 pending review, got %d", stats.PendingReviews)
	}
	if stats.CompletedTasks != 1 {
		t.Fatalf("expected 1 completed unit, got %d", stats.CompletedTasks)
	}
}

func TestSetUserStatus(t *testing.T) {
	e, db, rec := newTestEngine(t)
	worker := seedUser(t, db, models.RoleWorker, 0)
	ctx := context.Background()

	user, err := e.SetUserStatus(ctx, worker.ID, models.UserStatusSuspended)
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if user.Status != models.UserStatusSuspended {
		t.Fatalf("expected suspended, got %s", user.Status)
	}

	var fresh models.User
	reload(t, db, &fresh, worker.ID)
	if fresh.Status != models.UserStatusSuspended {
		t.Fatalf("expected suspended persisted, got %s", fresh.Status)
	}

	if ev, ok := rec.last(); !ok || ev.event != "account_status_changed" || ev.userID != worker.ID {
		t.Fatalf("expected account_status_changed to user, got %+v", ev)
	}

	if _, err := e.SetUserStatus(ctx, worker.ID, "frozen"); !IsValidation(err) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
	if _, err := e.SetUserStatus(ctx, 9999, models.UserStatusBanned); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing user, got %v", err)
	}
}
