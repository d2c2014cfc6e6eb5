package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Gbothemy/taskapp/models"
	"github.com/Gbothemy/taskapp/utils"
)

// recordingEmitter captures emitted events so tests can assert on them.
type recordingEmitter struct {
	mu     sync.Mutex
	events []emitted
}

type emitted struct {
	userID uint
	event  string
}

func (r *recordingEmitter) Emit(userID uint, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{userID: userID, event: event})
}

func (r *recordingEmitter) last() (emitted, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return emitted{}, false
	}
	return r.events[len(r.events)-1], true
}

func newTestEngine(t *testing.T) (*Engine, *gorm.DB, *recordingEmitter) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}, &models.Submission{}, &models.Transaction{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	rec := &recordingEmitter{}
	e := New(db, Config{FeePercent: 5, MinWithdrawal: 10}, rec)
	return e, db, rec
}

var userSeq uint

func seedUser(t *testing.T, db *gorm.DB, role string, balance float64) *models.User {
	t.Helper()
	userSeq++
	u := &models.User{
		Email:     fmt.Sprintf("user%d@test.local", userSeq),
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		Status:    "active",
		Balance:   balance,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedTask(t *testing.T, e *Engine, employerID uint, payout float64, total int) *models.Task {
	t.Helper()
	task, err := e.CreateTask(context.Background(), employerID, TaskSpec{
		Title:             "Categorize product photos",
		Description:       "Sort photos into the right category",
		Instructions:      "Open each link and pick a category",
		Category:          "data-entry",
		PayoutPerTask:     payout,
		TotalTasksNeeded:  total,
		Deadline:          time.Now().Add(72 * time.Hour),
		RequiredProofType: "text",
	})
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func reload(t *testing.T, db *gorm.DB, dest interface{}, id uint) {
	t.Helper()
	if err := db.First(dest, id).Error; err != nil {
		t.Fatalf("reload %T %d: %v", dest, id, err)
	}
}

func TestCreateTaskDefaultsAndStats(t *testing.T) {
	e, db, rec := newTestEngine(t)
	employer := seedUser(t, db, models.RoleEmployer, 100)

	task := seedTask(t, e, employer.ID, 2.50, 10)

	if task.Status != models.TaskStatusActive {
		t.Fatalf("expected active status, got %s", task.Status)
	}
	if task.MinApprovalRate != 80 || task.MinWorkerLevel != 1 {
		t.Fatalf("expected eligibility defaults 80/1, got %.0f/%d", task.MinApprovalRate, task.MinWorkerLevel)
	}
	if task.CompletedTasks != 0 || task.ApprovedTasks != 0 || task.RejectedTasks != 0 {
		t.Fatalf("expected zeroed counters, got %d/%d/%d", task.CompletedTasks, task.ApprovedTasks, task.RejectedTasks)
	}

	var fresh models.User
	reload(t, db, &fresh, employer.ID)
	if fresh.TasksPosted != 1 {
		t.Fatalf("expected tasks_posted 1, got %d", fresh.TasksPosted)
	}
	if ev, ok := rec.last(); !ok || ev.event != "new_task" {
		t.Fatalf("expected new_task event, got %+v", ev)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	e, db, _ := newTestEngine(t)
	employer := seedUser(t, db, models.RoleEmployer, 100)

	base := TaskSpec{
		Title:             "T",
		Description:       "D",
		Instructions:      "I",
		Category:          "data-entry",
		PayoutPerTask:     1,
		TotalTasksNeeded:  1,
		Deadline:          time.Now().Add(time.Hour),
		RequiredProofType: "text",
	}

	cases := []struct {
		name   string
		mutate func(*TaskSpec)
	}{
		{"empty title", func(s *TaskSpec) { s.Title = "  " }},
		{"bad category", func(s *TaskSpec) { s.Category = "misc" }},
		{"zero payout", func(s *TaskSpec) { s.PayoutPerTask = 0 }},
		{"negative payout", func(s *TaskSpec) { s.PayoutPerTask = -5 }},
		{"zero units", func(s *TaskSpec) { s.TotalTasksNeeded = 0 }},
		{"missing deadline", func(s *TaskSpec) { s.Deadline = time.Time{} }},
		{"bad proof type", func(s *TaskSpec) { s.RequiredProofType = "video" }},
		{"rate above 100", func(s *TaskSpec) { s.MinApprovalRate = 101 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := base
			tc.mutate(&spec)
			if _, err := e.CreateTask(context.Background(), employer.ID, spec); !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSubmitProofBreakdown(t *testing.T) {
	e, db, rec := newTestEngine(t)
	employer := seedUser(t, db, models.RoleEmployer, 100)
	worker := seedUser(t, db, models.RoleWorker, 0)
	task := seedTask(t, e, employer.ID, 15.00, 3)

	sub, err := e.SubmitProof(context.Background(), worker.ID, task.ID, Proof{Type: "text", Content: "done, see notes"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Amount != 15.00 || sub.PlatformFee != 0.75 || sub.WorkerEarning != 14.25 {
		t.Fatalf("expected 15.00/0.75/14.25, got %.2f/%.2f/%.2f", sub.Amount, sub.PlatformFee, sub.WorkerEarning)
	}
	if sub.Status != models.SubmissionStatusPending {
		t.Fatalf("expected pending, got %s", sub.Status)
	}

	var fresh models.Task
	reload(t, db, &fresh, task.ID)
	if fresh.CompletedTasks != 1 {
		t.Fatalf("expected completed_tasks 1, got %d", fresh.CompletedTasks)
	}
	if ev, ok := rec.last(); !ok || ev.event != "new_submission" || ev.userID != employer.ID {
		t.Fatalf("expected new_submission to employer, got %+v", ev)
	}
}

func TestSubmitProofFailureModes(t *testing.T) {
	e, db, _ := newTestEngine(t)
	employer := seedUser(t, db, models.RoleEmployer, 100)
	worker := seedUser(t, db, models.RoleWorker, 0)
	other := seedUser(t, db, models.RoleWorker, 0)
	ctx := context.Background()

	t.Run("missing task", func(t *testing.T) {
		_, err := e.SubmitProof(ctx, worker.ID, 9999, Proof{Type: "text", Content: "x"})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	task := seedTask(t, e, employer.ID, 5, 1)

	t.Run("wrong proof type", func(t *testing.T) {
		_, err := e.SubmitProof(ctx, worker.ID, task.ID, Proof{Type: "url", Content: "https://x"})
		if !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := e.SubmitProof(ctx, worker.ID, task.ID, Proof{Type: "text", Content: "   "})
		if !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	if _, err := e.SubmitProof(ctx, worker.ID, task.ID, Proof{Type: "text", Content: "first"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	t.Run("duplicate worker", func(t *testing.T) {
		_, err := e.SubmitProof(ctx, worker.ID, task.ID, Proof{Type: "text", Content: "again"})
		if !errors.Is(err, ErrDuplicateSubmission) {
			t.Fatalf("expected ErrDuplicateSubmission, got %v", err)
		}
	})

	t.Run("task full", func(t *testing.T) {
		_, err := e.SubmitProof(ctx, other.ID, task.ID, Proof{Type: "text", Content: "late"})
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("paused task", func(t *testing.T) {
		paused := seedTask(t, e, employer.ID, 5, 2)
		if err := db.Model(&models.Task{}).Where("id = ?", paused.ID).
			Update("status", models.TaskStatusPaused).Error; err != nil {
			t.Fatalf("pause: %v", err)
		}
		_, err := e.SubmitProof(ctx, other.ID, paused.ID, Proof{Type: "text", Content: "x"})
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})
}

func TestApproveSettlesLedgerAndWallet(t *testing.T) {
	e, db, rec := newTestEngine(t)
	employer := seedUser(t, db, models.RoleEmployer, 100)
	worker := seedUser(t, db, models.RoleWorker, 0)
	task := seedTask(t, e, employer.ID, 15.00, 3)
	ctx := context.Background()

	sub, err := e.SubmitProof(ctx, worker.ID, task.ID, Proof{Type: "text", Content: "done"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	decided, err := e.DecideSubmission(ctx, employer.ID, sub.ID, true, &Review{Rating: 5, Feedback: "great"})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if decided.Status != models.SubmissionStatusApproved {
		t.Fatalf("expected approved, got %s", decided.Status)
	}
	if decided.ReviewedAt == nil || decided.ReviewRating == nil || *decided.ReviewRating != 5 {
		t.Fatalf("expected review fields set, got %+v", decided)
	}

	var freshWorker models.User
	reload(t, db, &freshWorker, worker.ID)
	if freshWorker.Balance != 14.25 || freshWorker.TotalEarned != 14.25 {
		t.Fatalf("expected wallet 14.25/14.25, got %.2f/%.2f", freshWorker.Balance, freshWorker.TotalEarned)
	}
	if freshWorker.TasksCompleted != 1 {
		t.Fatalf("expected tasks_completed 1, got %d", freshWorker.TasksCompleted)
	}

	var freshTask models.Task
	reload(t, db, &freshTask, task.ID)
	if freshTask.ApprovedTasks != 1 || freshTask.CompletedTasks != 1 {
		t.Fatalf("expected approved 1 completed 1, got %d/%d", freshTask.ApprovedTasks, freshTask.CompletedTasks)
	}

	var payment, fee models.Transaction
	if err := db.Where("user_id = ? AND type = ?", worker.ID, models.TransactionTaskPayment).First(&payment).Error; err != nil {
		t.Fatalf("worker payment row: %v", err)
	}
	if payment.Amount != 14.25 || payment.Status != models.TransactionStatusCompleted {
		t.Fatalf("expected +14.25 completed, got %.2f %s", payment.Amount, payment.Status)
	}
	if err := db.Where("user_id = ? AND type = ?", employer.ID, models.TransactionPlatformFee).First(&fee).Error; err != nil {
		t.Fatalf("fee row: %v", err)
	}
	if fee.Amount != -0.75 {
		t.Fatalf("expected fee -0.75, got %.2f", fee.Amount)
	}
	if payment.RelatedSubmissionID == nil || *payment.RelatedSubmissionID != sub.ID {
		t.Fatalf("expected payment linked to submission %d", sub.ID)
	}

	if ev, ok := rec.last(); !ok || ev.event != "task_approved" || ev.userID != worker.ID {
		t.Fatalf("expected task_approved to worker, got %+v", ev)
	}
}

func TestRejectReopensSlot(t *testing.T) {
	e, db, rec := newTestEngine(t)
	employer := seedUser(t, db, models.RoleEmployer, 100)
	worker := seedUser(t, db, models.RoleWorker, 0)
	other := seedUser(t, db, models.RoleWorker, 0)
	task := seedTask(t, e, employer.ID, 5, 1)
	ctx := context.Background()

	sub, err := e.SubmitProof(ctx, worker.ID, task.ID, Proof{Type: "text", Content: "bad work"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := e.DecideSubmission(ctx, employer.ID, sub.ID, false, nil); err != nil {
		t.Fatalf("reject: %v", err)
	}

	var freshTask models.Task
	reload(t, db, &freshTask, task.ID)
	if freshTask.RejectedTasks != 1 || freshTask.CompletedTasks != 0 {
		t.Fatalf("expected rejected 1 completed 0, got %d/%d", freshTask.RejectedTasks, freshTask.CompletedTasks)
	}

	var freshWorker models.User
	reload(t, db, &freshWorker, worker.ID)
	if freshWorker.Balance != 0 {
		t.Fatalf("expected no credit on rejection, got %.2f", freshWorker.Balance)
	}

	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no ledger rows on rejection, got %d", count)
	}

	// The reopened slot accepts another worker.
	if _, err := e.SubmitProof(ctx, other.ID, task.ID, Proof{Type: "text", Content: "better"}); err != nil {
		t.Fatalf("resubmit after rejection: %v", err)
	}

	found := false
	rec.mu.Lock()
	for _, ev := range rec.events {
		if ev.event == "task_rejected" && ev.userID == worker.ID {
			found = true
		}
	}
	rec.mu.Unlock()
	if !found {
		t.Fatal("expected task_rejected event to worker")
	}
}

func TestDecideSubmissionGuards(t *testing.T) {
	e, db, _ := newTestEngine(t)
	employer := seedUser(t, db, models.RoleEmployer, 100)
	intruder := seedUser(t, db, models.RoleEmployer, 100)
	worker := seedUser(t, db, models.RoleWorker, 0)
	task := seedTask(t, e, employer.ID, 8, 2)
	ctx := context.Background()

	sub, err := e.SubmitProof(ctx, worker.ID, task.ID, Proof{Type: "text", Content: "done"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	t.Run("missing submission", func(t *testing.T) {
		_, err := e.DecideSubmission(ctx, employer.ID, 9999, true, nil)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("foreign employer", func(t *testing.T) {
		_, err := e.DecideSubmission(ctx, intruder.ID, sub.ID, true, nil)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for foreign employer, got %v", err)
		}
	})

	t.Run("bad rating", func(t *testing.T) {
		_, err := e.DecideSubmission(ctx, employer.ID, sub.ID, true, &Review{Rating: 6})
		if !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	if _, err := e.DecideSubmission(ctx, employer.ID, sub.ID, true, nil); err != nil {
		t.Fatalf("approve: %v", err)
	}

	t.Run("second decision", func(t *testing.T) {
		_, err := e.DecideSubmission(ctx, employer.ID, sub.ID, false, nil)
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState on second decision, got %v", err)
		}
		var freshWorker models.User
		reload(t, db, &freshWorker, worker.ID)
		if freshWorker.Balance != 7.60 {
			t.Fatalf("expected single settlement of 7.60, got %.2f", freshWorker.Balance)
		}
	})
}

func TestPayoutBreakdownRoundTrips(t *testing.T) {
	e, db, _ := newTestEngine(t)
	employer := seedUser(t, db, models.RoleEmployer, 100)
	ctx := context.Background()

	for i, payout := range []float64{0.01, 0.10, 1.99, 3.33, 15.00, 100.00} {
		worker := seedUser(t, db, models.RoleWorker, 0)
		task := seedTask(t, e, employer.ID, payout, 1)
		sub, err := e.SubmitProof(ctx, worker.ID, task.ID, Proof{Type: "text", Content: "done"})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if got := utils.Round2(sub.PlatformFee + sub.WorkerEarning); got != sub.Amount {
			t.Fatalf("payout %.2f: fee %.2f + earning %.2f = %.2f, want %.2f",
				payout, sub.PlatformFee, sub.WorkerEarning, got, sub.Amount)
		}
	}
}

func TestListTasksFilters(t *testing.T) {
	e, db, _ := newTestEngine(t)
	employer := seedUser(t, db, models.RoleEmployer, 100)
	ctx := context.Background()

	seedTask(t, e, employer.ID, 1.00, 5)
	mid := seedTask(t, e, employer.ID, 5.00, 5)
	seedTask(t, e, employer.ID, 20.00, 5)

	if err := db.Model(&models.Task{}).Where("id = ?", mid.ID).
		Update("status", models.TaskStatusPaused).Error; err != nil {
		t.Fatalf("pause: %v", err)
	}

	t.Run("defaults to active", func(t *testing.T) {
		tasks, page, err := e.ListTasks(ctx, TaskFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tasks) != 2 || page.TotalRows != 2 {
			t.Fatalf("expected 2 active tasks, got %d (%d rows)", len(tasks), page.TotalRows)
		}
	})

	t.Run("payout range", func(t *testing.T) {
		min, max := 2.0, 50.0
		tasks, _, err := e.ListTasks(ctx, TaskFilter{MinPayout: &min, MaxPayout: &max})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tasks) != 1 || tasks[0].PayoutPerTask != 20.00 {
			t.Fatalf("expected one task at 20.00, got %+v", tasks)
		}
	})

	t.Run("sort by payout asc", func(t *testing.T) {
		tasks, _, err := e.ListTasks(ctx, TaskFilter{SortBy: "payout", SortOrder: "asc"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tasks) != 2 || tasks[0].PayoutPerTask != 1.00 {
			t.Fatalf("expected cheapest first, got %+v", tasks)
		}
	})

	t.Run("pagination math", func(t *testing.T) {
		_, page, err := e.ListTasks(ctx, TaskFilter{Page: 1, Limit: 1})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if page.TotalPages != 2 {
			t.Fatalf("expected 2 pages, got %d", page.TotalPages)
		}
	})

	t.Run("empty result", func(t *testing.T) {
		tasks, page, err := e.ListTasks(ctx, TaskFilter{Status: models.TaskStatusCancelled})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tasks) != 0 || page.TotalRows != 0 {
			t.Fatalf("expected empty page, got %+v", tasks)
		}
	})
}
