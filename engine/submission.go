package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Gbothemy/taskapp/models"
	"github.com/Gbothemy/taskapp/notify"
	"github.com/Gbothemy/taskapp/utils"
)

// Proof is the worker-supplied evidence payload.
type Proof struct {
	Type    string
	Content string
}

// Review is the optional employer feedback attached to a decision.
type Review struct {
	Rating   int
	Feedback string
}

// SubmitProof records one worker attempt at one task unit. The capacity
// check and completed_tasks increment happen under the task row lock, so
// concurrent submissions cannot exceed total_tasks_needed.
func (e *Engine) SubmitProof(ctx context.Context, workerID, taskID uint, proof Proof) (*models.Submission, error) {
	if !models.ValidProofType(proof.Type) {
		return nil, ValidationError("invalid proof type")
	}
	if strings.TrimSpace(proof.Content) == "" {
		return nil, ValidationError("proof content is required")
	}

	var submission *models.Submission
	var employerID uint
	var taskTitle string

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := forUpdate(tx).First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
			}
			return err
		}
		if task.Status != models.TaskStatusActive {
			return fmt.Errorf("task is not active: %w", ErrInvalidState)
		}
		if task.CompletedTasks >= task.TotalTasksNeeded {
			return fmt.Errorf("task is already full: %w", ErrInvalidState)
		}
		if proof.Type != task.RequiredProofType {
			return ValidationError("proof type must be " + task.RequiredProofType)
		}

		var count int64
		if err := tx.Model(&models.Submission{}).
			Where("task_id = ? AND worker_id = ?", taskID, workerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("worker %d already submitted to task %d: %w", workerID, taskID, ErrDuplicateSubmission)
		}

		fee := utils.Round2(task.PayoutPerTask * e.cfg.FeePercent / 100)
		earning := utils.Round2(task.PayoutPerTask - fee)

		submission = &models.Submission{
			TaskID:        taskID,
			WorkerID:      workerID,
			EmployerID:    task.EmployerID,
			ProofType:     proof.Type,
			ProofContent:  proof.Content,
			Status:        models.SubmissionStatusPending,
			Amount:        task.PayoutPerTask,
			PlatformFee:   fee,
			WorkerEarning: earning,
			SubmittedAt:   time.Now(),
		}
		if err := tx.Create(submission).Error; err != nil {
			return err
		}

		employerID = task.EmployerID
		taskTitle = task.Title
		return tx.Model(&task).Update("completed_tasks", gorm.Expr("completed_tasks + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	e.notifier.Emit(employerID, notify.EventNewSubmission, map[string]interface{}{
		"submission_id": submission.ID,
		"task_id":       taskID,
		"task_title":    taskTitle,
		"worker_id":     workerID,
	})
	return submission, nil
}

// DecideSubmission applies the employer's approve/reject decision exactly
// once. Approval posts the worker payment and the platform fee to the ledger
// and credits the worker wallet; rejection reopens the task slot. Submission,
// task and worker rows are locked in one transaction, so a second concurrent
// decision observes the non-pending status and fails with ErrInvalidState.
func (e *Engine) DecideSubmission(ctx context.Context, employerID, submissionID uint, approve bool, review *Review) (*models.Submission, error) {
	if review != nil {
		if review.Rating < 1 || review.Rating > 5 {
			return nil, ValidationError("review rating must be between 1 and 5")
		}
	}

	var submission models.Submission

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&submission, submissionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("submission %d: %w", submissionID, ErrNotFound)
			}
			return err
		}
		// Ownership failures look identical to missing submissions so the
		// endpoint cannot be used to probe other employers' reviews.
		if submission.EmployerID != employerID {
			return fmt.Errorf("submission %d: %w", submissionID, ErrNotFound)
		}
		if submission.Decided() {
			return fmt.Errorf("submission already processed: %w", ErrInvalidState)
		}

		var task models.Task
		if err := forUpdate(tx).First(&task, submission.TaskID).Error; err != nil {
			return err
		}

		now := time.Now()
		submission.ReviewedAt = &now
		if review != nil {
			submission.ReviewRating = &review.Rating
			if review.Feedback != "" {
				submission.ReviewFeedback = &review.Feedback
			}
		}

		if approve {
			submission.Status = models.SubmissionStatusApproved
			if err := tx.Save(&submission).Error; err != nil {
				return err
			}
			if err := e.settle(tx, &submission); err != nil {
				return err
			}
			return tx.Model(&task).Update("approved_tasks", gorm.Expr("approved_tasks + 1")).Error
		}

		submission.Status = models.SubmissionStatusRejected
		if err := tx.Save(&submission).Error; err != nil {
			return err
		}
		// Rejection reopens the unit slot for other workers.
		return tx.Model(&task).Updates(map[string]interface{}{
			"rejected_tasks":  gorm.Expr("rejected_tasks + 1"),
			"completed_tasks": gorm.Expr("completed_tasks - 1"),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	event := notify.EventTaskRejected
	payload := map[string]interface{}{
		"submission_id": submission.ID,
		"task_id":       submission.TaskID,
		"status":        submission.Status,
	}
	if approve {
		event = notify.EventTaskApproved
		payload["earnings"] = submission.WorkerEarning
	}
	e.notifier.Emit(submission.WorkerID, event, payload)
	return &submission, nil
}

// settle posts the two ledger transactions for an approved submission and
// credits the worker wallet. Runs inside the decide transaction.
func (e *Engine) settle(tx *gorm.DB, s *models.Submission) error {
	workerTx := models.Transaction{
		UserID:              s.WorkerID,
		Type:                models.TransactionTaskPayment,
		Amount:              s.WorkerEarning,
		Status:              models.TransactionStatusCompleted,
		Reference:           utils.GenerateReference(s.WorkerID),
		RelatedTaskID:       &s.TaskID,
		RelatedSubmissionID: &s.ID,
		Description:         "Task completion payment",
	}
	if err := tx.Create(&workerTx).Error; err != nil {
		return err
	}

	feeTx := models.Transaction{
		UserID:              s.EmployerID,
		Type:                models.TransactionPlatformFee,
		Amount:              -s.PlatformFee,
		Status:              models.TransactionStatusCompleted,
		Reference:           utils.GenerateReference(s.EmployerID),
		RelatedTaskID:       &s.TaskID,
		RelatedSubmissionID: &s.ID,
		Description:         "Platform fee",
	}
	if err := tx.Create(&feeTx).Error; err != nil {
		return err
	}

	var worker models.User
	if err := forUpdate(tx).First(&worker, s.WorkerID).Error; err != nil {
		return err
	}
	worker.Balance = utils.Round2(worker.Balance + s.WorkerEarning)
	worker.TotalEarned = utils.Round2(worker.TotalEarned + s.WorkerEarning)
	worker.TasksCompleted++
	return tx.Save(&worker).Error
}
