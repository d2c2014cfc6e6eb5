package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Gbothemy/taskapp/models"
	"github.com/Gbothemy/taskapp/utils"
)

// pendingEarnings sums the worker_earning of a user's pending submissions.
func pendingEarnings(db *gorm.DB, userID uint) (float64, error) {
	var sum float64
	err := db.Model(&models.Submission{}).
		Where("worker_id = ? AND status = ?", userID, models.SubmissionStatusPending).
		Select("COALESCE(SUM(worker_earning),0)").Scan(&sum).Error
	return utils.Round2(sum), err
}

// WalletSnapshot returns the user's wallet with pending earnings derived
// from their pending submissions.
func (e *Engine) WalletSnapshot(ctx context.Context, userID uint) (models.Wallet, error) {
	db := e.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Wallet{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return models.Wallet{}, err
	}

	pending, err := pendingEarnings(db, userID)
	if err != nil {
		return models.Wallet{}, err
	}
	user.PendingEarnings = pending
	return user.Wallet(), nil
}

// WorkerDashboard aggregates a worker's earnings and submission counts.
type WorkerDashboard struct {
	TotalEarnings   float64 `json:"total_earnings"`
	TodayEarnings   float64 `json:"today_earnings"`
	PendingEarnings float64 `json:"pending_earnings"`
	TasksCompleted  int64   `json:"tasks_completed"`
	PendingTasks    int64   `json:"pending_tasks"`
	ApprovalRate    float64 `json:"approval_rate"`
	Level           int     `json:"level"`
}

func (e *Engine) WorkerStats(ctx context.Context, userID uint) (*WorkerDashboard, error) {
	db := e.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}

	stats := &WorkerDashboard{
		ApprovalRate: user.ApprovalRate,
		Level:        user.WorkerLevel,
	}

	if err := db.Model(&models.Submission{}).
		Where("worker_id = ? AND status = ?", userID, models.SubmissionStatusApproved).
		Count(&stats.TasksCompleted).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Submission{}).
		Where("worker_id = ? AND status = ?", userID, models.SubmissionStatusApproved).
		Select("COALESCE(SUM(worker_earning),0)").Scan(&stats.TotalEarnings).Error; err != nil {
		return nil, err
	}
	stats.TotalEarnings = utils.Round2(stats.TotalEarnings)

	dayStart := time.Now().Truncate(24 * time.Hour)
	if err := db.Model(&models.Submission{}).
		Where("worker_id = ? AND status = ? AND reviewed_at >= ?", userID, models.SubmissionStatusApproved, dayStart).
		Select("COALESCE(SUM(worker_earning),0)").Scan(&stats.TodayEarnings).Error; err != nil {
		return nil, err
	}
	stats.TodayEarnings = utils.Round2(stats.TodayEarnings)

	if err := db.Model(&models.Submission{}).
		Where("worker_id = ? AND status = ?", userID, models.SubmissionStatusPending).
		Count(&stats.PendingTasks).Error; err != nil {
		return nil, err
	}
	pending, err := pendingEarnings(db, userID)
	if err != nil {
		return nil, err
	}
	stats.PendingEarnings = pending

	return stats, nil
}

// EmployerDashboard aggregates an employer's task and review workload.
type EmployerDashboard struct {
	TasksPosted    int64   `json:"tasks_posted"`
	ActiveTasks    int64   `json:"active_tasks"`
	TotalSpent     float64 `json:"total_spent"`
	PendingReviews int64   `json:"pending_reviews"`
	CompletedTasks int64   `json:"completed_tasks"`
}

func (e *Engine) EmployerStats(ctx context.Context, userID uint) (*EmployerDashboard, error) {
	db := e.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}

	stats := &EmployerDashboard{TotalSpent: user.TotalSpent}

	if err := db.Model(&models.Task{}).Where("employer_id = ?", userID).
		Count(&stats.TasksPosted).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Task{}).
		Where("employer_id = ? AND status = ?", userID, models.TaskStatusActive).
		Count(&stats.ActiveTasks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Task{}).Where("employer_id = ?", userID).
		Select("COALESCE(SUM(completed_tasks),0)").Scan(&stats.CompletedTasks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Submission{}).
		Where("employer_id = ? AND status = ?", userID, models.SubmissionStatusPending).
		Count(&stats.PendingReviews).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
