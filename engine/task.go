package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Gbothemy/taskapp/models"
	"github.com/Gbothemy/taskapp/notify"
	"github.com/Gbothemy/taskapp/utils"
)

// TaskSpec carries the employer-supplied fields for a new task.
type TaskSpec struct {
	Title             string
	Description       string
	Instructions      string
	Category          string
	PayoutPerTask     float64
	TotalTasksNeeded  int
	Deadline          time.Time
	RequiredProofType string
	MinApprovalRate   float64
	MinWorkerLevel    int
}

// CreateTask validates the spec, stores the task with zeroed counters and
// status active, and bumps the employer's tasks_posted stat.
func (e *Engine) CreateTask(ctx context.Context, employerID uint, spec TaskSpec) (*models.Task, error) {
	if strings.TrimSpace(spec.Title) == "" {
		return nil, ValidationError("title is required")
	}
	if strings.TrimSpace(spec.Description) == "" {
		return nil, ValidationError("description is required")
	}
	if strings.TrimSpace(spec.Instructions) == "" {
		return nil, ValidationError("instructions are required")
	}
	if !models.ValidCategory(spec.Category) {
		return nil, ValidationError("invalid category")
	}
	if spec.PayoutPerTask <= 0 {
		return nil, ValidationError("payout per task must be positive")
	}
	if spec.TotalTasksNeeded < 1 {
		return nil, ValidationError("total tasks needed must be at least 1")
	}
	if spec.Deadline.IsZero() {
		return nil, ValidationError("deadline is required")
	}
	if !models.ValidProofType(spec.RequiredProofType) {
		return nil, ValidationError("invalid proof type")
	}
	if spec.MinApprovalRate == 0 {
		spec.MinApprovalRate = 80
	}
	if spec.MinWorkerLevel == 0 {
		spec.MinWorkerLevel = 1
	}
	if spec.MinApprovalRate < 0 || spec.MinApprovalRate > 100 {
		return nil, ValidationError("minimum approval rate must be between 0 and 100")
	}

	task := &models.Task{
		EmployerID:        employerID,
		Title:             strings.TrimSpace(spec.Title),
		Description:       spec.Description,
		Instructions:      spec.Instructions,
		Category:          spec.Category,
		PayoutPerTask:     utils.Round2(spec.PayoutPerTask),
		TotalTasksNeeded:  spec.TotalTasksNeeded,
		Deadline:          spec.Deadline,
		Status:            models.TaskStatusActive,
		RequiredProofType: spec.RequiredProofType,
		MinApprovalRate:   spec.MinApprovalRate,
		MinWorkerLevel:    spec.MinWorkerLevel,
	}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employer models.User
		if err := forUpdate(tx).First(&employer, employerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("employer %d: %w", employerID, ErrNotFound)
			}
			return err
		}
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return tx.Model(&employer).Update("tasks_posted", gorm.Expr("tasks_posted + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	e.notifier.Emit(employerID, notify.EventNewTask, map[string]interface{}{
		"task_id": task.ID,
		"title":   task.Title,
	})
	return task, nil
}

// TaskFilter narrows and orders a task listing.
type TaskFilter struct {
	Status    string
	Category  string
	MinPayout *float64
	MaxPayout *float64
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Page describes the pagination block returned alongside listings.
type Page struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalRows  int64 `json:"total_rows"`
	TotalPages int   `json:"total_pages"`
}

// sortColumns whitelists caller-chosen sort fields.
var sortColumns = map[string]string{
	"createdAt":     "created_at",
	"created_at":    "created_at",
	"payoutPerTask": "payout_per_task",
	"payout":        "payout_per_task",
	"deadline":      "deadline",
}

// ListTasks returns tasks matching the filter, newest first by default.
// An empty result set is valid.
func (e *Engine) ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, Page, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 50 {
		f.Limit = 50
	}
	if f.Status == "" {
		f.Status = models.TaskStatusActive
	}

	db := e.db.WithContext(ctx)
	query := db.Model(&models.Task{}).Where("status = ?", f.Status)
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.MinPayout != nil {
		query = query.Where("payout_per_task >= ?", *f.MinPayout)
	}
	if f.MaxPayout != nil {
		query = query.Where("payout_per_task <= ?", *f.MaxPayout)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		return nil, Page{}, err
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}

	var tasks []models.Task
	offset := (f.Page - 1) * f.Limit
	if err := query.Order(col + " " + dir).Limit(f.Limit).Offset(offset).Find(&tasks).Error; err != nil {
		return nil, Page{}, err
	}

	page := Page{
		Page:       f.Page,
		Limit:      f.Limit,
		TotalRows:  totalRows,
		TotalPages: int(math.Ceil(float64(totalRows) / float64(f.Limit))),
	}
	return tasks, page, nil
}

// GetTask returns a task by id or ErrNotFound.
func (e *Engine) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := e.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &task, nil
}
