package models

import "time"

// Task statuses. Only "active" tasks accept submissions.
const (
	TaskStatusDraft     = "draft"
	TaskStatusActive    = "active"
	TaskStatusPaused    = "paused"
	TaskStatusCompleted = "completed"
	TaskStatusCancelled = "cancelled"
)

// TaskCategories are the allowed category values for tasks.
var TaskCategories = []string{"data-entry", "content", "review", "research", "testing", "design", "other"}

// ProofTypes are the allowed proof payload types.
var ProofTypes = []string{"image", "text", "url", "file"}

type Task struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	EmployerID   uint   `gorm:"not null;index" json:"employer_id"`
	Title        string `gorm:"size:200;not null" json:"title"`
	Description  string `gorm:"type:text;not null" json:"description"`
	Instructions string `gorm:"type:text;not null" json:"instructions"`
	Category     string `gorm:"type:varchar(50);not null;index" json:"category"`

	PayoutPerTask    float64 `gorm:"type:decimal(15,2);not null" json:"payout_per_task"`
	TotalTasksNeeded int     `gorm:"not null" json:"total_tasks_needed"`
	CompletedTasks   int     `gorm:"not null;default:0" json:"completed_tasks"`
	ApprovedTasks    int     `gorm:"not null;default:0" json:"approved_tasks"`
	RejectedTasks    int     `gorm:"not null;default:0" json:"rejected_tasks"`

	Deadline          time.Time `gorm:"not null" json:"deadline"`
	Status            string    `gorm:"type:varchar(20);default:'active';index" json:"status"`
	RequiredProofType string    `gorm:"type:varchar(10);not null" json:"required_proof_type"`

	// Quality requirements
	MinApprovalRate float64 `gorm:"type:decimal(5,2);not null;default:80" json:"min_approval_rate"`
	MinWorkerLevel  int     `gorm:"not null;default:1" json:"min_worker_level"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// RemainingTasks reports how many submission slots are still open.
func (t *Task) RemainingTasks() int {
	if n := t.TotalTasksNeeded - t.CompletedTasks; n > 0 {
		return n
	}
	return 0
}

func ValidCategory(c string) bool {
	for _, v := range TaskCategories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidProofType(p string) bool {
	for _, v := range ProofTypes {
		if v == p {
			return true
		}
	}
	return false
}
