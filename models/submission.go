package models

import "time"

// Submission statuses. A submission is decided at most once: pending is the
// only mutable state.
const (
	SubmissionStatusPending      = "pending"
	SubmissionStatusApproved     = "approved"
	SubmissionStatusRejected     = "rejected"
	SubmissionStatusAutoApproved = "auto-approved"
)

type Submission struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	TaskID     uint `gorm:"not null;index;uniqueIndex:idx_task_worker" json:"task_id"`
	WorkerID   uint `gorm:"not null;index;uniqueIndex:idx_task_worker" json:"worker_id"`
	EmployerID uint `gorm:"not null;index" json:"employer_id"`

	ProofType    string `gorm:"type:varchar(10);not null" json:"proof_type"`
	ProofContent string `gorm:"type:text;not null" json:"proof_content"`

	Status string `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	// Payout breakdown, computed at submission time and reused at approval.
	Amount        float64 `gorm:"type:decimal(15,2);not null" json:"amount"`
	PlatformFee   float64 `gorm:"type:decimal(15,2);not null" json:"platform_fee"`
	WorkerEarning float64 `gorm:"type:decimal(15,2);not null" json:"worker_earning"`

	ReviewRating   *int    `gorm:"null" json:"review_rating,omitempty"`
	ReviewFeedback *string `gorm:"type:text" json:"review_feedback,omitempty"`

	SubmittedAt time.Time  `gorm:"not null" json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Submission) TableName() string {
	return "submissions"
}

// Decided reports whether the submission has left the pending state.
func (s *Submission) Decided() bool {
	return s.Status != SubmissionStatusPending
}
