package models

import "time"

// Transaction types. The ledger is append-only: amount and type never change
// after creation, only status may transition.
const (
	TransactionTaskPayment = "task_payment"
	TransactionWithdrawal  = "withdrawal"
	TransactionDeposit     = "deposit"
	TransactionRefund      = "refund"
	TransactionPlatformFee = "platform_fee"
)

// Transaction statuses.
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

type Transaction struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    uint    `gorm:"not null;index" json:"user_id"`
	Type      string  `gorm:"type:varchar(20);not null;index" json:"type"`
	Amount    float64 `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency  string  `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Status    string  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Method    string  `gorm:"type:varchar(50)" json:"method,omitempty"`
	Reference string  `gorm:"type:varchar(191);not null;uniqueIndex" json:"reference"`

	RelatedTaskID       *uint `gorm:"index" json:"related_task_id,omitempty"`
	RelatedSubmissionID *uint `gorm:"index" json:"related_submission_id,omitempty"`

	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
