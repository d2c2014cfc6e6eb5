package models

import "time"

// Role values carried in JWT claims and checked by middleware.
const (
	RoleWorker   = "worker"
	RoleEmployer = "employer"
	RoleAdmin    = "admin"
)

// Account statuses. Suspended and banned accounts cannot log in.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusBanned    = "banned"
)

func ValidUserStatus(s string) bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusBanned:
		return true
	}
	return false
}

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password  string `gorm:"size:255;not null" json:"-"`
	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	Role      string `gorm:"type:varchar(10);not null;index" json:"role"`
	Status    string `gorm:"type:varchar(10);default:'active'" json:"status"`

	Bio      string `gorm:"type:text" json:"bio,omitempty"`
	Location string `gorm:"size:100" json:"location,omitempty"`

	// Wallet is embedded: a running balance plus earning/spending totals.
	// Mutated only inside engine transactions under a row lock.
	// PendingEarnings is derived from the caller's pending submissions at
	// read time, never stored.
	Balance         float64 `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	PendingEarnings float64 `gorm:"-" json:"pending_earnings"`
	TotalEarned     float64 `gorm:"type:decimal(15,2);not null;default:0" json:"total_earned"`
	TotalSpent      float64 `gorm:"type:decimal(15,2);not null;default:0" json:"total_spent"`

	// Worker stats
	TasksCompleted int     `gorm:"not null;default:0" json:"tasks_completed"`
	ApprovalRate   float64 `gorm:"type:decimal(5,2);not null;default:100" json:"approval_rate"`
	WorkerLevel    int     `gorm:"not null;default:1" json:"worker_level"`

	// Employer stats
	TasksPosted int `gorm:"not null;default:0" json:"tasks_posted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Wallet is the snapshot shape returned by GET /payments/wallet.
type Wallet struct {
	Balance         float64 `json:"balance"`
	PendingEarnings float64 `json:"pending_earnings"`
	TotalEarned     float64 `json:"total_earned"`
	TotalSpent      float64 `json:"total_spent"`
}

func (u *User) Wallet() Wallet {
	return Wallet{
		Balance:         u.Balance,
		PendingEarnings: u.PendingEarnings,
		TotalEarned:     u.TotalEarned,
		TotalSpent:      u.TotalSpent,
	}
}
