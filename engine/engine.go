// Package engine implements the task lifecycle and payout settlement flow:
// task creation, proof submission, review decisions, ledger postings and
// wallet updates. Every mutating operation runs inside a single database
// transaction with row locks on the records it rewrites, so concurrent
// decisions or submissions cannot double-pay or overshoot task capacity.
package engine

import (
	"os"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Gbothemy/taskapp/notify"
)

type Config struct {
	// FeePercent is the platform fee percentage deducted from each payout.
	FeePercent float64
	// MinWithdrawal is the smallest amount a user may withdraw.
	MinWithdrawal float64
}

// ConfigFromEnv reads PLATFORM_FEE_PERCENTAGE (default 5) and
// MIN_WITHDRAWAL_AMOUNT (default 10).
func ConfigFromEnv() Config {
	return Config{
		FeePercent:    envFloat("PLATFORM_FEE_PERCENTAGE", 5),
		MinWithdrawal: envFloat("MIN_WITHDRAWAL_AMOUNT", 10),
	}
}

type Engine struct {
	db       *gorm.DB
	cfg      Config
	notifier notify.Emitter
}

func New(db *gorm.DB, cfg Config, notifier notify.Emitter) *Engine {
	if notifier == nil {
		notifier = notify.LogEmitter{}
	}
	return &Engine{db: db, cfg: cfg, notifier: notifier}
}

func envFloat(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// forUpdate applies a SELECT ... FOR UPDATE row lock. sqlite has no row-level
// locks and serializes writers on its own, so the clause is skipped there.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
