package engine

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Gbothemy/taskapp/models"
	"github.com/Gbothemy/taskapp/notify"
	"github.com/Gbothemy/taskapp/utils"
)

// DepositFunds credits the wallet immediately and posts a completed deposit
// transaction.
func (e *Engine) DepositFunds(ctx context.Context, userID uint, amount float64, method string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ValidationError("deposit amount must be positive")
	}
	amount = utils.Round2(amount)

	trx := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionDeposit,
		Amount:      amount,
		Status:      models.TransactionStatusCompleted,
		Method:      method,
		Reference:   utils.GenerateReference(userID),
		Description: "Deposit via " + method,
	}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := forUpdate(tx).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", userID, ErrNotFound)
			}
			return err
		}
		if err := tx.Create(trx).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("balance", utils.Round2(user.Balance+amount)).Error
	})
	if err != nil {
		return nil, err
	}
	return trx, nil
}

// RequestWithdrawal debits the wallet optimistically and posts a pending
// withdrawal transaction. The balance check and debit happen under the user
// row lock.
func (e *Engine) RequestWithdrawal(ctx context.Context, userID uint, amount float64, method, details string) (*models.Transaction, error) {
	if amount < e.cfg.MinWithdrawal {
		return nil, ValidationError(fmt.Sprintf("minimum withdrawal amount is %.2f", e.cfg.MinWithdrawal))
	}
	amount = utils.Round2(amount)

	trx := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionWithdrawal,
		Amount:      -amount,
		Status:      models.TransactionStatusPending,
		Method:      method,
		Reference:   utils.GenerateReference(userID),
		Description: "Withdrawal via " + method,
	}
	if details != "" {
		trx.Description = trx.Description + ": " + details
	}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := forUpdate(tx).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", userID, ErrNotFound)
			}
			return err
		}
		if user.Balance < amount {
			return fmt.Errorf("balance %.2f is below requested %.2f: %w", user.Balance, amount, ErrInsufficientFunds)
		}
		if err := tx.Model(&user).Update("balance", utils.Round2(user.Balance-amount)).Error; err != nil {
			return err
		}
		return tx.Create(trx).Error
	})
	if err != nil {
		return nil, err
	}
	return trx, nil
}

// ApproveWithdrawal marks a pending withdrawal completed. The balance was
// already debited at request time, so no wallet change happens here.
func (e *Engine) ApproveWithdrawal(ctx context.Context, transactionID uint) (*models.Transaction, error) {
	var trx models.Transaction

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&trx, transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("withdrawal %d: %w", transactionID, ErrNotFound)
			}
			return err
		}
		if trx.Type != models.TransactionWithdrawal {
			return fmt.Errorf("transaction %d is not a withdrawal: %w", transactionID, ErrNotFound)
		}
		if trx.Status != models.TransactionStatusPending {
			return fmt.Errorf("withdrawal already processed: %w", ErrInvalidState)
		}
		trx.Status = models.TransactionStatusCompleted
		return tx.Save(&trx).Error
	})
	if err != nil {
		return nil, err
	}

	e.notifier.Emit(trx.UserID, notify.EventWithdrawal, map[string]interface{}{
		"transaction_id": trx.ID,
		"status":         trx.Status,
	})
	return &trx, nil
}

// RejectWithdrawal cancels a pending withdrawal and refunds the debited
// amount to the wallet.
func (e *Engine) RejectWithdrawal(ctx context.Context, transactionID uint) (*models.Transaction, error) {
	var trx models.Transaction

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&trx, transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("withdrawal %d: %w", transactionID, ErrNotFound)
			}
			return err
		}
		if trx.Type != models.TransactionWithdrawal {
			return fmt.Errorf("transaction %d is not a withdrawal: %w", transactionID, ErrNotFound)
		}
		if trx.Status != models.TransactionStatusPending {
			return fmt.Errorf("withdrawal already processed: %w", ErrInvalidState)
		}
		trx.Status = models.TransactionStatusCancelled
		if err := tx.Save(&trx).Error; err != nil {
			return err
		}

		var user models.User
		if err := forUpdate(tx).First(&user, trx.UserID).Error; err != nil {
			return err
		}
		// Amount is stored negative on withdrawals; refund the magnitude.
		return tx.Model(&user).Update("balance", utils.Round2(user.Balance-trx.Amount)).Error
	})
	if err != nil {
		return nil, err
	}

	e.notifier.Emit(trx.UserID, notify.EventWithdrawal, map[string]interface{}{
		"transaction_id": trx.ID,
		"status":         trx.Status,
		"refunded":       -trx.Amount,
	})
	return &trx, nil
}
