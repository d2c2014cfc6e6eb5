package engine

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Gbothemy/taskapp/models"
	"github.com/Gbothemy/taskapp/notify"
)

// SetUserStatus applies an admin account-status override (active, suspended
// or banned) and notifies the affected user.
func (e *Engine) SetUserStatus(ctx context.Context, userID uint, status string) (*models.User, error) {
	if !models.ValidUserStatus(status) {
		return nil, ValidationError("invalid status")
	}

	var user models.User
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", userID, ErrNotFound)
			}
			return err
		}
		user.Status = status
		return tx.Model(&user).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}

	e.notifier.Emit(userID, notify.EventAccountStatus, map[string]interface{}{
		"status":  status,
		"message": "Your account status has been changed to " + status,
	})
	return &user, nil
}
