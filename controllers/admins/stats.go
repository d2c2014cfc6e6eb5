package admins

import (
	"net/http"

	"github.com/Gbothemy/taskapp/database"
	"github.com/Gbothemy/taskapp/models"
	"github.com/Gbothemy/taskapp/utils"
)

// GET /admin/stats — platform-wide aggregates for the admin dashboard.
func (c *Controller) Stats(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	var totalUsers, workers, employers int64
	db.Model(&models.User{}).Count(&totalUsers)
	db.Model(&models.User{}).Where("role = ?", models.RoleWorker).Count(&workers)
	db.Model(&models.User{}).Where("role = ?", models.RoleEmployer).Count(&employers)

	var totalTasks, activeTasks, completedTasks int64
	db.Model(&models.Task{}).Count(&totalTasks)
	db.Model(&models.Task{}).Where("status = ?", models.TaskStatusActive).Count(&activeTasks)
	db.Model(&models.Task{}).Where("status = ?", models.TaskStatusCompleted).Count(&completedTasks)

	var totalSubmissions, pendingSubmissions, approvedSubmissions, rejectedSubmissions int64
	db.Model(&models.Submission{}).Count(&totalSubmissions)
	db.Model(&models.Submission{}).Where("status = ?", models.SubmissionStatusPending).Count(&pendingSubmissions)
	db.Model(&models.Submission{}).Where("status = ?", models.SubmissionStatusApproved).Count(&approvedSubmissions)
	db.Model(&models.Submission{}).Where("status = ?", models.SubmissionStatusRejected).Count(&rejectedSubmissions)

	var totalVolume, platformFees float64
	db.Model(&models.Transaction{}).
		Where("type = ? AND status = ?", models.TransactionTaskPayment, models.TransactionStatusCompleted).
		Select("COALESCE(SUM(amount),0)").Scan(&totalVolume)
	db.Model(&models.Transaction{}).
		Where("type = ? AND status = ?", models.TransactionPlatformFee, models.TransactionStatusCompleted).
		Select("COALESCE(SUM(-amount),0)").Scan(&platformFees)

	approvalRate := 0.0
	if totalSubmissions > 0 {
		approvalRate = float64(approvedSubmissions) / float64(totalSubmissions) * 100
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"users": map[string]interface{}{
				"total":     totalUsers,
				"workers":   workers,
				"employers": employers,
			},
			"tasks": map[string]interface{}{
				"total":     totalTasks,
				"active":    activeTasks,
				"completed": completedTasks,
			},
			"submissions": map[string]interface{}{
				"total":         totalSubmissions,
				"pending":       pendingSubmissions,
				"approved":      approvedSubmissions,
				"rejected":      rejectedSubmissions,
				"approval_rate": approvalRate,
			},
			"financial": map[string]interface{}{
				"total_volume":  totalVolume,
				"platform_fees": platformFees,
			},
		},
	})
}
