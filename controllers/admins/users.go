package admins

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Gbothemy/taskapp/controllers"
	"github.com/Gbothemy/taskapp/database"
	"github.com/Gbothemy/taskapp/middleware"
	"github.com/Gbothemy/taskapp/models"
	"github.com/Gbothemy/taskapp/utils"
)

// GET /admin/users?role=&status=&search=&page=&limit=
func (c *Controller) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}

	db := database.DB
	query := db.Model(&models.User{})
	if role := q.Get("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := q.Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := q.Get("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve users"})
		return
	}

	var userList []models.User
	offset := (page - 1) * limit
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&userList).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve users"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"users": userList,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}

type updateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active|suspended|banned"`
}

// PUT /admin/users/{id} — account status override.
func (c *Controller) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user id"})
		return
	}

	var req updateUserStatusRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	user, err := c.engine.SetUserStatus(r.Context(), uint(id), req.Status)
	if err != nil {
		controllers.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "User status updated successfully",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"id":     user.ID,
				"email":  user.Email,
				"status": user.Status,
			},
		},
	})
}
