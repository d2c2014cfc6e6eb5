package tasks

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Gbothemy/taskapp/database"
	"github.com/Gbothemy/taskapp/models"
	"github.com/Gbothemy/taskapp/utils"
)

// GET /tasks/my/tasks
func (c *Controller) MyTasks(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var taskList []models.Task
	if err := db.Where("employer_id = ?", uid).Order("id DESC").Find(&taskList).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve tasks"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"tasks": taskList},
	})
}

// GET /tasks/my/submissions
func (c *Controller) MySubmissions(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var submissions []models.Submission
	if err := db.Where("worker_id = ?", uid).Order("id DESC").Find(&submissions).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve submissions"})
		return
	}

	// Attach a task summary to each submission
	taskIDs := make([]uint, 0, len(submissions))
	for _, s := range submissions {
		taskIDs = append(taskIDs, s.TaskID)
	}
	taskByID := map[uint]models.Task{}
	if len(taskIDs) > 0 {
		var relatedTasks []models.Task
		db.Where("id IN ?", taskIDs).Find(&relatedTasks)
		for _, t := range relatedTasks {
			taskByID[t.ID] = t
		}
	}

	items := make([]map[string]interface{}, 0, len(submissions))
	for _, s := range submissions {
		item := map[string]interface{}{
			"submission": s,
		}
		if t, ok := taskByID[s.TaskID]; ok {
			item["task"] = map[string]interface{}{
				"id":       t.ID,
				"title":    t.Title,
				"category": t.Category,
			}
		}
		items = append(items, item)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"submissions": items},
	})
}

// GET /tasks/{id}/submissions — review queue for the task's employer
func (c *Controller) TaskSubmissions(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	db := database.DB
	var task models.Task
	if err := db.First(&task, uint(id)).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
		return
	}
	if task.EmployerID != uid {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
		return
	}

	query := db.Where("task_id = ?", task.ID)
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var submissions []models.Submission
	if err := query.Order("id ASC").Find(&submissions).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve submissions"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"submissions": submissions},
	})
}
