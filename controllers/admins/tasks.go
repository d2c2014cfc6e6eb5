package admins

import (
	"math"
	"net/http"
	"strconv"

	"github.com/Gbothemy/taskapp/database"
	"github.com/Gbothemy/taskapp/models"
	"github.com/Gbothemy/taskapp/utils"
)

func userSummary(u models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
	}
}

func loadUserSummaries(ids []uint) map[uint]map[string]interface{} {
	out := map[uint]map[string]interface{}{}
	if len(ids) == 0 {
		return out
	}
	var userList []models.User
	database.DB.Where("id IN ?", ids).Find(&userList)
	for _, u := range userList {
		out[u.ID] = userSummary(u)
	}
	return out
}

// GET /admin/tasks?status=&category=&page=&limit= — all tasks with employer info.
func (c *Controller) ListTasks(w http.ResponseWriter, r *http.Request) {
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
	query := db.Model(&models.Task{})
	if status := q.Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if category := q.Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve tasks"})
		return
	}

	var taskList []models.Task
	offset := (page - 1) * limit
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&taskList).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve tasks"})
		return
	}

	employerIDs := make([]uint, 0, len(taskList))
	for _, t := range taskList {
		employerIDs = append(employerIDs, t.EmployerID)
	}
	employers := loadUserSummaries(employerIDs)

	items := make([]map[string]interface{}, 0, len(taskList))
	for _, t := range taskList {
		item := map[string]interface{}{"task": t}
		if e, ok := employers[t.EmployerID]; ok {
			item["employer"] = e
		}
		items = append(items, item)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"tasks": items,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}

// GET /admin/submissions/pending — platform-wide review backlog, oldest first.
func (c *Controller) PendingSubmissions(w http.ResponseWriter, r *http.Request) {
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
	query := db.Model(&models.Submission{}).Where("status = ?", models.SubmissionStatusPending)

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve submissions"})
		return
	}

	var submissions []models.Submission
	offset := (page - 1) * limit
	if err := query.Order("submitted_at ASC").Limit(limit).Offset(offset).Find(&submissions).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve submissions"})
		return
	}

	taskIDs := make([]uint, 0, len(submissions))
	userIDs := make([]uint, 0, 2*len(submissions))
	for _, s := range submissions {
		taskIDs = append(taskIDs, s.TaskID)
		userIDs = append(userIDs, s.WorkerID, s.EmployerID)
	}
	taskByID := map[uint]models.Task{}
	if len(taskIDs) > 0 {
		var relatedTasks []models.Task
		db.Where("id IN ?", taskIDs).Find(&relatedTasks)
		for _, t := range relatedTasks {
			taskByID[t.ID] = t
		}
	}
	userByID := loadUserSummaries(userIDs)

	items := make([]map[string]interface{}, 0, len(submissions))
	for _, s := range submissions {
		item := map[string]interface{}{"submission": s}
		if t, ok := taskByID[s.TaskID]; ok {
			item["task"] = map[string]interface{}{
				"id":       t.ID,
				"title":    t.Title,
				"category": t.Category,
			}
		}
		if u, ok := userByID[s.WorkerID]; ok {
			item["worker"] = u
		}
		if u, ok := userByID[s.EmployerID]; ok {
			item["employer"] = u
		}
		items = append(items, item)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"submissions": items,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}
