package tasks

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Gbothemy/taskapp/controllers"
	"github.com/Gbothemy/taskapp/engine"
	"github.com/Gbothemy/taskapp/middleware"
	"github.com/Gbothemy/taskapp/utils"
)

type Controller struct {
	engine *engine.Engine
}

func NewController(e *engine.Engine) *Controller {
	return &Controller{engine: e}
}

type createTaskRequest struct {
	Title             string  `json:"title" validate:"required"`
	Description       string  `json:"description" validate:"required"`
	Instructions      string  `json:"instructions" validate:"required"`
	Category          string  `json:"category" validate:"required,oneof=data-entry|content|review|research|testing|design|other"`
	PayoutPerTask     float64 `json:"payout_per_task"`
	TotalTasksNeeded  int     `json:"total_tasks_needed"`
	Deadline          string  `json:"deadline" validate:"required"`
	RequiredProofType string  `json:"required_proof_type" validate:"required,oneof=image|text|url|file"`
	MinApprovalRate   float64 `json:"min_approval_rate"`
	MinWorkerLevel    int     `json:"min_worker_level"`
}

// POST /tasks
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req createTaskRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "deadline must be an RFC3339 timestamp"})
		return
	}

	task, err := c.engine.CreateTask(r.Context(), uid, engine.TaskSpec{
		Title:             req.Title,
		Description:       req.Description,
		Instructions:      req.Instructions,
		Category:          req.Category,
		PayoutPerTask:     req.PayoutPerTask,
		TotalTasksNeeded:  req.TotalTasksNeeded,
		Deadline:          deadline,
		RequiredProofType: req.RequiredProofType,
		MinApprovalRate:   req.MinApprovalRate,
		MinWorkerLevel:    req.MinWorkerLevel,
	})
	if err != nil {
		controllers.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Task created successfully",
		Data:    map[string]interface{}{"task": task},
	})
}

// GET /tasks
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := engine.TaskFilter{
		Status:    q.Get("status"),
		Category:  q.Get("category"),
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	if s := q.Get("minPayout"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.MinPayout = &v
		}
	}
	if s := q.Get("maxPayout"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.MaxPayout = &v
		}
	}

	tasksList, page, err := c.engine.ListTasks(r.Context(), f)
	if err != nil {
		controllers.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"tasks":      tasksList,
			"pagination": page,
		},
	})
}

// GET /tasks/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	task, err := c.engine.GetTask(r.Context(), uint(id))
	if err != nil {
		controllers.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"task": task},
	})
}

type submitProofRequest struct {
	ProofData struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	} `json:"proofData"`
}

// POST /tasks/{id}/submit
func (c *Controller) Submit(w http.ResponseWriter, r *http.Request) {
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

	var req submitProofRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	submission, err := c.engine.SubmitProof(r.Context(), uid, uint(id), engine.Proof{
		Type:    req.ProofData.Type,
		Content: req.ProofData.Content,
	})
	if err != nil {
		controllers.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Task submitted successfully",
		Data:    map[string]interface{}{"submission": submission},
	})
}
