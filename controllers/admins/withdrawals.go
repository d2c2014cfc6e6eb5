package admins

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Gbothemy/taskapp/controllers"
	"github.com/Gbothemy/taskapp/database"
	"github.com/Gbothemy/taskapp/engine"
	"github.com/Gbothemy/taskapp/models"
	"github.com/Gbothemy/taskapp/utils"
)

type Controller struct {
	engine *engine.Engine
}

func NewController(e *engine.Engine) *Controller {
	return &Controller{engine: e}
}

// GET /admin/withdrawals?status=&user_id=&page=&limit=
func (c *Controller) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	status := q.Get("status")
	if status == "" {
		status = models.TransactionStatusPending
	}

	db := database.DB
	query := db.Model(&models.Transaction{}).Where("type = ?", models.TransactionWithdrawal).
		Where("status = ?", status)
	if userID := q.Get("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawals"})
		return
	}

	var withdrawals []models.Transaction
	offset := (page - 1) * limit
	if err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&withdrawals).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawals"})
		return
	}

	items := make([]map[string]interface{}, 0, len(withdrawals))
	for _, t := range withdrawals {
		items = append(items, map[string]interface{}{
			"id":         t.ID,
			"user_id":    t.UserID,
			"amount":     -t.Amount,
			"method":     t.Method,
			"reference":  t.Reference,
			"status":     t.Status,
			"created_at": t.CreatedAt.Format(time.RFC3339),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"withdrawals": items,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}

// POST /admin/withdrawals/{id}/approve
func (c *Controller) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid withdrawal id"})
		return
	}

	trx, err := c.engine.ApproveWithdrawal(r.Context(), uint(id))
	if err != nil {
		controllers.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Withdrawal approved",
		Data:    map[string]interface{}{"id": trx.ID, "status": trx.Status},
	})
}

// POST /admin/withdrawals/{id}/reject
func (c *Controller) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid withdrawal id"})
		return
	}

	trx, err := c.engine.RejectWithdrawal(r.Context(), uint(id))
	if err != nil {
		controllers.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Withdrawal rejected and refunded",
		Data:    map[string]interface{}{"id": trx.ID, "status": trx.Status},
	})
}
