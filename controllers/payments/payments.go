package payments

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Gbothemy/taskapp/controllers"
	"github.com/Gbothemy/taskapp/database"
	"github.com/Gbothemy/taskapp/engine"
	"github.com/Gbothemy/taskapp/middleware"
	"github.com/Gbothemy/taskapp/models"
	"github.com/Gbothemy/taskapp/utils"
)

type Controller struct {
	engine *engine.Engine
}

func NewController(e *engine.Engine) *Controller {
	return &Controller{engine: e}
}

// GET /payments/wallet
func (c *Controller) Wallet(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	wallet, err := c.engine.WalletSnapshot(r.Context(), uid)
	if err != nil {
		controllers.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"wallet": wallet},
	})
}

// GET /payments/transactions?type=&page=&limit=
func (c *Controller) Transactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	txType := q.Get("type")

	db := database.DB
	countQuery := db.Model(&models.Transaction{}).Where("user_id = ?", uid)
	if txType != "" {
		countQuery = countQuery.Where("type = ?", txType)
	}

	var totalRows int64
	if err := countQuery.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve transactions"})
		return
	}

	var transactions []models.Transaction
	query := db.Where("user_id = ?", uid)
	if txType != "" {
		query = query.Where("type = ?", txType)
	}
	offset := (page - 1) * limit
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&transactions).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve transactions"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"transactions": transactions,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
			},
		},
	})
}

type withdrawRequest struct {
	Amount  float64 `json:"amount"`
	Method  string  `json:"method" validate:"required,oneof=paypal|bank_transfer|crypto"`
	Details string  `json:"details"`
}

// POST /payments/withdraw
func (c *Controller) Withdraw(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req withdrawRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	trx, err := c.engine.RequestWithdrawal(r.Context(), uid, req.Amount, req.Method, req.Details)
	if err != nil {
		controllers.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Withdrawal request submitted successfully",
		Data: map[string]interface{}{
			"transaction": map[string]interface{}{
				"id":         trx.ID,
				"reference":  trx.Reference,
				"type":       trx.Type,
				"amount":     trx.Amount,
				"status":     trx.Status,
				"created_at": trx.CreatedAt.Format(time.RFC3339),
			},
		},
	})
}

type depositRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method" validate:"required,oneof=stripe|paypal|demo"`
}

// POST /payments/deposit
func (c *Controller) Deposit(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req depositRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	trx, err := c.engine.DepositFunds(r.Context(), uid, req.Amount, req.Method)
	if err != nil {
		controllers.WriteEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Deposit completed successfully",
		Data:    map[string]interface{}{"transaction": trx},
	})
}

type processPaymentRequest struct {
	SubmissionID uint `json:"submissionId"`
	Approved     bool `json:"approved"`
	Review       *struct {
		Rating   int    `json:"rating"`
		Feedback string `json:"feedback"`
	} `json:"review,omitempty"`
}

// POST /payments/process-task-payment
func (c *Controller) ProcessTaskPayment(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req processPaymentRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.SubmissionID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "submissionId is required"})
		return
	}

	var review *engine.Review
	if req.Review != nil {
		review = &engine.Review{Rating: req.Review.Rating, Feedback: req.Review.Feedback}
	}

	submission, err := c.engine.DecideSubmission(r.Context(), uid, req.SubmissionID, req.Approved, review)
	if err != nil {
		controllers.WriteEngineError(w, err)
		return
	}

	message := "Task rejected successfully"
	if req.Approved {
		message = "Task approved successfully"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: message,
		Data:    map[string]interface{}{"submission": submission},
	})
}
