package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Gbothemy/taskapp/controllers/admins"
	"github.com/Gbothemy/taskapp/engine"
	"github.com/Gbothemy/taskapp/middleware"
)

// AdminRoutes registers the admin surface: platform stats, user and task
// management, the submission backlog and the withdrawal review queue.
func AdminRoutes(api *mux.Router, e *engine.Engine) {
	adminLimiter := middleware.NewIPRateLimiter(120, time.Minute)

	adminCtl := admins.NewController(e)

	guard := func(h http.HandlerFunc) http.Handler {
		return adminLimiter.Middleware(middleware.AuthMiddleware(middleware.RequireAdmin(h)))
	}

	api.Handle("/admin/stats", guard(adminCtl.Stats)).Methods(http.MethodGet)
	api.Handle("/admin/users", guard(adminCtl.ListUsers)).Methods(http.MethodGet)
	api.Handle("/admin/users/{id:[0-9]+}", guard(adminCtl.UpdateUserStatus)).Methods(http.MethodPut)
	api.Handle("/admin/tasks", guard(adminCtl.ListTasks)).Methods(http.MethodGet)
	api.Handle("/admin/submissions/pending", guard(adminCtl.PendingSubmissions)).Methods(http.MethodGet)
	api.Handle("/admin/withdrawals", guard(adminCtl.ListWithdrawals)).Methods(http.MethodGet)
	api.Handle("/admin/withdrawals/{id:[0-9]+}/approve", guard(adminCtl.ApproveWithdrawal)).Methods(http.MethodPost)
	api.Handle("/admin/withdrawals/{id:[0-9]+}/reject", guard(adminCtl.RejectWithdrawal)).Methods(http.MethodPost)
}
