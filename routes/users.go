package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Gbothemy/taskapp/controllers/auth"
	"github.com/Gbothemy/taskapp/controllers/payments"
	"github.com/Gbothemy/taskapp/controllers/tasks"
	"github.com/Gbothemy/taskapp/controllers/users"
	"github.com/Gbothemy/taskapp/engine"
	"github.com/Gbothemy/taskapp/middleware"
)

// UserRoutes registers the auth, task and payment endpoints.
func UserRoutes(api *mux.Router, e *engine.Engine) {
	// Login/register get a tighter limit than the authenticated surface.
	authLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	apiLimiter := middleware.NewIPRateLimiter(300, time.Minute)

	taskCtl := tasks.NewController(e)
	paymentCtl := payments.NewController(e)
	userCtl := users.NewController(e)

	api.Handle("/auth/register", authLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/auth/login", authLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)

	api.Handle("/users/profile", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(userCtl.Profile)))).Methods(http.MethodGet)
	api.Handle("/users/profile", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(userCtl.UpdateProfile)))).Methods(http.MethodPut)
	api.Handle("/users/password", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(userCtl.UpdatePassword)))).Methods(http.MethodPut)
	api.Handle("/users/dashboard/stats", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(userCtl.DashboardStats)))).Methods(http.MethodGet)
	api.Handle("/users/{id:[0-9]+}", apiLimiter.Middleware(http.HandlerFunc(userCtl.PublicProfile))).Methods(http.MethodGet)

	// Task browsing is public; creation and submission require a role.
	api.Handle("/tasks", apiLimiter.Middleware(http.HandlerFunc(taskCtl.List))).Methods(http.MethodGet)
	api.Handle("/tasks", apiLimiter.Middleware(middleware.AuthMiddleware(middleware.RequireEmployer(http.HandlerFunc(taskCtl.Create))))).Methods(http.MethodPost)
	api.Handle("/tasks/my/tasks", apiLimiter.Middleware(middleware.AuthMiddleware(middleware.RequireEmployer(http.HandlerFunc(taskCtl.MyTasks))))).Methods(http.MethodGet)
	api.Handle("/tasks/my/submissions", apiLimiter.Middleware(middleware.AuthMiddleware(middleware.RequireWorker(http.HandlerFunc(taskCtl.MySubmissions))))).Methods(http.MethodGet)
	api.Handle("/tasks/{id:[0-9]+}", apiLimiter.Middleware(http.HandlerFunc(taskCtl.Get))).Methods(http.MethodGet)
	api.Handle("/tasks/{id:[0-9]+}/submit", apiLimiter.Middleware(middleware.AuthMiddleware(middleware.RequireWorker(http.HandlerFunc(taskCtl.Submit))))).Methods(http.MethodPost)
	api.Handle("/tasks/{id:[0-9]+}/submissions", apiLimiter.Middleware(middleware.AuthMiddleware(middleware.RequireEmployer(http.HandlerFunc(taskCtl.TaskSubmissions))))).Methods(http.MethodGet)

	api.Handle("/payments/wallet", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(paymentCtl.Wallet)))).Methods(http.MethodGet)
	api.Handle("/payments/transactions", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(paymentCtl.Transactions)))).Methods(http.MethodGet)
	api.Handle("/payments/withdraw", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(paymentCtl.Withdraw)))).Methods(http.MethodPost)
	api.Handle("/payments/deposit", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(paymentCtl.Deposit)))).Methods(http.MethodPost)
	api.Handle("/payments/process-task-payment", apiLimiter.Middleware(middleware.AuthMiddleware(middleware.RequireEmployer(http.HandlerFunc(paymentCtl.ProcessTaskPayment))))).Methods(http.MethodPost)
}
