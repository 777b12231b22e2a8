package router

import (
	"easyloan/internal/app"
	"easyloan/internal/app/handlers"
	"easyloan/internal/app/middleware"
	"easyloan/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
)

// Services are the application services the HTTP layer exposes.
type Services struct {
	Loans        app.LoanService
	Repayments   app.RepaymentService
	Transactions app.TransactionService
	Settings     app.SettingsService
	EventRetry   app.EventRetryService
	Uploader     app.FileUploader
}

func SetupRouter(cfg *config.AppConfig, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	meter := otel.Meter(cfg.Server.ServiceName)
	r.Use(otelgin.Middleware(cfg.Server.ServiceName))
	r.Use(middleware.NewMetricMiddleware(meter))
	r.Use(middleware.AttachRequestDetails())

	uploads := handlers.NewUploads(svc.Uploader, cfg.GCS.MaxUploadMB)
	loanHandler := handlers.NewLoanHandler(svc.Loans, uploads, cfg.GCS.DocumentsPath)
	repaymentHandler := handlers.NewRepaymentHandler(svc.Repayments, uploads, cfg.GCS.EvidencePath)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions)
	settingsHandler := handlers.NewSettingsHandler(svc.Settings)
	retryHandler := handlers.NewEventRetryHandler(svc.EventRetry)
	healthCheckHandler := handlers.NewHealthCheckHandler()

	authenticated := middleware.Authenticate(cfg.Auth.JWTSecret)
	adminOnly := middleware.AdminOnly()

	r.GET("/health", healthCheckHandler.HealthCheck)

	api := r.Group("/api")

	loans := api.Group("/loans")
	loans.GET("/offers", loanHandler.ListOffers)
	loans.GET("", authenticated, adminOnly, loanHandler.ListLoans)
	loans.GET("/dashboard-data", authenticated, adminOnly, loanHandler.AdminDashboard)
	loans.GET("/user-dashboard-data", authenticated, loanHandler.UserDashboard)
	loans.POST("", authenticated, adminOnly, loanHandler.CreateOffer)
	loans.POST("/apply", authenticated, loanHandler.Apply)
	loans.PATCH("/reject/:id", authenticated, adminOnly, loanHandler.RejectLoan)
	loans.GET("/:id", authenticated, loanHandler.GetLoan)
	loans.PUT("/:id", authenticated, loanHandler.UpdateLoan)
	loans.PUT("/:id/status", authenticated, adminOnly, loanHandler.UpdateStatus)
	loans.DELETE("/:id", authenticated, adminOnly, loanHandler.DeleteLoan)

	repayments := api.Group("/repayments", authenticated)
	repayments.POST("", repaymentHandler.CreateRepayment)
	repayments.GET("", adminOnly, repaymentHandler.GetAllRepayments)
	repayments.GET("/user/:userId", repaymentHandler.GetRepaymentsByUser)
	repayments.GET("/loan/:loanId", repaymentHandler.GetRepaymentsByLoan)
	repayments.GET("/:id", repaymentHandler.GetRepaymentByID)
	repayments.PUT("/:id", adminOnly, repaymentHandler.UpdateRepayment)
	repayments.DELETE("/:id", adminOnly, repaymentHandler.DeleteRepayment)

	transactions := api.Group("/transactions", authenticated)
	transactions.GET("/loan/:loanId", transactionHandler.GetTransactionsByLoan)
	transactions.POST("", adminOnly, transactionHandler.CreateTransaction)
	transactions.GET("", adminOnly, transactionHandler.GetAllTransactions)
	transactions.GET("/user/:userId", adminOnly, transactionHandler.GetTransactionsByUser)
	transactions.GET("/:id", adminOnly, transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", adminOnly, transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", adminOnly, transactionHandler.DeleteTransaction)

	settings := api.Group("/settings")
	settings.GET("", settingsHandler.Get)
	settings.POST("", authenticated, adminOnly, settingsHandler.Create)
	settings.PUT("", authenticated, adminOnly, settingsHandler.Update)

	api.POST("/events/retry", authenticated, adminOnly, retryHandler.RetryPendingEvents)

	return r
}
