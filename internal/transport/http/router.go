// Package http wires the application services into a gin router. All
// business rules live below the services; handlers only translate
// between HTTP and domain types.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups the resource handlers behind the router
type Handlers struct {
	Projects       *ProjectHandler
	Invoices       *InvoiceHandler
	Expenses       *ExpenseHandler
	BudgetRequests *BudgetRequestHandler
}

// NewRouter builds the HTTP routing tree
func NewRouter(h Handlers, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "invoice-backend",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api/v1")
	api.Use(actorMiddleware())
	{
		projects := api.Group("/projects")
		{
			projects.POST("", h.Projects.Create)
			projects.GET("", h.Projects.List)
			projects.GET("/:id", h.Projects.Get)
			projects.GET("/:id/plan", h.Projects.GetPlan)
			projects.PUT("/:id/plan", h.Projects.ReplacePlan)
		}

		invoices := api.Group("/invoices")
		{
			invoices.POST("", h.Invoices.Create)
			invoices.GET("", h.Invoices.List)
			invoices.GET("/:id", h.Invoices.Get)
			invoices.POST("/:id/approve", h.Invoices.Approve)
			invoices.POST("/:id/reject", h.Invoices.Reject)
			invoices.DELETE("/:id", h.Invoices.Delete)
			invoices.POST("/:id/payments", h.Invoices.RecordPayment)
			invoices.GET("/:id/payments", h.Invoices.ListPayments)
			invoices.DELETE("/:id/payments/:paymentID", h.Invoices.DeletePayment)
		}

		expenses := api.Group("/expenses")
		{
			expenses.POST("", h.Expenses.Create)
			expenses.GET("", h.Expenses.List)
			expenses.GET("/:id", h.Expenses.Get)
			expenses.POST("/:id/approve", h.Expenses.Approve)
			expenses.POST("/:id/reject", h.Expenses.Reject)
			expenses.DELETE("/:id", h.Expenses.Delete)
		}

		requests := api.Group("/budget-requests")
		{
			requests.POST("", h.BudgetRequests.Create)
			requests.GET("", h.BudgetRequests.List)
			requests.GET("/:id", h.BudgetRequests.Get)
			requests.POST("/:id/approve", h.BudgetRequests.Approve)
			requests.POST("/:id/reject", h.BudgetRequests.Reject)
			requests.DELETE("/:id", h.BudgetRequests.Delete)
		}

		// Exports live on their own prefix; a static /export segment
		// under a resource would collide with its :id route.
		exports := api.Group("/exports")
		{
			exports.GET("/invoices", h.Invoices.Export)
			exports.GET("/expenses", h.Expenses.Export)
		}

		api.GET("/dashboard", h.Projects.Dashboard)
	}

	return router
}
