package handlers

import (
	"github.com/gin-gonic/gin"

	"go-invoice-api/internal/logger"
	"go-invoice-api/internal/middleware"
)

// Router bundles everything NewRouter needs.
type Router struct {
	Users       *UserHandler
	Companies   *CompanyHandler
	Invoices    *InvoiceHandler
	Assistant   *AssistantHandler
	Auth        middleware.TokenValidator
	DB          Pinger
	UploadDir   string
	CORSOrigins []string
	Log         *logger.Logger
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(rt Router) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(rt.Log))
	r.Use(middleware.CORS(rt.CORSOrigins))
	r.MaxMultipartMemory = 8 << 20

	r.GET("/health", Health(rt.DB))
	if rt.UploadDir != "" {
		r.Static("/uploads", rt.UploadDir)
	}

	api := r.Group("/api")
	requireAuth := middleware.AuthMiddleware(rt.Auth)

	users := api.Group("/users")
	{
		users.POST("/register", rt.Users.Register)
		users.POST("/login", rt.Users.Login)
		users.POST("/logout", requireAuth, rt.Users.Logout)
		users.GET("/me", requireAuth, rt.Users.Me)
		users.PUT("/:id", requireAuth, rt.Users.Update)
		users.DELETE("/:id", requireAuth, rt.Users.Delete)
	}

	companies := api.Group("/companies", requireAuth)
	{
		companies.POST("", rt.Companies.Create)
		companies.GET("", rt.Companies.List)
		companies.GET("/:id", rt.Companies.Get)
		companies.PUT("/:id", rt.Companies.Update)
		companies.DELETE("/:id", rt.Companies.Delete)
	}

	invoices := api.Group("/invoices", requireAuth)
	{
		invoices.POST("", rt.Invoices.Create)
		invoices.GET("/user", rt.Invoices.ListMine)
		invoices.GET("/summary", rt.Invoices.Summary)
		invoices.GET("/company/:companyId", rt.Invoices.ListByCompany)
		invoices.GET("/:id", rt.Invoices.Get)
		invoices.PUT("/:id", rt.Invoices.Update)
		invoices.DELETE("/:id", rt.Invoices.Delete)
		invoices.PUT("/:id/items/:itemId", rt.Invoices.UpdateItem)
		invoices.DELETE("/:id/items/:itemId", rt.Invoices.DeleteItem)
	}

	if rt.Assistant != nil {
		api.POST("/assistant/ask", requireAuth, rt.Assistant.Ask)
	}
	return r
}
