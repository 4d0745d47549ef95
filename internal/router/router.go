// Package router assembles the Gin engine serving the Xchange API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Micolomike/Xchange/internal/docs" // swagger spec
	"github.com/Micolomike/Xchange/internal/handlers"
	"github.com/Micolomike/Xchange/internal/middleware"
	"github.com/Micolomike/Xchange/internal/services"
)

// Options configures the HTTP surface.
type Options struct {
	CORSOrigin  string
	AdminAPIKey string
	Session     middleware.SessionOptions
}

// Services are the business services the handlers delegate to.
type Services struct {
	Tickets  services.TicketServicer
	Users    services.UserServicer
	Sessions services.SessionServicer
	Audit    services.AuditServicer
	Admin    services.AdminServicer
}

// New builds the engine with every route mounted under /api.
func New(opts Options, svc Services) *gin.Engine {
	ticketHandler := handlers.NewTicketHandler(svc.Tickets)
	userHandler := handlers.NewUserHandler(svc.Users)
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Sessions, opts.Session)
	logHandler := handlers.NewLogHandler(svc.Audit)
	adminHandler := handlers.NewAdminHandler(svc.Admin)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.CORSOrigin))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(middleware.LoadSession(opts.Session, svc.Sessions))

	// Tickets
	api.GET("/tickets", ticketHandler.ListTickets)
	api.POST("/tickets", ticketHandler.CreateTicket)
	api.GET("/tickets/:id", ticketHandler.GetTicket)
	api.PUT("/tickets/:id", ticketHandler.UpdateTicket)
	api.DELETE("/tickets/:id", ticketHandler.DeleteTicket)
	api.GET("/logs/deleted", logHandler.ListDeleted)

	// Auth
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/me", middleware.RequireSession(), authHandler.Me)

	// Users
	api.POST("/users", userHandler.CreateUser)
	api.GET("/users", userHandler.ListUsers)
	api.GET("/users/:id", userHandler.GetUser)
	api.PUT("/users/:id", userHandler.UpdateUser)
	api.DELETE("/users/:id", userHandler.DeleteUser)

	// Admin
	admin := api.Group("/admin", middleware.AdminKeyMiddleware(opts.AdminAPIKey))
	admin.GET("/tables", adminHandler.ListTables)
	admin.GET("/table/:table", adminHandler.DescribeTable)
	admin.PUT("/table/:table/:id", adminHandler.UpdateRow)
	admin.DELETE("/table/:table/:id", adminHandler.DeleteRow)
	admin.GET("/deleted-logs", logHandler.ListDeleted)
	admin.DELETE("/deleted-logs/:index", logHandler.RemoveDeleted)

	return router
}
