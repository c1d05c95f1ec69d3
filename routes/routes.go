package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/configs"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/controllers"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/middlewares"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/logger"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/metrics"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/services"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/ws"
)

const (
	admin   = entity.RoleAdmin
	manager = entity.RoleManager
)

// Services bundles every application service built on one database handle.
type Services struct {
	Auth       *services.AuthService
	Employees  *services.EmployeeService
	Customers  *services.CustomerService
	Calendar   *services.CalendarService
	Checklists *services.ChecklistService
	Onboarding *services.OnboardingService
	Social     *services.SocialService
	Warnings   *services.WarningService
}

// NewServices wires repositories into services. A nil notifier disables live events.
func NewServices(db *gorm.DB, cfg *configs.Config, notifier services.Notifier) *Services {
	users := repository.NewUserRepository(db)
	customers := repository.NewCustomerRepository(db)
	onboarding := repository.NewOnboardingRepository(db)

	return &Services{
		Auth:      services.NewAuthService(users, cfg.JWTSecret, cfg.SessionTTL),
		Employees: services.NewEmployeeService(db, users, onboarding, nil),
		Customers: services.NewCustomerService(db, customers, repository.NewTagRepository(db), nil),
		Calendar: services.NewCalendarService(db,
			repository.NewReservationRepository(db),
			repository.NewCapacityRepository(db),
			customers, cfg.Location(), notifier, nil),
		Checklists: services.NewChecklistService(db,
			repository.NewChecklistRepository(db),
			repository.NewAuditLogRepository(db),
			users, notifier, nil),
		Onboarding: services.NewOnboardingService(db, onboarding, users, cfg.UploadDir, nil),
		Social:     services.NewSocialService(db, repository.NewSocialRepository(db), cfg.UploadDir, notifier, nil),
		Warnings:   services.NewWarningService(db, repository.NewWarningRepository(db), users, notifier, nil),
	}
}

// NewRouter builds the engine with the global middleware chain and every route.
func NewRouter(cfg *configs.Config, svc *Services, hub *ws.LiveHub) *gin.Engine {
	r := gin.New()
	r.Use(
		middlewares.RequestID(),
		middlewares.RequestLogger(logger.L()),
		middlewares.Recovery(),
		metrics.NewHTTPMetrics("lzhub").Middleware(),
		middlewares.CORSMiddleware(cfg.CORSOrigins),
	)
	RegisterRoutes(r, cfg, svc, hub)
	return r
}

func RegisterRoutes(r *gin.Engine, cfg *configs.Config, svc *Services, hub *ws.LiveHub) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.Static("/uploads", cfg.UploadDir)

	// Controllers
	authCtrl := controllers.NewAuthController(svc.Auth, controllers.SessionCookie{
		Name: cfg.SessionCookie, Secure: cfg.CookieSecure, TTL: cfg.SessionTTL,
	})
	empCtrl := controllers.NewEmployeeController(svc.Employees)
	calCtrl := controllers.NewCalendarController(svc.Customers, svc.Calendar)
	chkCtrl := controllers.NewChecklistController(svc.Checklists)
	onbCtrl := controllers.NewOnboardingController(svc.Onboarding)
	socCtrl := controllers.NewSocialController(svc.Social)
	warnCtrl := controllers.NewWarningController(svc.Warnings)

	session := middlewares.ActiveSession(svc.Auth)

	if hub != nil {
		r.GET("/ws/live", middlewares.WSAuthMiddleware(cfg.JWTSecret, cfg.SessionCookie), session, hub.HandleWebSocket)
	}

	// Auth (public)
	a := r.Group("/api/auth")
	{
		a.POST("/login", authCtrl.Login)
		a.POST("/logout", authCtrl.Logout)
	}

	// Everything else needs an active session.
	api := r.Group("/api", middlewares.AuthMiddleware(cfg.JWTSecret, cfg.SessionCookie), session)

	me := api.Group("/auth")
	{
		me.GET("/me", authCtrl.Me)
		me.PATCH("/me", authCtrl.UpdateMe)
		me.POST("/password", authCtrl.ChangePassword)
	}

	// Employees (admin/manager; deactivation admin only)
	emp := api.Group("/employees", middlewares.RequireRoles(admin, manager))
	{
		emp.GET("", empCtrl.List)
		emp.GET("/:id", empCtrl.Get)
		emp.POST("", empCtrl.Create)
		emp.PUT("/:id", empCtrl.Update)
		emp.DELETE("/:id", middlewares.RequireRoles(admin), empCtrl.Delete)
	}

	// Calendar (staff; capacity changes admin/manager)
	cal := api.Group("/calendar")
	{
		cal.GET("/customers", calCtrl.ListCustomers)
		cal.POST("/customers", calCtrl.CreateCustomer)
		cal.GET("/customers/:id", calCtrl.GetCustomer)
		cal.PUT("/customers/:id", calCtrl.UpdateCustomer)
		cal.DELETE("/customers/:id", calCtrl.DeleteCustomer)
		cal.POST("/customers/:id/tags", calCtrl.AddCustomerTag)
		cal.DELETE("/customers/:id/tags/:tagId", calCtrl.RemoveCustomerTag)

		cal.GET("/tags", calCtrl.ListTags)
		cal.POST("/tags", calCtrl.CreateTag)
		cal.DELETE("/tags/:id", calCtrl.DeleteTag)

		cal.GET("/reservations", calCtrl.ListReservations)
		cal.POST("/reservations", calCtrl.CreateReservation)
		cal.GET("/reservations/:id", calCtrl.GetReservation)
		cal.PUT("/reservations/:id", calCtrl.UpdateReservation)
		cal.PATCH("/reservations/:id/status", calCtrl.ChangeReservationStatus)
		cal.DELETE("/reservations/:id", calCtrl.DeleteReservation)

		cal.GET("/availability", calCtrl.Availability)
		cal.GET("/capacity", calCtrl.GetCapacity)
		cal.PUT("/capacity", middlewares.RequireRoles(admin, manager), calCtrl.UpdateCapacity)
	}

	// Checklists (staff; templates write and audit admin/manager)
	chk := api.Group("/checklists")
	{
		chk.GET("/templates", chkCtrl.ListTemplates)
		chk.GET("/templates/:id", chkCtrl.GetTemplate)

		chk.GET("/instances", chkCtrl.ListInstances)
		chk.POST("/instances", chkCtrl.CreateInstance)
		chk.GET("/instances/:id", chkCtrl.GetInstance)
		chk.POST("/instances/:id/items/:itemId/complete", chkCtrl.CompleteItem)
		chk.DELETE("/instances/:id/items/:itemId/complete", chkCtrl.UncompleteItem)
		chk.POST("/instances/:id/complete", chkCtrl.CompleteInstance)

		mgr := chk.Group("", middlewares.RequireRoles(admin, manager))
		mgr.POST("/templates", chkCtrl.CreateTemplate)
		mgr.PUT("/templates/:id", chkCtrl.UpdateTemplate)
		mgr.DELETE("/templates/:id", chkCtrl.DeleteTemplate)
		mgr.GET("/audit", chkCtrl.ListAudit)
	}

	// Onboarding (content reads staff, writes admin; progress checks ownership in the service)
	onb := api.Group("/onboarding")
	{
		onb.GET("/config", onbCtrl.GetConfig)
		onb.GET("/documents", onbCtrl.ListDocuments)
		onb.GET("/video-chapters", onbCtrl.ListChapters)
		onb.GET("/quiz-questions", onbCtrl.ListQuestions)

		content := onb.Group("", middlewares.RequireRoles(admin))
		content.PUT("/config", onbCtrl.UpdateConfig)
		content.POST("/documents", onbCtrl.CreateDocument)
		content.PUT("/documents/:id", onbCtrl.UpdateDocument)
		content.DELETE("/documents/:id", onbCtrl.DeleteDocument)
		content.POST("/video-chapters", onbCtrl.CreateChapter)
		content.PUT("/video-chapters/:id", onbCtrl.UpdateChapter)
		content.DELETE("/video-chapters/:id", onbCtrl.DeleteChapter)
		content.POST("/quiz-questions", onbCtrl.CreateQuestion)
		content.PUT("/quiz-questions/:id", onbCtrl.UpdateQuestion)
		content.DELETE("/quiz-questions/:id", onbCtrl.DeleteQuestion)

		onb.GET("/:employeeId", onbCtrl.GetProgress)
		onb.POST("/:employeeId/documents/:documentId/sign", onbCtrl.SignDocument)
		onb.POST("/:employeeId/video", onbCtrl.UpdateVideo)
		onb.GET("/:employeeId/quiz", onbCtrl.Quiz)
		onb.POST("/:employeeId/quiz", onbCtrl.SubmitQuiz)
		onb.POST("/:employeeId/reset", middlewares.RequireRoles(admin, manager), onbCtrl.Reset)
	}

	// Social (admin/manager)
	soc := api.Group("/social", middlewares.RequireRoles(admin, manager))
	{
		soc.GET("/posts", socCtrl.ListPosts)
		soc.POST("/posts", socCtrl.CreatePost)
		soc.GET("/posts/:id", socCtrl.GetPost)
		soc.PUT("/posts/:id", socCtrl.UpdatePost)
		soc.DELETE("/posts/:id", socCtrl.DeletePost)
		soc.POST("/posts/:id/publish", socCtrl.PublishPost)
		soc.POST("/posts/:id/schedule", socCtrl.SchedulePost)
		soc.POST("/posts/:id/unschedule", socCtrl.UnschedulePost)

		soc.GET("/templates", socCtrl.ListTemplates)
		soc.POST("/templates", socCtrl.CreateTemplate)
		soc.GET("/templates/:id", socCtrl.GetTemplate)
		soc.PUT("/templates/:id", socCtrl.UpdateTemplate)
		soc.DELETE("/templates/:id", socCtrl.DeleteTemplate)
		soc.POST("/templates/:id/use", socCtrl.UseTemplate)

		soc.GET("/hashtag-sets", socCtrl.ListHashtagSets)
		soc.POST("/hashtag-sets", socCtrl.CreateHashtagSet)
		soc.GET("/hashtag-sets/:id", socCtrl.GetHashtagSet)
		soc.PUT("/hashtag-sets/:id", socCtrl.UpdateHashtagSet)
		soc.DELETE("/hashtag-sets/:id", socCtrl.DeleteHashtagSet)

		soc.GET("/library", socCtrl.ListLibrary)
		soc.POST("/library", socCtrl.CreateLibraryItem)
		soc.GET("/library/:id", socCtrl.GetLibraryItem)
		soc.PUT("/library/:id", socCtrl.UpdateLibraryItem)
		soc.DELETE("/library/:id", socCtrl.DeleteLibraryItem)
	}

	// Warnings (staff reads and responses; issuing admin/manager; delete admin)
	warn := api.Group("/warnings")
	{
		warn.GET("", warnCtrl.List)
		warn.GET("/summary/:employeeId", warnCtrl.Summary)
		warn.GET("/:id", warnCtrl.Get)
		warn.POST("/:id/acknowledge", warnCtrl.Acknowledge)
		warn.POST("/:id/refuse", warnCtrl.Refuse)

		warn.POST("", middlewares.RequireRoles(admin, manager), warnCtrl.Issue)
		warn.PUT("/:id", middlewares.RequireRoles(admin, manager), warnCtrl.Update)
		warn.POST("/:id/clear", middlewares.RequireRoles(admin, manager), warnCtrl.Clear)
		warn.DELETE("/:id", middlewares.RequireRoles(admin), warnCtrl.Delete)
	}
}
