package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bikrans/platform-api/internal/chat"
	"github.com/bikrans/platform-api/internal/config"
	"github.com/bikrans/platform-api/internal/database"
	"github.com/bikrans/platform-api/internal/handlers"
	"github.com/bikrans/platform-api/internal/logger"
	"github.com/bikrans/platform-api/internal/middleware"
	"github.com/bikrans/platform-api/internal/repository"
	"github.com/bikrans/platform-api/internal/services"
	"github.com/bikrans/platform-api/internal/token"
	"github.com/bikrans/platform-api/internal/upload"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.Env)
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisHost + ":" + cfg.RedisPort,
	})

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	sliderRepo := repository.NewSliderRepository(db)
	themeRepo := repository.NewThemeRepository(db)
	landingRepo := repository.NewLandingRepository(db)

	tokens := token.NewService(cfg.JWTSecret)
	saver := upload.NewSaver(cfg.UploadsRoot)

	authService := services.NewAuthService(userRepo, projectRepo)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo)
	sliderService := services.NewSliderService(sliderRepo)
	themeService := services.NewThemeService(themeRepo)
	landingService := services.NewLandingService(landingRepo)

	collaborators := services.NewChatCollaborators(authService, projectService, tokens)
	chatStore := chat.NewStore(redisClient, chat.DefaultSessionTTL)
	chatEngine := chat.NewEngine(collaborators, collaborators, collaborators, chatStore)

	authHandler := handlers.NewAuthHandler(authService, tokens)
	adminHandler := handlers.NewAdminHandler(userService, projectService)
	taskAdminHandler := handlers.NewTaskAdminHandler(taskService, saver, cfg.TaskAttachmentUpload)
	taskUserHandler := handlers.NewTaskUserHandler(taskService, saver, cfg.TaskAttachmentUpload)
	sliderHandler := handlers.NewSliderHandler(sliderService, saver, cfg.SliderUpload)
	themeHandler := handlers.NewThemeHandler(themeService, saver, cfg.LogoUpload)
	landingHandler := handlers.NewLandingHandler(landingService, projectService, saver, cfg.LandingIconUpload)
	chatHandler := handlers.NewChatHandler(chatEngine)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	r.Static("/uploads", cfg.UploadsRoot)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok", "message": "Bikrans platform API is running"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/campaign-register", authHandler.CampaignRegister)
			auth.POST("/check-phone", authHandler.CheckPhone)
			auth.POST("/logout", middleware.RequireAuth(tokens), authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(tokens), authHandler.Me)
		}

		chatGroup := api.Group("/chat")
		{
			chatGroup.POST("/register", chatHandler.Start)
			chatGroup.POST("/register/:sessionId/message", chatHandler.Message)
		}

		// Public marketing surfaces
		api.GET("/sliders", sliderHandler.Public)
		theme := api.Group("/theme")
		{
			theme.GET("/header", themeHandler.Header)
			theme.GET("/footer", themeHandler.PublicFooter)
		}
		public := api.Group("/public")
		{
			public.GET("/landing", landingHandler.PublicLanding)
			public.GET("/projects", landingHandler.PublicProjects)
		}

		// Member task routes
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(tokens))
		{
			tasks.GET("/my-tasks", taskUserHandler.MyTasks)
			tasks.GET("/:id", taskUserHandler.Get)
			tasks.PUT("/:id/status", taskUserHandler.UpdateStatus)
			tasks.GET("/:id/attachments", taskUserHandler.ListAttachments)
			tasks.POST("/:id/attachments", taskUserHandler.AddAttachment)
			tasks.DELETE("/:id/attachments/:attachmentId", taskUserHandler.DeleteAttachment)
			tasks.GET("/:id/comments", taskUserHandler.ListComments)
			tasks.POST("/:id/comments", taskUserHandler.AddComment)
		}

		// Admin routes. Managers share most of the surface, user account
		// management stays admin only.
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(tokens), middleware.RequireAdminOrManager())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/analytics", adminHandler.Analytics)

			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id/pin", middleware.RequireAdmin(), adminHandler.GetUserPIN)
			admin.POST("/users", middleware.RequireAdmin(), adminHandler.CreateUser)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
			admin.DELETE("/users/:id", middleware.RequireAdmin(), adminHandler.DeleteUser)
			admin.PUT("/users/:id/role", middleware.RequireAdmin(), adminHandler.UpdateUserRole)

			admin.GET("/sliders", sliderHandler.List)
			admin.POST("/sliders", sliderHandler.Create)
			admin.PUT("/sliders/reorder", sliderHandler.Reorder)
			admin.PUT("/sliders/:id", sliderHandler.Update)
			admin.DELETE("/sliders/:id", sliderHandler.Delete)

			admin.GET("/theme/header", themeHandler.Header)
			admin.PUT("/theme/header", themeHandler.UpdateHeader)
			admin.POST("/theme/logo", themeHandler.UploadLogo)
			admin.PUT("/theme/footer-visibility", themeHandler.UpdateFooterVisibility)
			admin.GET("/theme/footer", themeHandler.ListFooter)
			admin.POST("/theme/footer", themeHandler.CreateFooterItem)
			admin.PUT("/theme/footer/reorder", themeHandler.ReorderFooter)
			admin.PUT("/theme/footer/:id", themeHandler.UpdateFooterItem)
			admin.DELETE("/theme/footer/:id", themeHandler.DeleteFooterItem)

			admin.GET("/tasks", taskAdminHandler.List)
			admin.POST("/tasks", taskAdminHandler.Create)
			admin.GET("/tasks/:id", taskAdminHandler.Get)
			admin.PUT("/tasks/:id", taskAdminHandler.Update)
			admin.DELETE("/tasks/:id", taskAdminHandler.Delete)
			admin.POST("/tasks/:id/attachments", taskAdminHandler.AddAttachment)
			admin.DELETE("/tasks/:id/attachments/:attachmentId", taskAdminHandler.DeleteAttachment)
			admin.GET("/tasks/:id/comments", taskAdminHandler.ListComments)
			admin.POST("/tasks/:id/comments", taskAdminHandler.AddComment)

			registerLandingSection(admin, landingHandler, "services")
			registerLandingSection(admin, landingHandler, "features")
			admin.POST("/landing/services/upload", landingHandler.UploadIcon)
			admin.GET("/landing/cta", landingHandler.GetCta)
			admin.PUT("/landing/cta", landingHandler.UpdateCta)

			admin.GET("/projects", adminHandler.ListProjects)
			admin.POST("/projects", adminHandler.CreateProject)
			admin.PUT("/projects/:id", adminHandler.UpdateProject)
			admin.DELETE("/projects/:id", adminHandler.DeleteProject)
		}
	}

	logger.Info(context.Background(), "Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func registerLandingSection(g *gin.RouterGroup, h *handlers.LandingHandler, kind string) {
	base := "/landing/" + kind
	g.GET(base, h.GetSection(kind))
	g.PUT(base, h.UpdateSection(kind))
	g.POST(base+"/items", h.CreateItem(kind))
	g.PUT(base+"/items/reorder", h.ReorderItems(kind))
	g.PUT(base+"/items/:id", h.UpdateItem(kind))
	g.DELETE(base+"/items/:id", h.DeleteItem(kind))
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, uuid.NewString())
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()
		logger.LogRequest(ctx, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}
