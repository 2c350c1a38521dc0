package routes

import (
	"net/http"

	"folio-cms/auth"
	"folio-cms/config"
	"folio-cms/handlers"
	"folio-cms/helper"
	"folio-cms/middleware"
	"folio-cms/repositories"
	"folio-cms/services"
	"folio-cms/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const uploadURLPrefix = "/uploads"

// SetupRouter wires repositories, services and handlers onto a new engine.
func SetupRouter(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	validate, trans := helper.NewValidator()
	httpHelper := &helper.HTTPHelper{Validate: validate, Translator: trans}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	postRepo := repositories.NewPostRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	markerRepo := repositories.NewMarkerRepository(db)

	gate := auth.NewGate(userRepo, auth.NewTokenIssuer(cfg.Auth))

	// Initialize services
	authService := services.NewAuthService(userRepo, gate, validate)
	postService := services.NewPostService(db, postRepo, categoryRepo, markerRepo, gate, validate)
	categoryService := services.NewCategoryService(db, categoryRepo, markerRepo, gate, validate)
	projectService := services.NewProjectService(db, projectRepo, markerRepo, gate, validate)
	changeService := services.NewChangeService(markerRepo)
	uploadService := services.NewUploadService(cfg.UploadDir, uploadURLPrefix, cfg.MaxUploadMB)
	dashboardService := services.NewDashboardService(userRepo, postRepo, categoryRepo, projectRepo, gate)

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(postService, categoryService, projectService, changeService, db, httpHelper)
	accountHandler := handlers.NewAccountHandler(authService, cfg.Auth, httpHelper)
	postHandler := handlers.NewAdminPostHandler(postService, categoryService, uploadService, httpHelper)
	categoryHandler := handlers.NewAdminCategoryHandler(categoryService, httpHelper)
	projectHandler := handlers.NewAdminProjectHandler(projectService, uploadService, httpHelper)
	userHandler := handlers.NewAdminUserHandler(authService, dashboardService, httpHelper)

	templates, err := web.Templates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = cfg.MaxUploadMB << 20
	router.SetHTMLTemplate(templates)
	router.Static(uploadURLPrefix, cfg.UploadDir)

	router.Use(middleware.Identify(gate, cfg.Auth))

	router.GET("/health", apiHandler.Health)
	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/admin") })

	// JSON API
	api := router.Group("/api")
	api.Use(middleware.CORS(cfg.CORSOrigins))
	{
		api.GET("/status", apiHandler.Status)
		api.GET("/categories", apiHandler.GetCategories)
		api.GET("/categories/:slug/posts", apiHandler.GetCategoryPosts)
		api.GET("/posts", apiHandler.GetPosts)
		api.GET("/posts/:slug", apiHandler.GetPost)
		api.GET("/projects", apiHandler.GetProjects)
		api.GET("/check-updates", apiHandler.CheckUpdates)
		api.POST("/check-updates", apiHandler.CheckUpdates)
		// preflight requests are answered by the CORS middleware
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}

	// Account forms
	router.GET("/signup", accountHandler.SignupForm)
	router.POST("/signup", accountHandler.Signup)
	router.GET("/login", accountHandler.LoginForm)
	router.POST("/login", accountHandler.Login)
	router.POST("/logout", accountHandler.Logout)

	account := router.Group("/account")
	account.Use(middleware.RequireUser())
	{
		account.GET("/profile", accountHandler.ProfileForm)
		account.POST("/profile", accountHandler.UpdateProfile)
		account.GET("/password", accountHandler.PasswordForm)
		account.POST("/password", accountHandler.ChangePassword)
	}

	// The editor script expects JSON errors, so autosave sits outside the
	// redirecting guard.
	router.POST("/admin/posts/autosave", postHandler.Autosave)

	admin := router.Group("/admin")
	admin.Use(middleware.RequireUser())
	{
		admin.GET("", userHandler.Dashboard)

		admin.GET("/posts", postHandler.ListPosts)
		admin.GET("/posts/new", postHandler.NewPost)
		admin.POST("/posts/new", postHandler.CreatePost)
		admin.GET("/posts/:id/edit", postHandler.EditPost)
		admin.POST("/posts/:id/edit", postHandler.UpdatePost)
		admin.POST("/posts/:id/publish", postHandler.PublishPost)
		admin.POST("/posts/:id/delete", postHandler.DeletePost)

		site := admin.Group("")
		site.Use(middleware.RequireAdmin())
		{
			site.GET("/categories", categoryHandler.ListCategories)
			site.GET("/categories/new", categoryHandler.NewCategory)
			site.POST("/categories/new", categoryHandler.CreateCategory)
			site.GET("/categories/:id/edit", categoryHandler.EditCategory)
			site.POST("/categories/:id/edit", categoryHandler.UpdateCategory)
			site.POST("/categories/:id/delete", categoryHandler.DeleteCategory)

			site.GET("/projects", projectHandler.ListProjects)
			site.GET("/projects/new", projectHandler.NewProject)
			site.POST("/projects/new", projectHandler.CreateProject)
			site.GET("/projects/:id/edit", projectHandler.EditProject)
			site.POST("/projects/:id/edit", projectHandler.UpdateProject)
			site.POST("/projects/:id/delete", projectHandler.DeleteProject)

			site.GET("/users", userHandler.ListUsers)
			site.POST("/users/:id/admin", userHandler.SetAdmin)
		}
	}

	return router, nil
}
