package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/yeremiapane/projectflow/config"
	"github.com/yeremiapane/projectflow/controllers"
	"github.com/yeremiapane/projectflow/mailer"
	"github.com/yeremiapane/projectflow/middlewares"
	"github.com/yeremiapane/projectflow/realtime"
	"github.com/yeremiapane/projectflow/repository"
	"github.com/yeremiapane/projectflow/scheduler"
	"github.com/yeremiapane/projectflow/services"
	"gorm.io/gorm"
)

// Deps carries everything the HTTP layer is built from.
type Deps struct {
	DB     *gorm.DB
	Server config.ServerConfig
	Hub    *realtime.Hub
	Files  services.ObjectStore
	// Mail is optional; nil disables email copies of notifications.
	Mail mailer.Sender
	// Pool runs notification delivery; nil delivers inline.
	Pool      *ants.Pool
	Scheduler *scheduler.Manager
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders(d.Server.Mode == "release"))
	r.Use(middlewares.CORSMiddlewares(d.Server.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(100, 1).RateLimit())

	users := repository.NewUserRepository(d.DB)
	projects := repository.NewProjectRepository(d.DB)
	tasks := repository.NewTaskRepository(d.DB)
	subtasks := repository.NewSubtaskRepository(d.DB)
	comments := repository.NewCommentRepository(d.DB)
	notifs := repository.NewNotificationRepository(d.DB)
	tags := repository.NewTagRepository(d.DB)
	attachments := repository.NewAttachmentRepository(d.DB)

	var pusher services.Pusher
	if d.Hub != nil {
		pusher = d.Hub
	}
	dispatcher := services.NewDispatcher(d.Pool, pusher, d.Mail, users)
	notificationSvc := services.NewNotificationService(notifs, dispatcher)
	taskSvc := services.NewTaskService(tasks, projects)

	userCtrl := controllers.NewUserController(services.NewUserService(users))
	projectCtrl := controllers.NewProjectController(services.NewProjectService(projects, users, tags, d.Files, notificationSvc))
	taskCtrl := controllers.NewTaskController(taskSvc)
	subtaskCtrl := controllers.NewSubtaskController(services.NewSubtaskService(subtasks, tasks, users, taskSvc))
	commentCtrl := controllers.NewCommentController(services.NewCommentService(comments, projects, tasks, users, notificationSvc))
	notificationCtrl := controllers.NewNotificationController(notificationSvc)
	fileCtrl := controllers.NewAttachmentController(services.NewAttachmentService(attachments, projects, tasks, d.Files, notificationSvc))
	tagCtrl := controllers.NewTagController(services.NewTagService(tags))
	adminCtrl := controllers.NewAdminController(services.NewDashboardService(projects, tasks, users), d.Scheduler)
	wsCtrl := controllers.NewWSController(d.Hub, notificationSvc, d.Server.CORSOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	public := api.Group("/auth")
	authBudget := d.Server.AuthPerMinute
	if authBudget < 1 {
		authBudget = 10
	}
	public.Use(middlewares.NewStrictRateLimiter(time.Minute, authBudget))
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// The browser websocket API cannot set headers, so the token rides in the query.
	if d.Hub != nil {
		r.GET("/ws/notifications", middlewares.WebSocketAuthMiddleware(), wsCtrl.NotificationsSocket)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("")
	auth.Use(middlewares.AuthMiddleware())

	// USERS
	auth.GET("/users/me", userCtrl.GetProfile)
	auth.PUT("/users/me", userCtrl.UpdateProfile)
	auth.PUT("/users/me/password", userCtrl.ChangePassword)
	auth.GET("/users", userCtrl.GetAllUsers)
	auth.GET("/users/:id", userCtrl.GetUserByID)
	auth.DELETE("/users/:id", middlewares.AdminOnly(), userCtrl.DeleteUser)

	// PROJECTS
	auth.GET("/projects", projectCtrl.GetProjects)
	auth.POST("/projects", projectCtrl.CreateProject)
	auth.GET("/projects/:id", projectCtrl.GetProject)
	auth.PUT("/projects/:id", projectCtrl.UpdateProject)
	auth.DELETE("/projects/:id", projectCtrl.DeleteProject)
	auth.POST("/projects/:id/members", projectCtrl.AddMembers)
	auth.DELETE("/projects/:id/members/:userId", projectCtrl.RemoveMember)
	auth.GET("/projects/:id/tasks", taskCtrl.GetProjectTasks)
	auth.GET("/projects/:id/tasks/export", taskCtrl.ExportTasks)
	auth.POST("/projects/:id/tasks/import", middlewares.UploadLimit(d.Server.MaxUploadMB), taskCtrl.ImportTasks)

	// FILES
	auth.POST("/projects/:id/files", middlewares.UploadLimit(d.Server.MaxUploadMB), fileCtrl.UploadFile)
	auth.GET("/projects/:id/files", fileCtrl.GetProjectFiles)
	auth.GET("/files/:id/download", fileCtrl.DownloadFile)
	auth.DELETE("/files/:id", fileCtrl.DeleteFile)

	// TASKS
	auth.POST("/tasks", taskCtrl.CreateTask)
	auth.GET("/tasks/:id", taskCtrl.GetTask)
	auth.PUT("/tasks/:id", taskCtrl.UpdateTask)
	auth.DELETE("/tasks/:id", taskCtrl.DeleteTask)
	auth.PATCH("/tasks/:id/toggle", taskCtrl.ToggleTask)
	auth.GET("/tasks/:id/subtasks", subtaskCtrl.GetTaskSubtasks)

	// SUBTASKS
	auth.POST("/subtasks", subtaskCtrl.CreateSubtask)
	auth.PUT("/subtasks/:id", subtaskCtrl.UpdateSubtask)
	auth.DELETE("/subtasks/:id", subtaskCtrl.DeleteSubtask)
	auth.PATCH("/subtasks/:id/toggle", subtaskCtrl.ToggleSubtask)

	// COMMENTS
	auth.POST("/comments", commentCtrl.CreateComment)
	auth.GET("/comments", commentCtrl.GetComments)
	auth.DELETE("/comments/:id", commentCtrl.DeleteComment)

	// NOTIFICATIONS
	auth.GET("/notifications/user/:userId", notificationCtrl.GetUserNotifications)
	auth.GET("/notifications/unread-count", notificationCtrl.GetUnreadCount)
	auth.PATCH("/notifications/read-all", notificationCtrl.MarkAllRead)
	auth.PATCH("/notifications/:id/read", notificationCtrl.MarkRead)
	auth.DELETE("/notifications/:id", notificationCtrl.DeleteNotification)

	// TAGS
	auth.GET("/tags", tagCtrl.GetTags)
	auth.POST("/tags", tagCtrl.CreateTag)

	// DASHBOARD
	auth.GET("/dashboard", adminCtrl.GetDashboard)

	// ADMIN
	admin := auth.Group("/admin")
	admin.Use(middlewares.AdminOnly())
	if d.Scheduler != nil {
		admin.POST("/trigger-status-update", adminCtrl.TriggerStatusUpdate)
		admin.GET("/status-update/last", adminCtrl.GetLastStatusUpdate)
	}

	return r
}
