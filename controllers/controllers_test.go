package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/projectflow/middlewares"
	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/repository"
	"github.com/yeremiapane/projectflow/scheduler"
	"github.com/yeremiapane/projectflow/services"
	"github.com/yeremiapane/projectflow/storage"
	"github.com/yeremiapane/projectflow/testutil"
	"gorm.io/gorm"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// setupRouterForTest wires the controllers over an in-memory database. The
// caller is taken from the X-User-ID and X-Role headers instead of a token.
func setupRouterForTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)

	files, err := storage.NewFileSystem(t.TempDir())
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	projects := repository.NewProjectRepository(db)
	tasks := repository.NewTaskRepository(db)
	notifs := services.NewNotificationService(repository.NewNotificationRepository(db), nil)
	taskSvc := services.NewTaskService(tasks, projects)

	manager, err := scheduler.NewManager(services.NewStatusReconciler(projects, tasks), nil)
	require.NoError(t, err)

	userCtrl := NewUserController(services.NewUserService(users))
	projectCtrl := NewProjectController(services.NewProjectService(projects, users, repository.NewTagRepository(db), files, notifs))
	taskCtrl := NewTaskController(taskSvc)
	subtaskCtrl := NewSubtaskController(services.NewSubtaskService(repository.NewSubtaskRepository(db), tasks, users, taskSvc))
	commentCtrl := NewCommentController(services.NewCommentService(repository.NewCommentRepository(db), projects, tasks, users, notifs))
	notifCtrl := NewNotificationController(notifs)
	fileCtrl := NewAttachmentController(services.NewAttachmentService(repository.NewAttachmentRepository(db), projects, tasks, files, notifs))
	tagCtrl := NewTagController(services.NewTagService(repository.NewTagRepository(db)))
	adminCtrl := NewAdminController(services.NewDashboardService(projects, tasks, users), manager)

	r := gin.New()
	r.POST("/register", userCtrl.Register)
	r.POST("/login", userCtrl.Login)

	auth := r.Group("/")
	auth.Use(func(c *gin.Context) {
		if id, err := strconv.ParseUint(c.GetHeader("X-User-ID"), 10, 64); err == nil {
			c.Set(middlewares.ContextUserID, uint(id))
			c.Set(middlewares.ContextRole, c.GetHeader("X-Role"))
		}
		c.Next()
	})
	auth.GET("/users/me", userCtrl.GetProfile)
	auth.PUT("/users/me/password", userCtrl.ChangePassword)
	auth.DELETE("/users/:id", userCtrl.DeleteUser)
	auth.GET("/projects", projectCtrl.GetProjects)
	auth.POST("/projects", projectCtrl.CreateProject)
	auth.GET("/projects/:id", projectCtrl.GetProject)
	auth.PUT("/projects/:id", projectCtrl.UpdateProject)
	auth.DELETE("/projects/:id", projectCtrl.DeleteProject)
	auth.POST("/projects/:id/members", projectCtrl.AddMembers)
	auth.GET("/projects/:id/tasks", taskCtrl.GetProjectTasks)
	auth.GET("/projects/:id/tasks/export", taskCtrl.ExportTasks)
	auth.POST("/projects/:id/tasks/import", taskCtrl.ImportTasks)
	auth.POST("/projects/:id/files", fileCtrl.UploadFile)
	auth.GET("/projects/:id/files", fileCtrl.GetProjectFiles)
	auth.GET("/files/:id/download", fileCtrl.DownloadFile)
	auth.DELETE("/files/:id", fileCtrl.DeleteFile)
	auth.POST("/tasks", taskCtrl.CreateTask)
	auth.PATCH("/tasks/:id/toggle", taskCtrl.ToggleTask)
	auth.GET("/tasks/:id/subtasks", subtaskCtrl.GetTaskSubtasks)
	auth.POST("/subtasks", subtaskCtrl.CreateSubtask)
	auth.PATCH("/subtasks/:id/toggle", subtaskCtrl.ToggleSubtask)
	auth.POST("/comments", commentCtrl.CreateComment)
	auth.GET("/comments", commentCtrl.GetComments)
	auth.GET("/notifications/user/:userId", notifCtrl.GetUserNotifications)
	auth.GET("/notifications/unread-count", notifCtrl.GetUnreadCount)
	auth.PATCH("/notifications/read-all", notifCtrl.MarkAllRead)
	auth.PATCH("/notifications/:id/read", notifCtrl.MarkRead)
	auth.GET("/tags", tagCtrl.GetTags)
	auth.POST("/tags", tagCtrl.CreateTag)
	auth.GET("/dashboard", adminCtrl.GetDashboard)
	auth.POST("/admin/trigger-status-update", adminCtrl.TriggerStatusUpdate)

	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, as *models.User, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("X-User-ID", strconv.FormatUint(uint64(as.ID), 10))
		req.Header.Set("X-Role", as.Role)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func multipartFile(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupRouterForTest(t)

	w, env := doJSON(t, r, http.MethodPost, "/register", nil, map[string]string{
		"name": "Ayu", "email": "ayu@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var first models.UserSummary
	decode(t, env.Data, &first)
	assert.Equal(t, models.RoleAdmin, first.Role)

	w, env = doJSON(t, r, http.MethodPost, "/register", nil, map[string]string{
		"name": "Budi", "email": "budi@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var second models.UserSummary
	decode(t, env.Data, &second)
	assert.Equal(t, models.RoleUser, second.Role)

	w, _ = doJSON(t, r, http.MethodPost, "/register", nil, map[string]string{
		"name": "Ayu again", "email": "AYU@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/register", nil, map[string]string{
		"name": "Short", "email": "short@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, r, http.MethodPost, "/login", nil, map[string]string{
		"email": "ayu@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var auth services.AuthResult
	decode(t, env.Data, &auth)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, first.ID, auth.User.ID)

	w, _ = doJSON(t, r, http.MethodPost, "/login", nil, map[string]string{
		"email": "ayu@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMissingActorIsUnauthorized(t *testing.T) {
	r, _ := setupRouterForTest(t)
	w, _ := doJSON(t, r, http.MethodGet, "/users/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePasswordAndDeleteUser(t *testing.T) {
	r, db := setupRouterForTest(t)
	admin := testutil.SeedUser(t, db, "admin", models.RoleAdmin)
	user := testutil.SeedUser(t, db, "user", models.RoleUser)

	w, _ := doJSON(t, r, http.MethodPut, "/users/me/password", user, map[string]string{
		"current_password": "nope", "new_password": "password456",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodPut, "/users/me/password", user, map[string]string{
		"current_password": "password123", "new_password": "password456",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/users/%d", admin.ID), admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/users/%d", user.ID), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/users/me", user, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectLifecycle(t *testing.T) {
	r, db := setupRouterForTest(t)
	manager := testutil.SeedUser(t, db, "manager", models.RoleUser)
	member := testutil.SeedUser(t, db, "member", models.RoleUser)
	outsider := testutil.SeedUser(t, db, "outsider", models.RoleUser)

	w, env := doJSON(t, r, http.MethodPost, "/projects", manager, map[string]interface{}{
		"name":       "Website relaunch",
		"start_date": "2024-01-01",
		"due_date":   "2024-06-30",
		"member_ids": []uint{member.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var project models.Project
	decode(t, env.Data, &project)
	assert.Equal(t, models.StatusNotStarted, project.Status)
	require.NotNil(t, project.ManagerID)
	assert.Equal(t, manager.ID, *project.ManagerID)
	assert.Len(t, project.Users, 1)

	w, _ = doJSON(t, r, http.MethodPost, "/projects", manager, map[string]interface{}{
		"name": "Backwards", "start_date": "2024-06-01", "due_date": "2024-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/projects?mine=true", member, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Content       []models.Project `json:"content"`
		TotalElements int64            `json:"totalElements"`
	}
	decode(t, env.Data, &page)
	assert.EqualValues(t, 1, page.TotalElements)

	path := fmt.Sprintf("/projects/%d", project.ID)
	w, _ = doJSON(t, r, http.MethodPut, path, outsider, map[string]interface{}{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = doJSON(t, r, http.MethodPut, path, manager, map[string]interface{}{
		"name": "Website relaunch v2", "status": "IN_PROGRESS",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, env.Data, &project)
	assert.Equal(t, "Website relaunch v2", project.Name)
	assert.Equal(t, models.StatusInProgress, project.Status)

	w, _ = doJSON(t, r, http.MethodDelete, path, manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, path, manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleTaskVersionConflict(t *testing.T) {
	r, db := setupRouterForTest(t)
	manager := testutil.SeedUser(t, db, "manager", models.RoleUser)
	project := testutil.SeedProject(t, db, "Alpha", manager)
	task := testutil.SeedTask(t, db, "Write copy", project, manager, models.StatusInProgress, nil)

	path := fmt.Sprintf("/tasks/%d/toggle?version=1", task.ID)
	w, env := doJSON(t, r, http.MethodPatch, path, manager, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var toggled models.Task
	decode(t, env.Data, &toggled)
	assert.Equal(t, models.StatusCompleted, toggled.Status)
	assert.EqualValues(t, 2, toggled.Version)

	w, _ = doJSON(t, r, http.MethodPatch, path, manager, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/tasks/%d/toggle?version=abc", task.ID), manager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubtaskCreateAndToggle(t *testing.T) {
	r, db := setupRouterForTest(t)
	manager := testutil.SeedUser(t, db, "manager", models.RoleUser)
	project := testutil.SeedProject(t, db, "Alpha", manager)
	task := testutil.SeedTask(t, db, "Parent", project, manager, models.StatusInProgress, nil)

	w, env := doJSON(t, r, http.MethodPost, "/subtasks", manager, map[string]interface{}{
		"name": "Draft outline", "task_id": task.ID, "assignee_id": manager.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sub models.Subtask
	decode(t, env.Data, &sub)
	assert.False(t, sub.Completed)

	w, env = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/subtasks/%d/toggle", sub.ID), manager, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, env.Data, &sub)
	assert.True(t, sub.Completed)

	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/tasks/%d/subtasks", task.ID), manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Subtask
	decode(t, env.Data, &list)
	assert.Len(t, list, 1)
}

func TestCommentNotifiesProjectMembers(t *testing.T) {
	r, db := setupRouterForTest(t)
	manager := testutil.SeedUser(t, db, "manager", models.RoleUser)
	member := testutil.SeedUser(t, db, "member", models.RoleUser)
	project := testutil.SeedProject(t, db, "Alpha", manager, member)

	w, env := doJSON(t, r, http.MethodPost, "/comments", member, map[string]interface{}{
		"content": "Kickoff notes are in the shared drive", "type": "project", "referenceId": project.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var comment models.Comment
	decode(t, env.Data, &comment)
	assert.Equal(t, models.CommentTypeProject, comment.Type)

	w, _ = doJSON(t, r, http.MethodPost, "/comments", member, map[string]interface{}{
		"content": "  ", "type": "PROJECT", "referenceId": project.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/comments?type=PROJECT&referenceId=%d", project.ID), manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var thread struct {
		Content []models.Comment `json:"content"`
	}
	decode(t, env.Data, &thread)
	assert.Len(t, thread.Content, 1)

	w, _ = doJSON(t, r, http.MethodGet, "/comments?type=PROJECT", manager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/notifications/user/%d?status=unread", manager.ID), manager, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var inbox struct {
		Content []models.Notification `json:"content"`
	}
	decode(t, env.Data, &inbox)
	require.Len(t, inbox.Content, 1)
	assert.Equal(t, models.NotificationTypeComment, inbox.Content[0].Type)

	// the author is never notified of their own comment
	w, env = doJSON(t, r, http.MethodGet, "/notifications/unread-count", member, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count struct {
		Count int64 `json:"count"`
	}
	decode(t, env.Data, &count)
	assert.Zero(t, count.Count)

	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/notifications/user/%d", manager.ID), member, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/notifications/%d/read", inbox.Content[0].ID), member, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/notifications/%d/read", inbox.Content[0].ID), manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var read models.Notification
	decode(t, env.Data, &read)
	assert.Equal(t, models.NotificationRead, read.Status)
	assert.NotNil(t, read.ReadAt)

	w, env = doJSON(t, r, http.MethodGet, "/notifications/unread-count", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &count)
	assert.Zero(t, count.Count)
}

func TestUploadDownloadAndDeleteFile(t *testing.T) {
	r, db := setupRouterForTest(t)
	manager := testutil.SeedUser(t, db, "manager", models.RoleUser)
	outsider := testutil.SeedUser(t, db, "outsider", models.RoleUser)
	project := testutil.SeedProject(t, db, "Alpha", manager)

	content := []byte("quarterly plan")
	body, contentType := multipartFile(t, "file", "plan.txt", content)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/projects/%d/files", project.ID), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", strconv.FormatUint(uint64(manager.ID), 10))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var att models.Attachment
	decode(t, env.Data, &att)
	assert.Equal(t, "plan.txt", att.FileName)
	assert.Equal(t, fmt.Sprintf("/api/files/%d/download", att.ID), att.URL)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/files/%d/download", att.ID), nil)
	req.Header.Set("X-User-ID", strconv.FormatUint(uint64(manager.ID), 10))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content, w.Body.Bytes())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "plan.txt")

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/files/%d", att.ID), outsider, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/files/%d", att.ID), manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/files/%d/download", att.ID), manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadWithoutFileIsBadRequest(t *testing.T) {
	r, db := setupRouterForTest(t)
	manager := testutil.SeedUser(t, db, "manager", models.RoleUser)
	project := testutil.SeedProject(t, db, "Alpha", manager)

	w, _ := doJSON(t, r, http.MethodPost, fmt.Sprintf("/projects/%d/files", project.ID), manager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportThenImportTasks(t *testing.T) {
	r, db := setupRouterForTest(t)
	manager := testutil.SeedUser(t, db, "manager", models.RoleUser)
	source := testutil.SeedProject(t, db, "Source", manager)
	target := testutil.SeedProject(t, db, "Target", manager)
	due := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	testutil.SeedTask(t, db, "Design", source, manager, models.StatusInProgress, &due)
	testutil.SeedTask(t, db, "Build", source, manager, models.StatusNotStarted, nil)

	w, _ := doJSON(t, r, http.MethodGet, fmt.Sprintf("/projects/%d/tasks/export", source.ID), manager, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, excelContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	body, contentType := multipartFile(t, "file", "tasks.xlsx", w.Body.Bytes())
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/projects/%d/tasks/import", target.ID), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", strconv.FormatUint(uint64(manager.ID), 10))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var result services.ImportResult
	decode(t, env.Data, &result)
	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.Errors)

	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/projects/%d/tasks?status=IN_PROGRESS", target.ID), manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Content []models.Task `json:"content"`
	}
	decode(t, env.Data, &page)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Design", page.Content[0].Name)
}

func TestTags(t *testing.T) {
	r, db := setupRouterForTest(t)
	user := testutil.SeedUser(t, db, "user", models.RoleUser)

	w, _ := doJSON(t, r, http.MethodPost, "/tags", user, map[string]string{"name": "backend", "color": "#336699"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = doJSON(t, r, http.MethodPost, "/tags", user, map[string]string{"name": "backend"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env := doJSON(t, r, http.MethodGet, "/tags", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []models.Tag
	decode(t, env.Data, &tags)
	assert.Len(t, tags, 1)
}

func TestDashboardAndStatusSweep(t *testing.T) {
	r, db := setupRouterForTest(t)
	admin := testutil.SeedUser(t, db, "admin", models.RoleAdmin)
	project := testutil.SeedProject(t, db, "Alpha", admin)
	testutil.SeedTask(t, db, "Late", project, admin, models.StatusInProgress, testutil.TimePtr(time.Now().Add(-48*time.Hour)))
	testutil.SeedTask(t, db, "Done", project, admin, models.StatusCompleted, testutil.TimePtr(time.Now().Add(-48*time.Hour)))

	w, env := doJSON(t, r, http.MethodPost, "/admin/trigger-status-update", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result services.ReconcileResult
	decode(t, env.Data, &result)
	assert.Equal(t, 1, result.TasksUpdated)
	assert.Zero(t, result.Failures)

	w, env = doJSON(t, r, http.MethodGet, "/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dash services.Dashboard
	decode(t, env.Data, &dash)
	assert.EqualValues(t, 1, dash.Counts.Projects)
	assert.EqualValues(t, 2, dash.Counts.Tasks)
	assert.EqualValues(t, 1, dash.TaskStatus[models.StatusOverDue])
	assert.EqualValues(t, 1, dash.TaskStatus[models.StatusCompleted])
	require.Len(t, dash.RecentProjects, 1)
	assert.InDelta(t, 50.0, dash.RecentProjects[0].Progress, 0.01)
}

func TestReplyBodyUsesCamelCaseReferences(t *testing.T) {
	r, db := setupRouterForTest(t)
	manager := testutil.SeedUser(t, db, "manager", models.RoleUser)
	member := testutil.SeedUser(t, db, "member", models.RoleUser)
	project := testutil.SeedProject(t, db, "Beta", manager, member)

	w, env := doJSON(t, r, http.MethodPost, "/comments", manager, map[string]interface{}{
		"content": "Who owns the rollout?", "type": "PROJECT", "referenceId": project.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var parent models.Comment
	decode(t, env.Data, &parent)

	w, env = doJSON(t, r, http.MethodPost, "/comments", member, map[string]interface{}{
		"content": "I do", "type": "PROJECT", "referenceId": project.ID, "parentId": parent.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reply models.Comment
	decode(t, env.Data, &reply)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)
	assert.Equal(t, project.ID, reply.ReferenceID)
}
