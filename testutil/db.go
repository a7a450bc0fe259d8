// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/projectflow/database"
	"github.com/yeremiapane/projectflow/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with the full schema migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUser inserts a user whose password is "password123".
func SeedUser(t testing.TB, db *gorm.DB, name, role string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Password: string(hashed),
		Role:     role,
	}
	if err := db.WithContext(context.Background()).Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedProject inserts a project managed by manager with the given members.
func SeedProject(t testing.TB, db *gorm.DB, name string, manager *models.User, members ...*models.User) *models.Project {
	t.Helper()
	p := &models.Project{Name: name, Status: models.StatusInProgress}
	if manager != nil {
		p.ManagerID = &manager.ID
	}
	for _, m := range members {
		p.Users = append(p.Users, *m)
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}

// SeedTask inserts a task under project (which may be nil).
func SeedTask(t testing.TB, db *gorm.DB, name string, project *models.Project, creator *models.User, status models.Status, due *time.Time) *models.Task {
	t.Helper()
	task := &models.Task{
		Name:     name,
		Status:   status,
		Priority: models.PriorityMedium,
		DueDate:  due,
		Version:  1,
	}
	if project != nil {
		task.ProjectID = &project.ID
	}
	if creator != nil {
		task.CreatedByID = &creator.ID
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func TimePtr(t time.Time) *time.Time {
	return &t
}
