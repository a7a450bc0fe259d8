package database

import (
	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/utils"
	"gorm.io/gorm"
)

// Models lists every entity in dependency order, leaves first.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Tag{},
		&models.Project{},
		&models.Task{},
		&models.Subtask{},
		&models.Comment{},
		&models.Notification{},
		&models.Attachment{},
	}
}

// Migrate creates or updates all tables, including the project_users and
// project_tags join tables, and checks that each one exists afterwards.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		utils.ErrorLogger.Printf("AutoMigrate failed: %v", err)
		return err
	}

	migrator := db.Migrator()
	for _, m := range Models() {
		if !migrator.HasTable(m) {
			utils.ErrorLogger.Printf("Table missing after migrate: %T", m)
			continue
		}
		utils.InfoLogger.Printf("Table verified: %T", m)
	}
	for _, join := range []string{"project_users", "project_tags"} {
		if migrator.HasTable(join) {
			utils.InfoLogger.Printf("Join table verified: %s", join)
		}
	}
	return nil
}
