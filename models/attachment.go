package models

import "time"

// Attachment is a file stored in object storage and linked to a project.
type Attachment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProjectID    uint      `gorm:"not null;index" json:"project_id"`
	TaskID       *uint     `gorm:"index" json:"task_id,omitempty"`
	FileName     string    `gorm:"type:varchar(255);not null" json:"file_name"`
	StorageKey   string    `gorm:"type:varchar(512);not null;uniqueIndex" json:"-"`
	URL          string    `gorm:"type:varchar(1024)" json:"url"`
	ContentType  string    `gorm:"type:varchar(255)" json:"content_type"`
	Size         int64     `json:"size"`
	UploadedByID uint      `gorm:"not null" json:"uploaded_by_id"`
	UploadedBy   *User     `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
