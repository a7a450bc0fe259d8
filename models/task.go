package models

import "time"

type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Status      Status     `gorm:"type:varchar(20);not null;default:'NOT_STARTED';index" json:"status"`
	Priority    Priority   `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `gorm:"index" json:"due_date,omitempty"`
	ProjectID   *uint      `gorm:"index" json:"project_id,omitempty"`
	Project     *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	CreatedByID *uint      `gorm:"index" json:"created_by_id,omitempty"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"created_by,omitempty"`
	Subtasks    []Subtask  `gorm:"foreignKey:TaskID" json:"subtasks,omitempty"`
	Version     int64      `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Subtask struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	Completed  bool       `gorm:"not null;default:false" json:"completed"`
	TaskID     uint       `gorm:"not null;index" json:"task_id"`
	AssigneeID *uint      `gorm:"index" json:"assignee_id,omitempty"`
	Assignee   *User      `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"assignee,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	Version    int64      `gorm:"not null;default:1" json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
