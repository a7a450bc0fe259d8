package models

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeProject NotificationType = "PROJECT"
	NotificationTypeTask    NotificationType = "TASK"
	NotificationTypeComment NotificationType = "COMMENT"
	NotificationTypeFile    NotificationType = "FILE"
	NotificationTypeSystem  NotificationType = "SYSTEM"
)

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "UNREAD"
	NotificationRead   NotificationStatus = "READ"
)

func (s NotificationStatus) Valid() bool {
	return s == NotificationUnread || s == NotificationRead
}

// Notification.ReadAt is set only when Status is READ.
type Notification struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	Title       string             `gorm:"type:varchar(255);not null" json:"title"`
	Content     string             `gorm:"type:text;not null" json:"content"`
	Type        NotificationType   `gorm:"type:varchar(20);not null" json:"type"`
	Status      NotificationStatus `gorm:"type:varchar(10);not null;default:'UNREAD';index:idx_notif_user_status" json:"status"`
	ReferenceID *uint              `json:"reference_id,omitempty"`
	UserID      uint               `gorm:"not null;index:idx_notif_user_status" json:"user_id"`
	User        *User              `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time          `json:"created_at"`
	ReadAt      *time.Time         `json:"read_at,omitempty"`
}
