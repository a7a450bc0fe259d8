package models

import "time"

type CommentType string

const (
	CommentTypeProject CommentType = "PROJECT"
	CommentTypeTask    CommentType = "TASK"
)

func (t CommentType) Valid() bool {
	return t == CommentTypeProject || t == CommentTypeTask
}

type Comment struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	Type        CommentType `gorm:"type:varchar(10);not null;index:idx_comment_ref" json:"type"`
	ReferenceID uint        `gorm:"not null;index:idx_comment_ref" json:"reference_id"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	User        *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ParentID    *uint       `gorm:"index" json:"parent_id,omitempty"`
	Parent      *Comment    `gorm:"foreignKey:ParentID" json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
