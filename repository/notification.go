package repository

import (
	"context"
	"time"

	"github.com/yeremiapane/projectflow/models"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateBatch inserts all notifications in one round trip per 100 rows.
func (r *NotificationRepository) CreateBatch(ctx context.Context, notifs []models.Notification) error {
	if len(notifs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&notifs, 100).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

// ListByUser pages a user's notifications newest first, optionally filtered by status.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint, status models.NotificationStatus, req PageRequest) (Page[models.Notification], error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return paginate[models.Notification](query, req, "created_at DESC, id DESC")
}

// MarkRead flips an unread notification to READ with read_at = at. Already
// read notifications keep their original read_at.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, models.NotificationUnread).
		UpdateColumns(map[string]interface{}{
			"status":  models.NotificationRead,
			"read_at": at,
		}).Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", userID, models.NotificationUnread).
		UpdateColumns(map[string]interface{}{
			"status":  models.NotificationRead,
			"read_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", userID, models.NotificationUnread).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
