package services

import (
	"context"
	"time"

	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/repository"
	"github.com/yeremiapane/projectflow/utils"
)

type NotificationService struct {
	notifs     NotificationStore
	dispatcher *Dispatcher
	now        func() time.Time
}

func NewNotificationService(notifs NotificationStore, dispatcher *Dispatcher) *NotificationService {
	return &NotificationService{notifs: notifs, dispatcher: dispatcher, now: time.Now}
}

// Notify stores the batch as UNREAD and hands it to the dispatcher.
func (s *NotificationService) Notify(ctx context.Context, notifs []models.Notification) error {
	if len(notifs) == 0 {
		return nil
	}
	for i := range notifs {
		notifs[i].Status = models.NotificationUnread
		notifs[i].ReadAt = nil
	}
	if err := s.notifs.CreateBatch(ctx, notifs); err != nil {
		return fromRepo("notification", err)
	}
	utils.InfoLogger.Printf("Created %d %s notifications", len(notifs), notifs[0].Type)
	s.dispatcher.Dispatch(notifs)
	return nil
}

// ListForUser pages a user's notifications. Users only see their own unless admin.
func (s *NotificationService) ListForUser(ctx context.Context, actor Actor, userID uint, status models.NotificationStatus, req repository.PageRequest) (repository.Page[models.Notification], error) {
	if actor.ID != userID && !actor.IsAdmin() {
		return repository.Page[models.Notification]{}, ErrForbidden
	}
	if status != "" && !status.Valid() {
		return repository.Page[models.Notification]{}, invalid("unknown notification status %q", status)
	}
	page, err := s.notifs.ListByUser(ctx, userID, status, req)
	return page, fromRepo("notification", err)
}

// owned loads a notification and checks it belongs to the actor.
func (s *NotificationService) owned(ctx context.Context, actor Actor, id uint) (*models.Notification, error) {
	n, err := s.notifs.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("notification", err)
	}
	if n.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return n, nil
}

// MarkRead moves a notification to READ and stamps read_at. Marking an
// already read notification is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id uint) (*models.Notification, error) {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := s.notifs.MarkRead(ctx, id, s.now()); err != nil {
		return nil, fromRepo("notification", err)
	}
	n, err := s.notifs.GetByID(ctx, id)
	return n, fromRepo("notification", err)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor Actor) (int64, error) {
	n, err := s.notifs.MarkAllRead(ctx, actor.ID, s.now())
	return n, fromRepo("notification", err)
}

func (s *NotificationService) CountUnread(ctx context.Context, actor Actor) (int64, error) {
	n, err := s.notifs.CountUnread(ctx, actor.ID)
	return n, fromRepo("notification", err)
}

func (s *NotificationService) Delete(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	return fromRepo("notification", s.notifs.Delete(ctx, id))
}
