package inapp

import (
	"context"
	"time"

	"raf_pnp_backend/platform/logger"

	"github.com/google/uuid"
)

// Store is the persistence the in-app service and the dispatcher need.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	Delete(ctx context.Context, notificationID uuid.UUID) error
}

type Service struct {
	repo Store
	log  *logger.Logger
	now  func() time.Time
}

func NewService(repo Store, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]Notification, error) {
	return s.repo.ListForUser(ctx, userID, unreadOnly, ListLimit)
}

func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, s.now())
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	n, err := s.repo.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return err
	}
	s.log.Info("notifications marked read", "userId", userID, "count", n)
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

var _ Store = (*Repository)(nil)
