package notification

import (
	"context"
	"time"

	"go-hrms/internal/domain"
	notificationerrors "go-hrms/internal/notification/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, scope domain.Scope) ([]NotificationResponse, error)
	UnseenCount(ctx context.Context, scope domain.Scope) (int64, error)
	MarkSeen(ctx context.Context, scope domain.Scope, id string) error
	Delete(ctx context.Context, scope domain.Scope, id string) error
}

type service struct {
	repo   Repository
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, sf: &singleflight.Group{}, logger: l}
}

// List returns the caller's notifications newest-first. The recipient filter
// comes from the resolved scope, never from the request.
func (s *service) List(ctx context.Context, scope domain.Scope) ([]NotificationResponse, error) {
	if _, err := uuid.Parse(scope.EmployeeID); err != nil {
		return nil, notificationerrors.ErrInvalidRecipient
	}

	notifications, err := s.repo.FindAllByRecipient(ctx, scope.EmployeeID)
	if err != nil {
		s.logger.Error("list notifications failed",
			zap.String("recipient_id", scope.EmployeeID),
			zap.Error(err),
		)
		return nil, err
	}

	return mapToListResponse(notifications), nil
}

// UnseenCount is computed from the store on every call. Singleflight only
// collapses identical in-flight queries from concurrently polling dashboards;
// nothing is cached between waves.
func (s *service) UnseenCount(ctx context.Context, scope domain.Scope) (int64, error) {
	if _, err := uuid.Parse(scope.EmployeeID); err != nil {
		return 0, notificationerrors.ErrInvalidRecipient
	}

	v, err, _ := s.sf.Do("unseen:"+scope.EmployeeID, func() (interface{}, error) {
		return s.repo.CountUnseenByRecipient(ctx, scope.EmployeeID)
	})
	if err != nil {
		s.logger.Error("unseen count failed",
			zap.String("recipient_id", scope.EmployeeID),
			zap.Error(err),
		)
		return 0, err
	}

	return v.(int64), nil
}

func (s *service) MarkSeen(ctx context.Context, scope domain.Scope, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrInvalidNotificationID
	}
	if _, err := uuid.Parse(scope.EmployeeID); err != nil {
		return notificationerrors.ErrInvalidRecipient
	}

	affected, err := s.repo.MarkSeen(ctx, scope.EmployeeID, id)
	if err != nil {
		s.logger.Error("mark seen failed",
			zap.String("notification_id", id),
			zap.String("recipient_id", scope.EmployeeID),
			zap.Error(err),
		)
		return err
	}
	if affected == 0 {
		return notificationerrors.ErrNotificationNotFound
	}

	s.logger.Debug("notification marked seen",
		zap.String("notification_id", id),
		zap.String("recipient_id", scope.EmployeeID),
	)
	return nil
}

// Delete removes the notification regardless of its seen state. Deleting a
// notification never touches the entity it references.
func (s *service) Delete(ctx context.Context, scope domain.Scope, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrInvalidNotificationID
	}
	if _, err := uuid.Parse(scope.EmployeeID); err != nil {
		return notificationerrors.ErrInvalidRecipient
	}

	affected, err := s.repo.Delete(ctx, scope.EmployeeID, id)
	if err != nil {
		s.logger.Error("delete notification failed",
			zap.String("notification_id", id),
			zap.String("recipient_id", scope.EmployeeID),
			zap.Error(err),
		)
		return err
	}
	if affected == 0 {
		return notificationerrors.ErrNotificationNotFound
	}

	s.logger.Info("notification deleted",
		zap.String("notification_id", id),
		zap.String("recipient_id", scope.EmployeeID),
	)
	return nil
}

func mapToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:            n.ID.String(),
		Type:          n.Type,
		Message:       n.Message,
		RecipientRole: n.RecipientRole,
		RecipientID:   n.RecipientID.String(),
		ReferenceID:   n.ReferenceID.String(),
		Seen:          n.Seen,
		CreatedAt:     n.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(notifications []Notification) []NotificationResponse {
	resp := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = mapToResponse(n)
	}
	return resp
}
