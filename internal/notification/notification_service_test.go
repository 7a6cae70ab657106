package notification_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-hrms/internal/domain"
	"go-hrms/internal/notification"
	notificationerrors "go-hrms/internal/notification/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeNotificationRepository struct {
	createFn                 func(ctx context.Context, n *notification.Notification) error
	findAllByRecipientFn     func(ctx context.Context, recipientID string) ([]notification.Notification, error)
	countUnseenByRecipientFn func(ctx context.Context, recipientID string) (int64, error)
	markSeenFn               func(ctx context.Context, recipientID, id string) (int64, error)
	deleteFn                 func(ctx context.Context, recipientID, id string) (int64, error)
}

func (f *fakeNotificationRepository) WithTx(tx *sql.Tx) notification.Repository { return f }

func (f *fakeNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, n)
	}
	return nil
}

func (f *fakeNotificationRepository) FindAllByRecipient(ctx context.Context, recipientID string) ([]notification.Notification, error) {
	if f.findAllByRecipientFn != nil {
		return f.findAllByRecipientFn(ctx, recipientID)
	}
	return nil, nil
}

func (f *fakeNotificationRepository) CountUnseenByRecipient(ctx context.Context, recipientID string) (int64, error) {
	if f.countUnseenByRecipientFn != nil {
		return f.countUnseenByRecipientFn(ctx, recipientID)
	}
	return 0, nil
}

func (f *fakeNotificationRepository) MarkSeen(ctx context.Context, recipientID, id string) (int64, error) {
	if f.markSeenFn != nil {
		return f.markSeenFn(ctx, recipientID, id)
	}
	return 0, nil
}

func (f *fakeNotificationRepository) Delete(ctx context.Context, recipientID, id string) (int64, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, recipientID, id)
	}
	return 0, nil
}

func recipientScope(employeeID string) domain.Scope {
	return domain.Scope{
		UserID:     uuid.New().String(),
		EmployeeID: employeeID,
		Role:       domain.RoleEmployee,
	}
}

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	recipientID := uuid.New()

	t.Run("success filters by scope recipient", func(t *testing.T) {
		repo := &fakeNotificationRepository{
			findAllByRecipientFn: func(ctx context.Context, rid string) ([]notification.Notification, error) {
				assert.Equal(t, recipientID.String(), rid)
				return []notification.Notification{
					{
						ID:            uuid.New(),
						Type:          notification.TypeLeave,
						Message:       "Your leave request was approved",
						RecipientRole: domain.RoleEmployee,
						RecipientID:   recipientID,
						ReferenceID:   uuid.New(),
						Seen:          false,
						CreatedAt:     time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}
		svc := notification.NewService(repo)

		resp, err := svc.List(ctx, recipientScope(recipientID.String()))

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, recipientID.String(), resp[0].RecipientID)
		assert.False(t, resp[0].Seen)
	})

	t.Run("negative malformed recipient", func(t *testing.T) {
		svc := notification.NewService(&fakeNotificationRepository{})

		_, err := svc.List(ctx, recipientScope("not-a-uuid"))

		assert.ErrorIs(t, err, notificationerrors.ErrInvalidRecipient)
	})
}

func TestNotificationService_UnseenCount(t *testing.T) {
	ctx := context.Background()
	recipientID := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo := &fakeNotificationRepository{
			countUnseenByRecipientFn: func(ctx context.Context, rid string) (int64, error) {
				assert.Equal(t, recipientID.String(), rid)
				return 4, nil
			},
		}
		svc := notification.NewService(repo)

		count, err := svc.UnseenCount(ctx, recipientScope(recipientID.String()))

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("concurrent identical reads collapse but all get the count", func(t *testing.T) {
		var calls atomic.Int64
		release := make(chan struct{})
		repo := &fakeNotificationRepository{
			countUnseenByRecipientFn: func(ctx context.Context, rid string) (int64, error) {
				calls.Add(1)
				<-release
				return 7, nil
			},
		}
		svc := notification.NewService(repo)

		const waves = 8
		var wg sync.WaitGroup
		results := make([]int64, waves)
		errs := make([]error, waves)
		for i := 0; i < waves; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = svc.UnseenCount(ctx, recipientScope(recipientID.String()))
			}(i)
		}

		// Give the goroutines time to pile onto the same key before the
		// single underlying query returns.
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		for i := 0; i < waves; i++ {
			assert.NoError(t, errs[i])
			assert.Equal(t, int64(7), results[i])
		}
		assert.LessOrEqual(t, calls.Load(), int64(waves))
		assert.GreaterOrEqual(t, calls.Load(), int64(1))
	})

	t.Run("sequential reads hit the store every time", func(t *testing.T) {
		var calls atomic.Int64
		repo := &fakeNotificationRepository{
			countUnseenByRecipientFn: func(ctx context.Context, rid string) (int64, error) {
				return calls.Add(1), nil
			},
		}
		svc := notification.NewService(repo)

		first, err := svc.UnseenCount(ctx, recipientScope(recipientID.String()))
		assert.NoError(t, err)
		second, err := svc.UnseenCount(ctx, recipientScope(recipientID.String()))
		assert.NoError(t, err)

		assert.Equal(t, int64(1), first)
		assert.Equal(t, int64(2), second)
	})

	t.Run("negative repo error", func(t *testing.T) {
		repo := &fakeNotificationRepository{
			countUnseenByRecipientFn: func(ctx context.Context, rid string) (int64, error) {
				return 0, errors.New("db error")
			},
		}
		svc := notification.NewService(repo)

		_, err := svc.UnseenCount(ctx, recipientScope(recipientID.String()))

		assert.Error(t, err)
	})
}

func TestNotificationService_MarkSeen(t *testing.T) {
	ctx := context.Background()
	recipientID := uuid.New()
	notificationID := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo := &fakeNotificationRepository{
			markSeenFn: func(ctx context.Context, rid, id string) (int64, error) {
				assert.Equal(t, recipientID.String(), rid)
				assert.Equal(t, notificationID.String(), id)
				return 1, nil
			},
		}
		svc := notification.NewService(repo)

		err := svc.MarkSeen(ctx, recipientScope(recipientID.String()), notificationID.String())

		assert.NoError(t, err)
	})

	t.Run("already seen is still success", func(t *testing.T) {
		// The seen update matches seen rows too, so a repeat marks one row
		// again rather than reporting not found.
		repo := &fakeNotificationRepository{
			markSeenFn: func(ctx context.Context, rid, id string) (int64, error) {
				return 1, nil
			},
		}
		svc := notification.NewService(repo)

		assert.NoError(t, svc.MarkSeen(ctx, recipientScope(recipientID.String()), notificationID.String()))
		assert.NoError(t, svc.MarkSeen(ctx, recipientScope(recipientID.String()), notificationID.String()))
	})

	t.Run("negative someone else's notification", func(t *testing.T) {
		repo := &fakeNotificationRepository{
			markSeenFn: func(ctx context.Context, rid, id string) (int64, error) {
				return 0, nil
			},
		}
		svc := notification.NewService(repo)

		err := svc.MarkSeen(ctx, recipientScope(recipientID.String()), notificationID.String())

		assert.ErrorIs(t, err, notificationerrors.ErrNotificationNotFound)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		svc := notification.NewService(&fakeNotificationRepository{})

		err := svc.MarkSeen(ctx, recipientScope(recipientID.String()), "nope")

		assert.ErrorIs(t, err, notificationerrors.ErrInvalidNotificationID)
	})
}

func TestNotificationService_Delete(t *testing.T) {
	ctx := context.Background()
	recipientID := uuid.New()
	notificationID := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo := &fakeNotificationRepository{
			deleteFn: func(ctx context.Context, rid, id string) (int64, error) {
				assert.Equal(t, recipientID.String(), rid)
				return 1, nil
			},
		}
		svc := notification.NewService(repo)

		assert.NoError(t, svc.Delete(ctx, recipientScope(recipientID.String()), notificationID.String()))
	})

	t.Run("negative out of scope answers not found", func(t *testing.T) {
		repo := &fakeNotificationRepository{
			deleteFn: func(ctx context.Context, rid, id string) (int64, error) {
				return 0, nil
			},
		}
		svc := notification.NewService(repo)

		err := svc.Delete(ctx, recipientScope(recipientID.String()), notificationID.String())

		assert.ErrorIs(t, err, notificationerrors.ErrNotificationNotFound)
	})
}
