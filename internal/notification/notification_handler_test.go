package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hrms/internal/domain"
	"go-hrms/internal/notification"
	notificationerrors "go-hrms/internal/notification/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeNotificationService struct {
	listFn        func(ctx context.Context, scope domain.Scope) ([]notification.NotificationResponse, error)
	unseenCountFn func(ctx context.Context, scope domain.Scope) (int64, error)
	markSeenFn    func(ctx context.Context, scope domain.Scope, id string) error
	deleteFn      func(ctx context.Context, scope domain.Scope, id string) error
}

func (f *fakeNotificationService) List(ctx context.Context, scope domain.Scope) ([]notification.NotificationResponse, error) {
	return f.listFn(ctx, scope)
}
func (f *fakeNotificationService) UnseenCount(ctx context.Context, scope domain.Scope) (int64, error) {
	return f.unseenCountFn(ctx, scope)
}
func (f *fakeNotificationService) MarkSeen(ctx context.Context, scope domain.Scope, id string) error {
	return f.markSeenFn(ctx, scope, id)
}
func (f *fakeNotificationService) Delete(ctx context.Context, scope domain.Scope, id string) error {
	return f.deleteFn(ctx, scope, id)
}

func setAuthContext(c *gin.Context, employeeID string) {
	c.Set("user_id", uuid.New().String())
	c.Set("employee_id", employeeID)
	c.Set("role", domain.RoleEmployee)
}

func TestNotificationHandler_ListMine(t *testing.T) {
	t.Run("success with pagination meta", func(t *testing.T) {
		employeeID := uuid.New().String()
		svc := &fakeNotificationService{
			listFn: func(ctx context.Context, scope domain.Scope) ([]notification.NotificationResponse, error) {
				assert.Equal(t, employeeID, scope.EmployeeID)
				out := make([]notification.NotificationResponse, 3)
				for i := range out {
					out[i] = notification.NotificationResponse{
						ID:          uuid.New().String(),
						Type:        notification.TypeLeave,
						RecipientID: employeeID,
					}
				}
				return out, nil
			},
		}
		h := notification.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/notifications/mine?page=1&page_size=2", nil)
		setAuthContext(c, employeeID)

		h.ListMine(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []notification.NotificationResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 2)
	})

	t.Run("negative invalid scope", func(t *testing.T) {
		svc := &fakeNotificationService{
			listFn: func(ctx context.Context, scope domain.Scope) ([]notification.NotificationResponse, error) {
				return nil, notificationerrors.ErrInvalidRecipient
			},
		}
		h := notification.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/notifications/mine", nil)

		h.ListMine(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNotificationHandler_UnseenCount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		employeeID := uuid.New().String()
		svc := &fakeNotificationService{
			unseenCountFn: func(ctx context.Context, scope domain.Scope) (int64, error) {
				assert.Equal(t, employeeID, scope.EmployeeID)
				return 5, nil
			},
		}
		h := notification.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/notifications/unseen/count", nil)
		setAuthContext(c, employeeID)

		h.UnseenCount(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got notification.UnseenCountResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, int64(5), got.Count)
	})
}

func TestNotificationHandler_MarkSeen(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		notificationID := uuid.New().String()
		employeeID := uuid.New().String()
		svc := &fakeNotificationService{
			markSeenFn: func(ctx context.Context, scope domain.Scope, id string) error {
				assert.Equal(t, notificationID, id)
				assert.Equal(t, employeeID, scope.EmployeeID)
				return nil
			},
		}
		h := notification.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/notifications/"+notificationID+"/seen", nil)
		c.Params = gin.Params{{Key: "id", Value: notificationID}}
		setAuthContext(c, employeeID)

		h.MarkSeen(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeNotificationService{
			markSeenFn: func(ctx context.Context, scope domain.Scope, id string) error {
				return notificationerrors.ErrNotificationNotFound
			},
		}
		h := notification.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		notificationID := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodPatch, "/notifications/"+notificationID+"/seen", nil)
		c.Params = gin.Params{{Key: "id", Value: notificationID}}
		setAuthContext(c, uuid.New().String())

		h.MarkSeen(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestNotificationHandler_Delete(t *testing.T) {
	t.Run("success returns no content", func(t *testing.T) {
		notificationID := uuid.New().String()
		svc := &fakeNotificationService{
			deleteFn: func(ctx context.Context, scope domain.Scope, id string) error {
				assert.Equal(t, notificationID, id)
				return nil
			},
		}
		h := notification.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodDelete, "/notifications/"+notificationID, nil)
		c.Params = gin.Params{{Key: "id", Value: notificationID}}
		setAuthContext(c, uuid.New().String())

		h.Delete(c)
		c.Writer.WriteHeaderNow()

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeNotificationService{
			deleteFn: func(ctx context.Context, scope domain.Scope, id string) error {
				return notificationerrors.ErrNotificationNotFound
			},
		}
		h := notification.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		notificationID := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodDelete, "/notifications/"+notificationID, nil)
		c.Params = gin.Params{{Key: "id", Value: notificationID}}
		setAuthContext(c, uuid.New().String())

		h.Delete(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
