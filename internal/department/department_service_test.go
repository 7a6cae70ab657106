package department_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hrms/internal/department"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeDepartmentRepository struct {
	findAllFn  func(ctx context.Context) ([]department.Department, error)
	findByIDFn func(ctx context.Context, id string) (*department.Department, error)
	headOfFn   func(ctx context.Context, departmentID string) (string, error)
}

func (f *fakeDepartmentRepository) FindAll(ctx context.Context) ([]department.Department, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeDepartmentRepository) FindByID(ctx context.Context, id string) (*department.Department, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDepartmentRepository) HeadOf(ctx context.Context, departmentID string) (string, error) {
	if f.headOfFn != nil {
		return f.headOfFn(ctx, departmentID)
	}
	return "", nil
}

func TestDepartmentService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		headID := uuid.New()
		repo := &fakeDepartmentRepository{
			findAllFn: func(ctx context.Context) ([]department.Department, error) {
				return []department.Department{
					{ID: uuid.New(), Name: "Engineering", HeadEmployeeID: &headID, CreatedAt: time.Now()},
					{ID: uuid.New(), Name: "Finance", CreatedAt: time.Now()},
				}, nil
			},
		}
		svc := department.NewService(repo)

		resp, err := svc.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "Engineering", resp[0].Name)
		assert.NotNil(t, resp[0].HeadEmployeeID)
		assert.Equal(t, headID.String(), *resp[0].HeadEmployeeID)
		assert.Nil(t, resp[1].HeadEmployeeID)
	})

	t.Run("negative repo error", func(t *testing.T) {
		repo := &fakeDepartmentRepository{
			findAllFn: func(ctx context.Context) ([]department.Department, error) {
				return nil, errors.New("db error")
			},
		}
		svc := department.NewService(repo)

		resp, err := svc.GetAll(ctx)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestDepartmentService_GetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo := &fakeDepartmentRepository{
			findByIDFn: func(ctx context.Context, got string) (*department.Department, error) {
				assert.Equal(t, id.String(), got)
				return &department.Department{ID: id, Name: "People Ops", CreatedAt: time.Now()}, nil
			},
		}
		svc := department.NewService(repo)

		resp, err := svc.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
		assert.Equal(t, "People Ops", resp.Name)
	})

	t.Run("negative missing department", func(t *testing.T) {
		repo := &fakeDepartmentRepository{
			findByIDFn: func(ctx context.Context, got string) (*department.Department, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := department.NewService(repo)

		_, err := svc.GetByID(ctx, id.String())

		assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
	})
}
