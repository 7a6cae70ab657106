package department

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=department_repo.go -destination=mock/department_repo_mock.go -package=mock
type Repository interface {
	FindAll(ctx context.Context) ([]Department, error)
	FindByID(ctx context.Context, id string) (*Department, error)
	HeadOf(ctx context.Context, departmentID string) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAll(ctx context.Context) ([]Department, error) {
	var depts []Department
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&depts).Error
	return depts, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Department, error) {
	var d Department
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

// HeadOf returns the head's employee id, or empty when the department exists
// without an assigned head.
func (r *repository) HeadOf(ctx context.Context, departmentID string) (string, error) {
	d, err := r.FindByID(ctx, departmentID)
	if err != nil {
		return "", err
	}
	if d.HeadEmployeeID == nil {
		return "", nil
	}
	return d.HeadEmployeeID.String(), nil
}
