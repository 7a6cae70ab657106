package leaverequest

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// Repository is raw SQL so the engine can run its writes, the notification
// fan-out, and the outbox append in one transaction.
//
//go:generate mockgen -source=leave_request_repo.go -destination=mock/leave_request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindAllByDepartment(ctx context.Context, departmentID string) ([]LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	DecidePending(ctx context.Context, id, status, decidedBy string, note *string) (int64, error)
	DeletePendingOwned(ctx context.Context, id, employeeID string) (int64, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

const selectColumns = `
	id, employee_id, department_id, leave_type, start_date, end_date,
	total_days, reason, attachments, status, decided_by, decided_at,
	decision_note, created_at, updated_at
`

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	query := `
        INSERT INTO leave_requests (
            id, employee_id, department_id, leave_type, start_date, end_date,
            total_days, reason, attachments, status
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `

	_, err := r.execer().ExecContext(
		ctx, query,
		lr.ID, lr.EmployeeID, lr.DepartmentID, lr.LeaveType,
		lr.StartDate, lr.EndDate, lr.TotalDays, lr.Reason,
		pq.Array(lr.Attachments), lr.Status,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	query := `SELECT ` + selectColumns + ` FROM leave_requests WHERE id = $1`

	var lr LeaveRequest
	err := r.queryer().QueryRowContext(ctx, query, id).Scan(
		&lr.ID, &lr.EmployeeID, &lr.DepartmentID, &lr.LeaveType,
		&lr.StartDate, &lr.EndDate, &lr.TotalDays, &lr.Reason,
		&lr.Attachments, &lr.Status, &lr.DecidedBy, &lr.DecidedAt,
		&lr.DecisionNote, &lr.CreatedAt, &lr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	query := `SELECT ` + selectColumns + `
FROM leave_requests
WHERE employee_id = $1
ORDER BY created_at DESC, id DESC`

	return r.queryList(ctx, query, employeeID)
}

func (r *repository) FindAllByDepartment(ctx context.Context, departmentID string) ([]LeaveRequest, error) {
	query := `SELECT ` + selectColumns + `
FROM leave_requests
WHERE department_id = $1
ORDER BY created_at DESC, id DESC`

	return r.queryList(ctx, query, departmentID)
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	query := `SELECT ` + selectColumns + `
FROM leave_requests
ORDER BY created_at DESC, id DESC`

	return r.queryList(ctx, query)
}

// DecidePending is the single serialization point for decisions: the UPDATE
// only matches while the row is still pending, so of two racing deciders
// exactly one observes rows-affected 1. The loser must not fall through to
// the notification fan-out.
func (r *repository) DecidePending(ctx context.Context, id, status, decidedBy string, note *string) (int64, error) {
	query := `
UPDATE leave_requests
SET
	status = $2,
	decided_by = $3,
	decided_at = NOW(),
	decision_note = $4,
	updated_at = NOW()
WHERE id = $1 AND status = 'PENDING'
`

	res, err := r.execer().ExecContext(ctx, query, id, status, decidedBy, note)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeletePendingOwned removes the request iff it is still pending and owned by
// the caller. Fan-out notifications from its creation are left untouched.
func (r *repository) DeletePendingOwned(ctx context.Context, id, employeeID string) (int64, error) {
	query := `
DELETE FROM leave_requests
WHERE id = $1 AND employee_id = $2 AND status = 'PENDING'
`

	res, err := r.execer().ExecContext(ctx, query, id, employeeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) queryList(ctx context.Context, query string, args ...any) ([]LeaveRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		var lr LeaveRequest
		if err := rows.Scan(
			&lr.ID, &lr.EmployeeID, &lr.DepartmentID, &lr.LeaveType,
			&lr.StartDate, &lr.EndDate, &lr.TotalDays, &lr.Reason,
			&lr.Attachments, &lr.Status, &lr.DecidedBy, &lr.DecidedAt,
			&lr.DecisionNote, &lr.CreatedAt, &lr.UpdatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) queryer() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
