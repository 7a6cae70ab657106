package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-hrms/internal/department"
	"go-hrms/internal/domain"
	"go-hrms/internal/employee"
	"go-hrms/internal/events"
	leaverequesterrors "go-hrms/internal/leaverequest/errors"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/notification"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const maxAttachments = 5

var leaveTypes = map[string]struct{}{
	"ANNUAL":    {},
	"SICK":      {},
	"MATERNITY": {},
	"PATERNITY": {},
	"EMERGENCY": {},
	"UNPAID":    {},
}

//go:generate mockgen -source=leave_request_service.go -destination=mock/leave_request_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, scope domain.Scope, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	GetMine(ctx context.Context, scope domain.Scope) ([]LeaveRequestResponse, error)
	GetForDepartment(ctx context.Context, scope domain.Scope) ([]LeaveRequestResponse, error)
	GetAll(ctx context.Context) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, scope domain.Scope, id string) (LeaveRequestResponse, error)
	Decide(ctx context.Context, scope domain.Scope, id string, req DecideLeaveRequestRequest) (LeaveRequestResponse, error)
	Withdraw(ctx context.Context, scope domain.Scope, id string) error
}

type service struct {
	db            *sql.DB
	repo          Repository
	notifications notification.Repository
	departments   department.Repository
	employees     employee.Repository
	outbox        kafka.OutboxRepository
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	notifications notification.Repository,
	departments department.Repository,
	employees employee.Repository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, notifications, departments, employees, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	notifications notification.Repository,
	departments department.Repository,
	employees employee.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		notifications: notifications,
		departments:   departments,
		employees:     employees,
		outbox:        outboxRepo,
		logger:        l,
	}
}

// Submit creates the request in PENDING state and fans out exactly one
// notification to the department head, atomically with the request write.
func (s *service) Submit(ctx context.Context, scope domain.Scope, req CreateLeaveRequestRequest) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit leave request",
		zap.String("request_id", rid),
		zap.String("employee_id", scope.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, startDate, endDate, err := validateSubmitRequest(scope, req)
	if err != nil {
		s.logger.Warn("submit leave request validation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	// The employee's department at time of filing is authoritative; a later
	// transfer does not retarget this request.
	empl, err := s.employees.FindByID(ctx, scope.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrEmployeeNotFound
		}
		s.logger.Error("submit leave request employee lookup failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	headID, err := s.departments.HeadOf(ctx, empl.DepartmentID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrDepartmentHeadMissing
		}
		s.logger.Error("submit leave request head lookup failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if headID == "" {
		s.logger.Warn("submit leave request department has no head",
			zap.String("department_id", empl.DepartmentID.String()),
		)
		return LeaveRequestResponse{}, leaverequesterrors.ErrDepartmentHeadMissing
	}

	lr := &LeaveRequest{
		ID:           uuid.New(),
		EmployeeID:   employeeUUID,
		DepartmentID: empl.DepartmentID,
		LeaveType:    req.LeaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		TotalDays:    int(endDate.Sub(startDate).Hours()/24) + 1,
		Reason:       strings.TrimSpace(req.Reason),
		Attachments:  pq.StringArray(req.Attachments),
		Status:       StatusPending,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, lr); err != nil {
		s.logger.Error("submit leave request persist failed", zap.Error(err))
		return LeaveRequestResponse{}, mapWriteError(err)
	}

	n := notification.NewLeaveRequested(
		lr.ID,
		uuid.MustParse(headID),
		empl.FullName,
		lr.LeaveType,
		lr.StartDate.Format("2006-01-02"),
		lr.EndDate.Format("2006-01-02"),
	)
	if err := s.notifications.WithTx(tx).Create(ctx, n); err != nil {
		s.logger.Error("submit leave request notification persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := s.queueOutboxEvent(ctx, tx, lr.ID.String(), events.EventLeaveRequested, events.LeaveRequestedEvent{
		EventType:      events.EventLeaveRequested,
		RequestID:      rid,
		LeaveRequestID: lr.ID.String(),
		EmployeeID:     lr.EmployeeID.String(),
		DepartmentID:   lr.DepartmentID.String(),
		HeadEmployeeID: headID,
		LeaveType:      lr.LeaveType,
		StartDate:      lr.StartDate.Format("2006-01-02"),
		EndDate:        lr.EndDate.Format("2006-01-02"),
		OccurredAt:     time.Now().UTC(),
	}); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave request commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request submitted",
		zap.String("leave_request_id", lr.ID.String()),
		zap.String("employee_id", lr.EmployeeID.String()),
		zap.String("department_id", lr.DepartmentID.String()),
	)

	return mapToResponse(*lr), nil
}

func (s *service) GetMine(ctx context.Context, scope domain.Scope) ([]LeaveRequestResponse, error) {
	if _, err := uuid.Parse(scope.EmployeeID); err != nil {
		return nil, leaverequesterrors.ErrInvalidEmployeeID
	}

	requests, err := s.repo.FindAllByEmployee(ctx, scope.EmployeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetForDepartment(ctx context.Context, scope domain.Scope) ([]LeaveRequestResponse, error) {
	if _, err := uuid.Parse(scope.DepartmentID); err != nil {
		return nil, leaverequesterrors.ErrInvalidDepartmentID
	}

	requests, err := s.repo.FindAllByDepartment(ctx, scope.DepartmentID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, scope domain.Scope, id string) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	if !canRead(scope, lr) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveRequestNotFound
	}

	return mapToResponse(*lr), nil
}

// Decide transitions a pending request to its terminal state and fans out
// exactly one notification to the requesting employee. Authorization is
// re-checked here regardless of what the route middleware already enforced.
func (s *service) Decide(ctx context.Context, scope domain.Scope, id string, req DecideLeaveRequestRequest) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide leave request",
		zap.String("request_id", rid),
		zap.String("leave_request_id", id),
		zap.String("actor_id", scope.EmployeeID),
		zap.String("decision", req.Decision),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}
	actorUUID, err := uuid.Parse(scope.EmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}
	if req.Decision != StatusApproved && req.Decision != StatusRejected {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDecision
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	// Heads only decide within their own department; everyone else learns
	// nothing about the request's existence.
	if scope.Role != domain.RoleDepartmentHead || scope.DepartmentID != lr.DepartmentID.String() {
		return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveRequestNotFound
	}

	if lr.Status != StatusPending {
		s.logger.Warn("decide leave request already decided",
			zap.String("leave_request_id", id),
			zap.String("status", lr.Status),
		)
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyDecided
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	affected, err := qtx.DecidePending(ctx, id, req.Decision, scope.EmployeeID, req.Note)
	if err != nil {
		s.logger.Error("decide leave request persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if affected == 0 {
		// Another decision won the race between our read and this update.
		s.logger.Warn("decide leave request lost race",
			zap.String("leave_request_id", id),
			zap.String("actor_id", scope.EmployeeID),
		)
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyDecided
	}

	n := notification.NewLeaveDecided(lr.ID, lr.EmployeeID, req.Decision)
	if err := s.notifications.WithTx(tx).Create(ctx, n); err != nil {
		s.logger.Error("decide leave request notification persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := s.queueOutboxEvent(ctx, tx, lr.ID.String(), events.EventLeaveDecided, events.LeaveDecidedEvent{
		EventType:      events.EventLeaveDecided,
		RequestID:      rid,
		LeaveRequestID: lr.ID.String(),
		EmployeeID:     lr.EmployeeID.String(),
		DecidedBy:      scope.EmployeeID,
		Status:         req.Decision,
		OccurredAt:     time.Now().UTC(),
	}); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave request commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	now := time.Now().UTC()
	lr.Status = req.Decision
	lr.DecidedBy = &actorUUID
	lr.DecidedAt = &now
	lr.DecisionNote = req.Note

	s.logger.Info("leave request decided",
		zap.String("leave_request_id", id),
		zap.String("status", lr.Status),
		zap.String("decided_by", scope.EmployeeID),
	)

	return mapToResponse(*lr), nil
}

// Withdraw deletes the caller's own pending request. Notifications already
// fanned out from its creation stay: they are an audit trail, not a mirror.
func (s *service) Withdraw(ctx context.Context, scope domain.Scope, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaverequesterrors.ErrInvalidRequestID
	}
	if _, err := uuid.Parse(scope.EmployeeID); err != nil {
		return leaverequesterrors.ErrInvalidEmployeeID
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leaverequesterrors.ErrLeaveRequestNotFound
		}
		return err
	}

	if lr.EmployeeID.String() != scope.EmployeeID {
		return leaverequesterrors.ErrLeaveRequestNotFound
	}
	if lr.Status != StatusPending {
		return leaverequesterrors.ErrWithdrawNotPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	affected, err := qtx.DeletePendingOwned(ctx, id, scope.EmployeeID)
	if err != nil {
		s.logger.Error("withdraw leave request delete failed",
			zap.String("leave_request_id", id),
			zap.Error(err),
		)
		return err
	}
	if affected == 0 {
		// Decided between our read and the delete.
		return leaverequesterrors.ErrWithdrawNotPending
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("leave request withdrawn",
		zap.String("leave_request_id", id),
		zap.String("employee_id", scope.EmployeeID),
	)

	return nil
}

func (s *service) queueOutboxEvent(ctx context.Context, tx *sql.Tx, aggregateID, eventType string, event any) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave event failed", zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("queue leave outbox event failed",
			zap.String("leave_request_id", aggregateID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func canRead(scope domain.Scope, lr *LeaveRequest) bool {
	switch {
	case scope.Role == domain.RoleAdmin:
		return true
	case lr.EmployeeID.String() == scope.EmployeeID:
		return true
	case scope.Role == domain.RoleDepartmentHead && lr.DepartmentID.String() == scope.DepartmentID:
		return true
	default:
		return false
	}
}

func validateSubmitRequest(scope domain.Scope, req CreateLeaveRequestRequest) (uuid.UUID, time.Time, time.Time, error) {
	employeeUUID, err := uuid.Parse(scope.EmployeeID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidEmployeeID
	}
	if _, ok := leaveTypes[req.LeaveType]; !ok {
		return uuid.Nil, time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidLeaveType
	}
	if strings.TrimSpace(req.Reason) == "" {
		return uuid.Nil, time.Time{}, time.Time{}, leaverequesterrors.ErrReasonRequired
	}
	if len(req.Attachments) > maxAttachments {
		return uuid.Nil, time.Time{}, time.Time{}, leaverequesterrors.ErrTooManyAttachments
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return uuid.Nil, time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidDateRange
	}
	return employeeUUID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(lr LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:           lr.ID.String(),
		EmployeeID:   lr.EmployeeID.String(),
		DepartmentID: lr.DepartmentID.String(),
		LeaveType:    lr.LeaveType,
		StartDate:    lr.StartDate.Format("2006-01-02"),
		EndDate:      lr.EndDate.Format("2006-01-02"),
		TotalDays:    lr.TotalDays,
		Reason:       lr.Reason,
		Attachments:  []string(lr.Attachments),
		Status:       lr.Status,
		DecisionNote: lr.DecisionNote,
		CreatedAt:    lr.CreatedAt.Format(time.RFC3339),
	}
	if lr.DecidedBy != nil {
		v := lr.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if lr.DecidedAt != nil {
		v := lr.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, lr := range requests {
		resp[i] = mapToResponse(lr)
	}
	return resp
}
