package leaverequest

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type LeaveRequest struct {
	ID           uuid.UUID
	EmployeeID   uuid.UUID
	DepartmentID uuid.UUID

	LeaveType   string
	StartDate   time.Time
	EndDate     time.Time
	TotalDays   int
	Reason      string
	Attachments pq.StringArray

	Status       string
	DecidedBy    *uuid.UUID
	DecidedAt    *time.Time
	DecisionNote *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
