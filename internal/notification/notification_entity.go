package notification

import (
	"fmt"
	"strings"
	"time"

	"go-hrms/internal/domain"

	"github.com/google/uuid"
)

const (
	TypeLeave       = "LEAVE"
	TypeRequisition = "REQUISITION"
	TypeGeneral     = "GENERAL"
	TypeUrgent      = "URGENT"
)

type Notification struct {
	ID            uuid.UUID
	Type          string
	Message       string
	RecipientRole string
	RecipientID   uuid.UUID
	ReferenceID   uuid.UUID
	Seen          bool
	CreatedAt     time.Time
	SeenAt        *time.Time
}

// NewLeaveRequested addresses the department head when an employee files a
// leave request. The message is composed here; clients never supply it.
func NewLeaveRequested(referenceID, headEmployeeID uuid.UUID, employeeName, leaveType, startDate, endDate string) *Notification {
	return &Notification{
		ID:            uuid.New(),
		Type:          TypeLeave,
		Message:       fmt.Sprintf("%s filed a %s leave request for %s to %s", employeeName, strings.ToLower(leaveType), startDate, endDate),
		RecipientRole: domain.RoleDepartmentHead,
		RecipientID:   headEmployeeID,
		ReferenceID:   referenceID,
	}
}

// NewLeaveDecided addresses the requesting employee once the request leaves
// the pending state.
func NewLeaveDecided(referenceID, employeeID uuid.UUID, status string) *Notification {
	return &Notification{
		ID:            uuid.New(),
		Type:          TypeLeave,
		Message:       fmt.Sprintf("Your leave request was %s", strings.ToLower(status)),
		RecipientRole: domain.RoleEmployee,
		RecipientID:   employeeID,
		ReferenceID:   referenceID,
	}
}
