package leaverequest

type CreateLeaveRequestRequest struct {
	LeaveType   string   `json:"leave_type" binding:"required,oneof=ANNUAL SICK MATERNITY PATERNITY EMERGENCY UNPAID"`
	StartDate   string   `json:"start_date" binding:"required"`
	EndDate     string   `json:"end_date" binding:"required"`
	Reason      string   `json:"reason" binding:"required"`
	Attachments []string `json:"attachments" binding:"omitempty,max=5"`
}

type DecideLeaveRequestRequest struct {
	Decision string  `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Note     *string `json:"note"`
}

type LeaveRequestResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	DepartmentID string   `json:"department_id"`
	LeaveType    string   `json:"leave_type"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	TotalDays    int      `json:"total_days"`
	Reason       string   `json:"reason"`
	Attachments  []string `json:"attachments,omitempty"`
	Status       string   `json:"status"`
	DecidedBy    *string  `json:"decided_by,omitempty"`
	DecidedAt    *string  `json:"decided_at,omitempty"`
	DecisionNote *string  `json:"decision_note,omitempty"`
	CreatedAt    string   `json:"created_at"`
}
