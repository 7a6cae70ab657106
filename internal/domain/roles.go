package domain

// Role names carried in the JWT and on notification recipients.
const (
	RoleAdmin          = "ADMIN"
	RoleDepartmentHead = "DEPARTMENT_HEAD"
	RoleEmployee       = "EMPLOYEE"
)

// Scope is the resolved caller identity every service operation receives.
// It comes from the auth middleware, never from request bodies.
type Scope struct {
	UserID       string
	EmployeeID   string
	DepartmentID string
	Role         string
}

// EnforceRequest is the tuple the RBAC layer answers for.
type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}
