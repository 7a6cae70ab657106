package department

type DepartmentResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	HeadEmployeeID *string `json:"head_employee_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}
