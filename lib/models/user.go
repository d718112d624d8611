package models

// User roles
const (
	RoleAdmin            = "admin"
	RoleProjectManager   = "project_manager"
	RoleSiteEngineer     = "site_engineer"
	RoleForeman          = "foreman"
	RoleWorker           = "worker"
	RoleSafetyOfficer    = "safety_officer"
	RoleQualityInspector = "quality_inspector"
)

// UserRoles is the fixed role vocabulary, in display order
var UserRoles = []string{
	RoleAdmin,
	RoleProjectManager,
	RoleSiteEngineer,
	RoleForeman,
	RoleWorker,
	RoleSafetyOfficer,
	RoleQualityInspector,
}

// IsValidRole reports whether role belongs to the vocabulary
func IsValidRole(role string) bool {
	for _, r := range UserRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is an account on the construction API
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Role       string `json:"role"`
	Phone      string `json:"phone,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	Department string `json:"department,omitempty"`
	IsActive   bool   `json:"is_active"`
}

func (u User) GetID() int64 { return u.ID }

// CreateUserRequest is the new-user form payload
type CreateUserRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Role       string `json:"role"`
	Phone      string `json:"phone,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	Department string `json:"department,omitempty"`
	IsActive   bool   `json:"is_active"`
}

// UpdateUserRequest is the edit-user form payload
type UpdateUserRequest struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Role       string `json:"role"`
	Phone      string `json:"phone,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	Department string `json:"department,omitempty"`
	IsActive   bool   `json:"is_active"`
}

// SetActiveRequest toggles the is_active flag
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}
