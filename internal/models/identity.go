package models

// Role is the authorization level of an identity
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Identity is the resolved caller of an operation, as produced by the
// connection gatekeeper from a bearer credential.
type Identity struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
	IsActive  bool   `json:"isActive"`
}

// DisplayName returns the human-readable name used in broadcast payloads
func (i *Identity) DisplayName() string {
	if i.FirstName == "" && i.LastName == "" {
		return i.Username
	}
	return i.FirstName + " " + i.LastName
}

// IsAdmin reports whether the identity may perform mutating operations
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Ref converts the identity into a display-only reference for room records
func (i *Identity) Ref() *UserRef {
	return &UserRef{
		ID:       i.ID,
		Username: i.Username,
		Name:     i.DisplayName(),
	}
}
