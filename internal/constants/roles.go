package constants

// Role is carried in the JWT "role" claim
type Role string

const (
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }
