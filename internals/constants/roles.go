package constants

import "fmt"

const (
	RoleMainAdmin = "main_admin"
	RoleAdmin     = "admin"
	RoleUser      = "user"
)

// Keys c.Locals yang diisi AuthMiddleware (HARUS seragam di semua handler)
const (
	LocUserID   = "user_id"
	LocUserRole = "userRole"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess    = "Only admin or main admin can %s"
	ErrOnlyMainAdminCanAccess = "Only main admin can %s"
)

func RoleErrorAdmin(action string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, action)
}

func RoleErrorMainAdmin(action string) string {
	return fmt.Sprintf(ErrOnlyMainAdminCanAccess, action)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleMainAdmin,
		RoleAdmin,
		RoleUser,
	}

	AdminAndAbove = []string{
		RoleMainAdmin,
		RoleAdmin,
	}

	MainAdminOnly = []string{
		RoleMainAdmin,
	}

	// role yang boleh di-set lewat updateUserRole
	AssignableRoles = []string{
		RoleUser,
		RoleAdmin,
	}
)

func IsKnownRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
