// internal/domain/models/permissions.go
package models

// Fine-grained admin permissions.
//
// Every admin carries a subset of these in User.Permissions. Route middleware
// only checks the admin role; operations that require a specific permission
// check it explicitly and reject admins that lack it.
const (
	PermManageEvents    = "manage_events"    // approve/reject/feature events
	PermManageVenues    = "manage_venues"    // approve/reject/feature venues
	PermManageUsers     = "manage_users"     // disable/enable accounts
	PermManageAdmins    = "manage_admins"    // create admins, grant permissions
	PermFinancialAccess = "financial_access" // booking revenue reports
)

// Permissions is the full set of allowed permission identifiers.
var Permissions = []string{
	PermManageEvents,
	PermManageVenues,
	PermManageUsers,
	PermManageAdmins,
	PermFinancialAccess,
}

// IsValidPermission reports whether perm is a known permission identifier.
func IsValidPermission(perm string) bool {
	for _, p := range Permissions {
		if perm == p {
			return true
		}
	}
	return false
}
