// internal/domain/models/roles.go
package models

// Canonical role identifiers.
//
// These values are stored in the database in the User.Role field and are
// used for route-level authorization throughout the application.
const (
	RoleTraveler  = "traveler"  // end user browsing and booking
	RoleOrganizer = "organizer" // creates and manages events
	RoleVenueHost = "venuehost" // creates and manages venues / hidden gems
	RoleDoctor    = "doctor"    // receives medical appointments
	RoleAdmin     = "admin"     // moderates content and manages the platform
)

// Account status values stored in User.Status.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Roles is the full set of allowed role identifiers. Treat this slice as the
// single source of truth for validation and schema enums.
var Roles = []string{
	RoleTraveler,
	RoleOrganizer,
	RoleVenueHost,
	RoleDoctor,
	RoleAdmin,
}

// SignupRoles are the roles a caller may self-register as. Admin accounts
// are only created by other admins (or the startup root-admin bootstrap).
var SignupRoles = []string{
	RoleTraveler,
	RoleOrganizer,
	RoleVenueHost,
	RoleDoctor,
}

// IsValidRole reports whether role is one of the canonical identifiers.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if role == r {
			return true
		}
	}
	return false
}
