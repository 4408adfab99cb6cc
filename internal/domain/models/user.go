// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents every actor in the marketplace: travelers, organizers,
// venue hosts, doctors, and admins.
//
// NOTE:
//   - Permissions is only populated for admins. Non-admin roles are
//     authorized purely by Role plus resource ownership.
//   - PasswordHash is empty for Google-authenticated accounts.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	EmailCI    string             `bson:"email_ci" json:"-"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`

	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string `bson:"auth_method" json:"auth_method"` // password | google

	Role        string   `bson:"role" json:"role"`
	Status      string   `bson:"status" json:"status"` // active | disabled
	Permissions []string `bson:"permissions,omitempty" json:"permissions,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasPermission reports whether the user carries the given admin permission.
// Always false for non-admin roles, even if the slice is populated.
func (u User) HasPermission(perm string) bool {
	if u.Role != RoleAdmin {
		return false
	}
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
