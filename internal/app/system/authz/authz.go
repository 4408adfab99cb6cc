// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Viewer is the authorization identity for one request: who is calling and
// what they may do. It is derived once from the session and passed into the
// policy layer, rather than each policy re-reading request state.
//
// The zero value is the anonymous visitor.
type Viewer struct {
	ID          primitive.ObjectID
	Name        string
	Role        string // "" for anonymous
	Permissions []string
}

// Anonymous reports whether the viewer is unauthenticated.
func (v Viewer) Anonymous() bool {
	return v.Role == ""
}

// IsAdmin reports whether the viewer has the admin role.
func (v Viewer) IsAdmin() bool {
	return v.Role == models.RoleAdmin
}

// HasPermission reports whether the viewer carries the given admin
// permission. Always false for non-admin viewers.
func (v Viewer) HasPermission(perm string) bool {
	if !v.IsAdmin() {
		return false
	}
	for _, p := range v.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Owns reports whether the viewer is the owner referenced by ownerID.
func (v Viewer) Owns(ownerID primitive.ObjectID) bool {
	return !v.Anonymous() && v.ID == ownerID
}

// ViewerCtx builds the request's Viewer from the session user loaded by
// auth.LoadSessionUser. A missing user or malformed user ID yields the
// anonymous viewer; callers can trust that a non-anonymous viewer carries a
// valid ObjectID.
func ViewerCtx(r *http.Request) Viewer {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return Viewer{}
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return Viewer{}
	}
	return Viewer{
		ID:          oid,
		Name:        u.Name,
		Role:        strings.ToLower(u.Role),
		Permissions: u.Permissions,
	}
}

// UserCtx returns the viewer's role, name, ObjectID, and a signed-in flag.
// Convenience for handlers that only need identity, not the full Viewer.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	v := ViewerCtx(r)
	if v.Anonymous() {
		return "", "", primitive.NilObjectID, false
	}
	return v.Role, v.Name, v.ID, true
}
