// Package venuepolicy provides authorization policies for venue listings
// (hotels, restaurants, hidden gems).
//
// Authorization rules, evaluated in order (first match wins):
//   - Admins lacking the manage_venues permission cannot moderate
//   - Moderation is admin-only
//   - The host who owns a venue can edit and delete it
//   - Anyone can read a publicly visible venue (approved and active)
//   - Admins can read any venue regardless of visibility
//   - Everything else is denied
//
// See eventpolicy for the shared rationale; the two policies differ only in
// the owner reference, the owning role, and the required admin permission.
package venuepolicy

import (
	"github.com/wayfarehq/wayfare/internal/app/system/authz"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// ListFilter returns the Mongo filter selecting the venues the viewer may
// list. scope narrows the result (e.g. {"kind": "hotel"}) and never widens
// it.
func ListFilter(viewer authz.Viewer, scope bson.M) bson.M {
	base := visibilityFilter(viewer)
	if len(scope) == 0 {
		return base
	}
	if len(base) == 0 {
		out := bson.M{}
		for k, v := range scope {
			out[k] = v
		}
		return out
	}
	return bson.M{"$and": bson.A{base, scope}}
}

func visibilityFilter(viewer authz.Viewer) bson.M {
	if viewer.IsAdmin() {
		return bson.M{}
	}
	public := bson.M{
		"approval_status": models.ApprovalApproved,
		"active":          true,
	}
	if viewer.Role == models.RoleVenueHost {
		return bson.M{"$or": bson.A{
			public,
			bson.M{"host_id": viewer.ID},
		}}
	}
	return public
}

// CanView reports whether the viewer may read the venue.
func CanView(viewer authz.Viewer, v models.Venue) bool {
	if v.PubliclyVisible() {
		return true
	}
	if viewer.IsAdmin() {
		return true
	}
	return viewer.Owns(v.HostID)
}

// CanEdit reports whether the viewer may update or delete the venue. Only
// the owning host may.
func CanEdit(viewer authz.Viewer, v models.Venue) bool {
	return viewer.Owns(v.HostID)
}

// CanModerate reports whether the viewer may approve, reject, feature, or
// toggle activation on venues. Requires the admin role and the manage_venues
// permission.
func CanModerate(viewer authz.Viewer) bool {
	return viewer.HasPermission(models.PermManageVenues)
}
