// Package eventpolicy provides authorization policies for event listings.
//
// Authorization rules, evaluated in order (first match wins):
//   - Admins lacking the manage_events permission cannot moderate, even
//     though they are correctly authenticated as admin
//   - Moderation (approve/reject/feature/deactivate) is admin-only
//   - The organizer who owns an event can edit and delete it
//   - Anyone, including anonymous visitors, can read a publicly visible
//     event (approved and active)
//   - Admins can read any event regardless of visibility
//   - Everything else is denied
//
// Policies are pure functions over an authz.Viewer and an event; they never
// touch the database or the request. Callers decide how a denial surfaces.
// Denied reads must surface as not found, never forbidden, so callers cannot
// probe for events they may not see.
package eventpolicy

import (
	"github.com/wayfarehq/wayfare/internal/app/system/authz"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// ListFilter returns the Mongo filter selecting the events the viewer may
// list. Anonymous viewers and non-admin roles see publicly visible events
// plus, for organizers, their own events in any state. Admins see everything.
//
// scope narrows the result set (e.g. {"city_ci": "lisbon"} or
// {"organizer_id": id}); it is ANDed with the visibility filter and can
// never widen what the viewer is authorized to see.
func ListFilter(viewer authz.Viewer, scope bson.M) bson.M {
	base := visibilityFilter(viewer)
	if len(scope) == 0 {
		return base
	}
	if len(base) == 0 {
		// Admin: scope alone.
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
	if viewer.Role == models.RoleOrganizer {
		return bson.M{"$or": bson.A{
			public,
			bson.M{"organizer_id": viewer.ID},
		}}
	}
	return public
}

// CanView reports whether the viewer may read the event. Mirrors ListFilter:
// public visibility for everyone, ownership for the organizer, everything
// for admins.
func CanView(viewer authz.Viewer, ev models.Event) bool {
	if ev.PubliclyVisible() {
		return true
	}
	if viewer.IsAdmin() {
		return true
	}
	return viewer.Owns(ev.OrganizerID)
}

// CanEdit reports whether the viewer may update or delete the event. Only
// the owning organizer may; admins act on events through moderation, not
// edits.
func CanEdit(viewer authz.Viewer, ev models.Event) bool {
	return viewer.Owns(ev.OrganizerID)
}

// CanModerate reports whether the viewer may approve, reject, feature, or
// toggle activation on events. Requires the admin role and the manage_events
// permission; an admin without it is denied despite the role.
func CanModerate(viewer authz.Viewer) bool {
	return viewer.HasPermission(models.PermManageEvents)
}
