// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, writing the JSON error
// envelope when checks fail.
//
// # Three-Tier Authorization Pattern
//
// Wayfare uses a three-tier authorization approach:
//
//  1. Route-Level Middleware (auth.RequireSignedIn, auth.RequireRole)
//     Applied in routes.go files for coarse-grained access control.
//     When middleware handles role checking, handlers don't need gates.
//
//  2. Handler-Level Gates (this package)
//     Used in handlers that need checks beyond what the route middleware
//     enforced - most importantly RequirePermission, since route middleware
//     only checks the admin role, never the admin's permission set.
//
//  3. Policy Layer (internal/app/policy/*)
//     Used for resource-specific authorization: ownership and the public
//     visibility invariant. Policies are pure functions over a Viewer and
//     a resource; callers handle error writing.
package gates

import (
	"net/http"

	"github.com/wayfarehq/wayfare/internal/app/system/authz"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
)

// RequireViewer ensures the caller is authenticated.
// On failure it writes a 401 envelope and returns ok=false.
func RequireViewer(w http.ResponseWriter, r *http.Request) (authz.Viewer, bool) {
	v := authz.ViewerCtx(r)
	if v.Anonymous() {
		httperr.Unauthenticated(w, "")
		return authz.Viewer{}, false
	}
	return v, true
}

// RequirePermission ensures the caller is an admin holding the given
// fine-grained permission. Correctly authenticated admins lacking the
// permission get a 403 despite their role.
func RequirePermission(w http.ResponseWriter, r *http.Request, perm string) (authz.Viewer, bool) {
	v := authz.ViewerCtx(r)
	if v.Anonymous() {
		httperr.Unauthenticated(w, "")
		return authz.Viewer{}, false
	}
	if !v.HasPermission(perm) {
		httperr.Forbidden(w, "Your admin account does not include this permission.")
		return authz.Viewer{}, false
	}
	return v, true
}

// RequireAnyRole ensures the caller holds one of the allowed roles.
func RequireAnyRole(w http.ResponseWriter, r *http.Request, allowed ...string) (authz.Viewer, bool) {
	v := authz.ViewerCtx(r)
	if v.Anonymous() {
		httperr.Unauthenticated(w, "")
		return authz.Viewer{}, false
	}
	for _, role := range allowed {
		if v.Role == role {
			return v, true
		}
	}
	httperr.Forbidden(w, "")
	return authz.Viewer{}, false
}
