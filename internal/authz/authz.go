// Package authz centralizes role and ownership checks.  Handlers
// and services build an Actor from the authenticated request and
// pass it to the capability functions below instead of comparing
// role strings inline.  A failed check always surfaces as an
// explicit forbidden error at the call site, never as a silent
// no-op.
package authz

// Role names as stored in users.role and carried in JWT claims.
const (
	RoleStudent    = "student"
	RoleHeadAdmin  = "head_admin"
	RoleSuperAdmin = "super_admin"
)

// Actor is the authenticated identity attached to a request: the
// user id and role extracted from the access token.  The zero Actor
// represents an anonymous request and satisfies no capability.
type Actor struct {
	ID   uint64
	Role string
}

// Is reports whether the actor holds one of the given roles.
func (a Actor) Is(roles ...string) bool {
	if a.ID == 0 {
		return false
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// Owns reports whether the actor is the user identified by ownerID.
func (a Actor) Owns(ownerID uint64) bool {
	return a.ID != 0 && a.ID == ownerID
}

// CanReviewTicket reports whether the actor may approve or reject a
// booking on the poster owned by posterHeadID.  Only the owning
// head admin qualifies; other head admins may not decide bookings
// on posters they do not own.
func CanReviewTicket(a Actor, posterHeadID uint64) bool {
	return a.Is(RoleHeadAdmin) && a.Owns(posterHeadID)
}

// CanCancelTicket reports whether the actor may delete the booking
// made by bookingUserID: the booking's own user or any head admin.
func CanCancelTicket(a Actor, bookingUserID uint64) bool {
	return a.Owns(bookingUserID) || a.Is(RoleHeadAdmin)
}

// CanViewTicket reports whether the actor may read the booking made
// by bookingUserID.  Same rule as cancellation: the booking's own
// user or any head admin.
func CanViewTicket(a Actor, bookingUserID uint64) bool {
	return a.Owns(bookingUserID) || a.Is(RoleHeadAdmin)
}

// CanManagePoster reports whether the actor may update or delete
// the poster owned by posterHeadID.
func CanManagePoster(a Actor, posterHeadID uint64) bool {
	return a.Is(RoleHeadAdmin) && a.Owns(posterHeadID)
}

// CanViewEventRequest reports whether the actor may read the event
// request filed by requestHeadID: the requesting head admin or any
// super admin, who decides requests.
func CanViewEventRequest(a Actor, requestHeadID uint64) bool {
	return a.Is(RoleSuperAdmin) || (a.Is(RoleHeadAdmin) && a.Owns(requestHeadID))
}

// ValidRole reports whether role is one of the three known role
// names.  Role updates must never write anything else into
// users.role.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleHeadAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// CanManageClub reports whether the actor may update the club led
// by clubHeadID.  Super admins may manage any club.
func CanManageClub(a Actor, clubHeadID uint64) bool {
	if a.Is(RoleSuperAdmin) {
		return true
	}
	return a.Is(RoleHeadAdmin) && a.Owns(clubHeadID)
}
