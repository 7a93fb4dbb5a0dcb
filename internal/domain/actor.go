package domain

// Actor is the authenticated caller of an operation, taken from verified token claims.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports whether the actor may act on a resource owned by ownerID.
func (a Actor) CanAccess(ownerID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == ownerID)
}
