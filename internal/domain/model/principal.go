package model

// Principal is the authenticated caller of an API request. Identity is
// established upstream; handlers only consume it.
type Principal struct {
	UserID int64
	Admin  bool
}

// CanAccessUser reports whether the principal may read resources owned by userID.
func (p Principal) CanAccessUser(userID int64) bool {
	return p.Admin || p.UserID == userID
}
