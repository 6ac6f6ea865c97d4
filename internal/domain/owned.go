package domain

// Owned is implemented by entities that belong to a single user.
// Services use it to distinguish "not yours" from "does not exist":
// a failed lookup is NotFound, a failed ownership check is Forbidden.
type Owned interface {
	OwnedBy() string
}

// IsOwner reports whether the entity belongs to the given user.
func IsOwner(e Owned, userID string) bool {
	return userID != "" && e.OwnedBy() == userID
}
