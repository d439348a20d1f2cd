package domain

// UserResource is the resource name carried by user errors.
const UserResource = "User"

// User is an article writer. Article ownership references User.ID.
type User struct {
	ID       int64
	Username string
}
