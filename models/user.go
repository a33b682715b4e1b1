package models

// UserRole mirrors the role claim issued by the identity service. The engine
// never stores users; it only gates operations on the claimed role.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleOrganizer UserRole = "organizer"
	RolePlayer    UserRole = "player"
	RoleReferee   UserRole = "referee"
)
