// Package model defines the database entities of the panel.
package model

// DefaultProfilePic is recorded on new accounts until the user uploads
// a picture of their own.
const DefaultProfilePic = "/assets/default-avatar.svg"

// Roles assignable to a user. New registrations always start as RoleUser;
// promotion to RoleAdmin happens out of band.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents one account. Password holds the bcrypt hash, never the
// raw credential. TotpSecret stays empty until the user sets up
// two-factor authentication.
type User struct {
	Id              int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username        string `json:"username" gorm:"not null"`
	Email           string `json:"email" gorm:"uniqueIndex;not null"`
	Password        string `json:"-" gorm:"not null"`
	Role            string `json:"role" gorm:"not null;default:user"`
	ProfilePic      string `json:"profilePic"`
	TotpSecret      string `json:"-"`
	TwoFactorEnable bool   `json:"twoFactorEnable"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
