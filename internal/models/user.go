package models

import "time"

// Role is the access level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the public view of an account. It deliberately has no password field.
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	Avatar   string    `json:"avatar"`
	Phone    string    `json:"phone,omitempty"`
	Address  string    `json:"address,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserRecord is the stored form of a user, including the bcrypt password hash.
// It never leaves the repositories and services packages.
type UserRecord struct {
	User
	PasswordHash string `json:"password_hash"`
}

// Public returns the record without its password hash.
func (r UserRecord) Public() User {
	return r.User
}

// UserPatch carries a partial profile update. Nil fields are left unchanged.
type UserPatch struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=200"`
	Avatar  *string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// Apply returns a copy of u with the patch merged in.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	return u
}
