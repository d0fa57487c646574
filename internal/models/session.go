package models

// Session binds a user to an access token. It is persisted so that the
// login survives a restart.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// AuthResponse is returned by a successful login or registration.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
