package model

// User is the authenticated account identity as returned by the backend.
// The client never mutates it; it is created by registration and read-only
// thereafter.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthPayload is the unwrapped body of a successful login or register call.
type AuthPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
