package domain

// User is the public shape returned by user reads. The backend never
// returns passwords.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// UserCreate is the signup payload. Password is write-only.
type UserCreate struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Credentials carries a login attempt against POST /users/me.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
