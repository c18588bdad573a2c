// Package domain defines the resource shapes exchanged with the CardMaker
// backend. These are plain data types with no behavior beyond small helpers.
package domain

// Session is the authenticated-user state kept across restarts until an
// explicit logout. All-empty strings mean "no active session".
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	UserID   string `json:"user_id"`
}

// Active reports whether a token is currently held.
func (s Session) Active() bool {
	return s.Token != ""
}

// LoginResult is the backend's answer to a successful POST /users/me.
type LoginResult struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	UserID      int64  `json:"userId"`
}
