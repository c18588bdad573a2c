package cardmaker

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cardmakerapp/cardmaker-go/internal/domain"
)

// GetUsers fetches all users in backend order. Password fields are never
// present in reads. Under the absorbing read policy a failure is logged
// and an empty slice returned.
func (c *Client) GetUsers(ctx context.Context) ([]domain.User, error) {
	users, err := get[[]domain.User](c, ctx, "/users", nil)
	if err != nil {
		if c.absorb("users fetch", err) {
			return []domain.User{}, nil
		}
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// CreateUser signs up a new user. Failures propagate to the caller.
func (c *Client) CreateUser(ctx context.Context, user domain.UserCreate) error {
	if _, err := c.do(ctx, http.MethodPost, "/users", nil, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// LogIn authenticates against the backend. On success the token is held
// for subsequent requests and the session store, when attached, receives
// the durable {token, username, userId} triple. Failures, invalid
// credentials included, propagate to the caller.
func (c *Client) LogIn(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	result, err := post[domain.LoginResult](c, ctx, "/users/me", creds)
	if err != nil {
		return nil, fmt.Errorf("log in: %w", err)
	}

	c.mu.Lock()
	c.token = result.AccessToken
	c.loggedIn = true
	c.mu.Unlock()

	if c.sessions != nil {
		sess := domain.Session{
			Token:    result.AccessToken,
			Username: creds.Username,
			UserID:   strconv.FormatInt(result.UserID, 10),
		}
		if err := c.sessions.Set(sess); err != nil {
			return nil, fmt.Errorf("persist session: %w", err)
		}
	}

	c.logger.Info("logged in", "username", creds.Username)
	return &result, nil
}

// LogOut drops the held token, clears the session store, and invokes the
// navigation callback.
func (c *Client) LogOut(navigate func()) error {
	c.mu.Lock()
	c.token = ""
	c.loggedIn = false
	c.mu.Unlock()

	if c.sessions != nil {
		if err := c.sessions.Clear(); err != nil {
			return fmt.Errorf("log out: %w", err)
		}
	}

	c.logger.Info("logged out")
	if navigate != nil {
		navigate()
	}
	return nil
}
