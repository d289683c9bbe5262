package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/jrsteele09/finvofy-auth/users"
	"github.com/pkg/errors"
)

type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

type userResponse struct {
	User users.Profile `json:"user"`
}

// SignupRequest is the body of a signup call.
type SignupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	TenantName string `json:"tenantName"`
}

// Guard tracks who the browser session belongs to.
type Guard struct {
	client    *Client
	navigator Navigator

	mu    sync.RWMutex
	state State
	user  *users.Profile
}

func NewGuard(client *Client) *Guard {
	return &Guard{
		client:    client,
		navigator: client.navigator,
		state:     StateUnknown,
	}
}

// State returns the current state and, when authenticated, the user.
func (g *Guard) State() (State, *users.Profile) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return g.state, nil
	}
	user := *g.user
	return g.state, &user
}

func (g *Guard) set(state State, user *users.Profile) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = state
	g.user = user
}

// Check asks the server who is logged in. Any failure leaves the guard
// unauthenticated; only transport errors are returned.
func (g *Guard) Check(ctx context.Context) (*users.Profile, error) {
	var resp userResponse
	if err := g.client.Do(ctx, http.MethodGet, PathMe, nil, &resp); err != nil {
		g.set(StateUnauthenticated, nil)
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, nil
		}
		return nil, err
	}
	g.set(StateAuthenticated, &resp.User)
	return &resp.User, nil
}

// Login authenticates and moves to the dashboard. On failure the state is unchanged.
func (g *Guard) Login(ctx context.Context, email, password string) error {
	var resp userResponse
	body := map[string]string{"email": email, "password": password}
	if err := g.client.Do(ctx, http.MethodPost, PathLogin, body, &resp); err != nil {
		return err
	}
	g.set(StateAuthenticated, &resp.User)
	g.navigator.Push(DashboardPage)
	return nil
}

func (g *Guard) Signup(ctx context.Context, req SignupRequest) error {
	var resp userResponse
	if err := g.client.Do(ctx, http.MethodPost, PathSignup, req, &resp); err != nil {
		return err
	}
	g.set(StateAuthenticated, &resp.User)
	g.navigator.Push(DashboardPage)
	return nil
}

// Logout always ends unauthenticated on the login page; a server error is
// still returned to the caller.
func (g *Guard) Logout(ctx context.Context) error {
	err := g.client.Do(ctx, http.MethodPost, PathLogout, nil, nil)
	g.set(StateUnauthenticated, nil)
	g.navigator.Push(LoginPage)
	return err
}
