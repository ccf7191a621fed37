package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
)

// User is the profile the backend returns at login and the session persists.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	IsAdmin bool   `json:"isAdmin"`
}

// UserPatch is a partial profile update; nil fields are left unchanged.
type UserPatch struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// Session is the process-wide authentication state: the persisted token and
// user, plus the operations that mutate them. Constructed once and passed to
// request-issuing code explicitly.
type Session struct {
	client *Client
	store  SessionStore

	mu            sync.Mutex
	user          *User
	authenticated bool
}

// NewSession rehydrates state from the store: when both token and a
// parseable user are present the session starts authenticated. A corrupt
// user record triggers an implicit logout instead of an error.
func NewSession(c *Client, store SessionStore) *Session {
	s := &Session{client: c, store: store}

	token, hasToken := store.Get(StorageKeyToken)
	rawUser, hasUser := store.Get(StorageKeyUser)
	if hasToken && token != "" && hasUser {
		var user User
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			s.clear()
			return s
		}
		s.user = &user
		s.authenticated = true
	}
	return s
}

// Authenticated reports whether a session is active.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (s *Session) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Login authenticates and persists token+user on success. A failed login
// returns the server's message and leaves existing state untouched.
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	return s.authenticate(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Register has the same contract shape as Login.
func (s *Session) Register(ctx context.Context, name, email, password string) (*User, error) {
	return s.authenticate(ctx, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

func (s *Session) authenticate(ctx context.Context, path string, body map[string]string) (*User, error) {
	resp, err := s.client.Do(ctx, http.MethodPost, path, body, nil)
	if err != nil {
		return nil, err
	}

	var ar authResponse
	if err := json.Unmarshal(resp.Body, &ar); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode >= 400 || !ar.Success || ar.Token == "" || ar.User == nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: ar.Message}
	}

	rawUser, err := json.Marshal(ar.User)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(StorageKeyToken, ar.Token); err != nil {
		return nil, err
	}
	if err := s.store.Set(StorageKeyUser, string(rawUser)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = ar.User
	s.authenticated = true
	s.mu.Unlock()

	u := *ar.User
	return &u, nil
}

// Logout clears the persisted token and user and resets in-memory state.
// No network call is made.
func (s *Session) Logout() {
	s.clear()
}

// UpdateUser pushes a partial profile edit to the backend, then merges the
// result into the persisted user record.
func (s *Session) UpdateUser(ctx context.Context, patch UserPatch) (*User, error) {
	var updated User
	if err := s.client.Put(ctx, "/api/user", patch, &updated, nil); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.user != nil {
		if patch.Name != nil {
			s.user.Name = *patch.Name
		}
		if patch.Phone != nil {
			s.user.Phone = *patch.Phone
		}
		rawUser, err := json.Marshal(s.user)
		if err == nil {
			s.store.Set(StorageKeyUser, string(rawUser))
		}
	}
	u := s.user
	s.mu.Unlock()

	if u == nil {
		return &updated, nil
	}
	copied := *u
	return &copied, nil
}

func (s *Session) clear() {
	s.store.Delete(StorageKeyToken)
	s.store.Delete(StorageKeyUser)
	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()
}
