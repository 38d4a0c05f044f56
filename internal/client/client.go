// Package client is a Go client for the EventSphere HTTP API. It keeps the
// caller's session in an explicit Session value rather than global state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotLoggedIn is returned by calls that need a session when there is none.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// Client calls the API on behalf of the account held in its Session.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New creates a Client for baseURL. A nil session starts signed out in
// memory; a nil httpClient uses a client with a 15s timeout.
func New(baseURL string, session *Session, httpClient *http.Client) *Client {
	if session == nil {
		session = &Session{}
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		session: session,
	}
}

// Session returns the client's session.
func (c *Client) Session() *Session { return c.session }

// RegisterRequest is the body of a registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// Register creates an account. The session is left unchanged.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", false, req, nil)
}

// Login authenticates and stores the issued token in the session, then
// persists it.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", false, body, &resp); err != nil {
		return User{}, err
	}
	c.session.Set(resp.Token, resp.User)
	if err := c.session.Save(); err != nil {
		return resp.User, err
	}
	return resp.User, nil
}

// Logout clears the session.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Me returns the identity the server associates with the current token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", true, nil, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// EventInput is the body of create and update calls.
type EventInput struct {
	Title       string `json:"title,omitempty"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Creator     string `json:"creator,omitempty"`
}

// ListEvents returns public events matching search and the named date preset.
func (c *Client) ListEvents(ctx context.Context, search, filter string) ([]Event, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if filter != "" {
		q.Set("filter", filter)
	}
	path := "/api/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var events []Event
	if err := c.do(ctx, http.MethodGet, path, false, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// MyEvents returns the events created by the signed-in user.
func (c *Client) MyEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.do(ctx, http.MethodGet, "/api/events/my-events", true, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent returns one event.
func (c *Client) GetEvent(ctx context.Context, id string) (Event, error) {
	var e Event
	err := c.do(ctx, http.MethodGet, "/api/events/"+url.PathEscape(id), false, nil, &e)
	return e, err
}

// CreateEvent creates an event. Creator defaults to the session user's name.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (Event, error) {
	if in.Creator == "" {
		if u, ok := c.session.User(); ok {
			in.Creator = u.Name
		}
	}
	var e Event
	err := c.do(ctx, http.MethodPost, "/api/events", true, in, &e)
	return e, err
}

// UpdateEvent edits an event the signed-in user created.
func (c *Client) UpdateEvent(ctx context.Context, id string, in EventInput) (Event, error) {
	var resp struct {
		Event Event `json:"event"`
	}
	err := c.do(ctx, http.MethodPut, "/api/events/"+url.PathEscape(id), true, in, &resp)
	return resp.Event, err
}

// DeleteEvent removes an event the signed-in user created.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(id), true, nil, nil)
}

// JoinEvent adds the signed-in user to the attendees.
func (c *Client) JoinEvent(ctx context.Context, id string) (Event, error) {
	var e Event
	err := c.do(ctx, http.MethodPatch, "/api/events/join/"+url.PathEscape(id), true, nil, &e)
	return e, err
}

// LeaveEvent removes the signed-in user from the attendees.
func (c *Client) LeaveEvent(ctx context.Context, id string) (Event, error) {
	var e Event
	err := c.do(ctx, http.MethodPatch, "/api/events/leave/"+url.PathEscape(id), true, nil, &e)
	return e, err
}

// Views wraps events as view-models for the session user.
func (c *Client) Views(events []Event) []EventView {
	u, _ := c.session.User()
	return NewEventViews(events, u.Email)
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := c.session.Token()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err == nil {
			apiErr.Message = payload.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
