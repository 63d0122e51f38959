// Package client is the session controller for the citypass API: it
// owns the bearer token lifecycle (login, startup verification, logout)
// and issues the authenticated calls the terminal UI renders, including
// the two-phase purchase flow.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dzmb1k/niaspo-kurs/internal/domain/payment"
	"github.com/dzmb1k/niaspo-kurs/internal/domain/ticket"

	"github.com/google/uuid"
)

// Session is the authenticated identity held in memory. Only the token
// is persisted; UserID and Username are re-fetched on login (Verify
// returns just the user id, matching the server contract).
type Session struct {
	Token    string
	UserID   string
	Username string
}

type Client struct {
	baseURL string
	httpc   *http.Client
	store   *TokenStore
	logger  *slog.Logger

	// Session mutations come from user-driven handlers that never
	// overlap, but the TUI runs commands on their own goroutines, so
	// reads and writes still need the lock.
	mu      sync.Mutex
	session Session
}

func New(baseURL string, store *TokenStore, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		store:   store,
		logger:  logger,
	}
}

// Session returns the current session and whether one is active.
func (c *Client) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, c.session.Token != ""
}

// Register creates an account. It does not log the new user in; the
// UI sends them to the login form afterwards.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	return c.do(ctx, apiRequest{method: http.MethodPost, path: "/api/register", body: body})
}

func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	var out struct {
		Token    string `json:"token"`
		UserID   string `json:"user_id"`
		Username string `json:"username"`
	}

	err := c.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   "/api/login",
		body:   map[string]string{"username": username, "password": password},
		out:    &out,
	})
	if err != nil {
		return Session{}, err
	}

	s := Session{Token: out.Token, UserID: out.UserID, Username: out.Username}
	c.setSession(s)

	if err := c.store.Save(out.Token); err != nil {
		// The session still works for this run; only persistence is lost.
		c.logger.Warn("failed to persist token", "error", err)
	}

	return s, nil
}

// Verify restores a session from the stored token. With no stored
// token it returns ErrNoSession without any network call. Any
// verification failure clears both memory and storage — fail closed.
func (c *Client) Verify(ctx context.Context) (Session, error) {
	token, err := c.store.Load()
	if err != nil {
		return Session{}, err
	}
	if token == "" {
		return Session{}, ErrNoSession
	}

	var out struct {
		Valid  bool   `json:"valid"`
		UserID string `json:"user_id"`
	}

	err = c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/api/verify",
		out:    &out,
		token:  token,
	})
	if err != nil {
		c.reset()
		return Session{}, err
	}

	s := Session{Token: token, UserID: out.UserID}
	c.setSession(s)
	return s, nil
}

// Logout drops the session locally. There is no server call: the token
// simply stops being used and expires on its own.
func (c *Client) Logout() {
	c.reset()
}

func (c *Client) Tickets(ctx context.Context) ([]ticket.Ticket, error) {
	token, ok := c.token()
	if !ok {
		return nil, ErrNoSession
	}

	var tickets []ticket.Ticket
	err := c.do(ctx, apiRequest{method: http.MethodGet, path: "/api/tickets", out: &tickets, token: token})
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *Client) Payments(ctx context.Context) ([]payment.Payment, error) {
	token, ok := c.token()
	if !ok {
		return nil, ErrNoSession
	}

	var payments []payment.Payment
	err := c.do(ctx, apiRequest{method: http.MethodGet, path: "/api/payments", out: &payments, token: token})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// PurchaseOutcome carries what the two purchase calls returned. Ticket
// is set whenever phase one succeeded, even if the payment then failed.
type PurchaseOutcome struct {
	Ticket  ticket.Ticket
	Payment payment.Payment
}

// Purchase runs the two-phase purchase: create the ticket, then charge
// for it. The payment call is only ever issued with a server-confirmed
// ticket id; if ticket creation fails nothing is charged. The create
// call carries a fresh Idempotency-Key so a double submission cannot
// produce two tickets.
func (c *Client) Purchase(ctx context.Context, ticketType, route, paymentMethod string) (*PurchaseOutcome, error) {
	token, ok := c.token()
	if !ok {
		return nil, ErrNoSession
	}

	outcome := &PurchaseOutcome{}

	err := c.do(ctx, apiRequest{
		method:         http.MethodPost,
		path:           "/api/tickets",
		body:           map[string]string{"ticket_type": ticketType, "route": route},
		out:            &outcome.Ticket,
		token:          token,
		idempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	err = c.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   "/api/payments",
		body:   map[string]string{"ticket_id": outcome.Ticket.ID, "payment_method": paymentMethod},
		out:    &outcome.Payment,
		token:  token,
	})
	if err != nil {
		// The ticket exists server-side; the server cancels it on a
		// declined charge, so no client-side compensation happens here.
		return outcome, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	return outcome, nil
}

func (c *Client) setSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Client) token() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Token, c.session.Token != ""
}

func (c *Client) reset() {
	c.setSession(Session{})
	if err := c.store.Clear(); err != nil {
		c.logger.Warn("failed to clear token store", "error", err)
	}
}

type apiRequest struct {
	method         string
	path           string
	body           any
	out            any
	token          string
	idempotencyKey string
}

// do issues one JSON API call. Transport failures come back wrapped
// (the UI shows one generic connectivity message for those); non-2xx
// responses come back as *APIError carrying the server's message.
func (c *Client) do(ctx context.Context, r apiRequest) error {
	var reqBody io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", r.idempotencyKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		// A missing or malformed body leaves Message empty and the UI
		// falls back to its generic text.
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{Status: resp.StatusCode, Message: errBody.Error}
	}

	if r.out != nil {
		if err := json.NewDecoder(resp.Body).Decode(r.out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
