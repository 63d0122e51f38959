package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method         string
	Path           string
	Authorization  string
	IdempotencyKey string
	Body           map[string]string
}

// recordingServer captures every request so tests can assert on call
// counts, ordering, and payloads.
type recordingServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newRecordingServer(t *testing.T, handler func(w http.ResponseWriter, r recordedRequest)) *recordingServer {
	t.Helper()

	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method:         r.Method,
			Path:           r.URL.Path,
			Authorization:  r.Header.Get("Authorization"),
			IdempotencyKey: r.Header.Get("Idempotency-Key"),
		}
		if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
			_ = json.Unmarshal(body, &rec.Body)
		}

		rs.mu.Lock()
		rs.requests = append(rs.requests, rec)
		rs.mu.Unlock()

		handler(w, rec)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) Requests() []recordedRequest {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]recordedRequest(nil), rs.requests...)
}

func newTestClient(t *testing.T, baseURL string) (*Client, *TokenStore) {
	t.Helper()
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(baseURL, store, logger), store
}

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func TestVerifyWithoutStoredTokenMakesNoRequest(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSONResponse(w, http.StatusOK, map[string]any{"valid": true})
	})

	c, _ := newTestClient(t, srv.URL)

	_, err := c.Verify(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, srv.Requests(), "verify with no stored token must not touch the network")

	_, active := c.Session()
	assert.False(t, active)
}

func TestVerifyRejectedTokenClearsStoredState(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSONResponse(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
	})

	c, store := newTestClient(t, srv.URL)
	require.NoError(t, store.Save("stale-token"))

	_, err := c.Verify(context.Background())
	require.Error(t, err)

	stored, loadErr := store.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, stored, "rejected token must be removed from storage")

	_, active := c.Session()
	assert.False(t, active)
}

func TestVerifyRestoresSession(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSONResponse(w, http.StatusOK, map[string]any{"valid": true, "user_id": "u-1"})
	})

	c, store := newTestClient(t, srv.URL)
	require.NoError(t, store.Save("stored-token"))

	session, err := c.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored-token", session.Token)
	assert.Equal(t, "u-1", session.UserID)

	requests := srv.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "/api/verify", requests[0].Path)
	assert.Equal(t, "Bearer stored-token", requests[0].Authorization)
}

func TestLoginStoresTokenAndSession(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSONResponse(w, http.StatusOK, map[string]string{
			"token": "fresh-token", "user_id": "u-1", "username": "alice",
		})
	})

	c, store := newTestClient(t, srv.URL)

	session, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", session.Token)
	assert.Equal(t, "alice", session.Username)

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", stored)

	requests := srv.Requests()
	require.Len(t, requests, 1)
	assert.Empty(t, requests[0].Authorization, "login must not carry a bearer token")
	assert.Equal(t, "alice", requests[0].Body["username"])
}

func TestLoginServerErrorSurfacesVerbatim(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSONResponse(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	})

	c, _ := newTestClient(t, srv.URL)

	_, err := c.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", ServerMessage(err))

	_, active := c.Session()
	assert.False(t, active)
}

func TestConnectivityErrorHasNoServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening any more

	c, _ := newTestClient(t, srv.URL)

	_, err := c.Login(context.Background(), "alice", "secret")
	require.Error(t, err)
	assert.Empty(t, ServerMessage(err), "transport failures carry no server message")
}

func TestMalformedErrorBodyFallsBackToGeneric(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r recordedRequest) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>boom</html>"))
	})

	c, _ := newTestClient(t, srv.URL)

	_, err := c.Login(context.Background(), "alice", "secret")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, apiErr.Message)
	assert.Equal(t, "request failed", apiErr.Error())
}

func TestRegisterDoesNotAuthenticate(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSONResponse(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
	})

	c, store := newTestClient(t, srv.URL)

	err := c.Register(context.Background(), "alice", "alice@example.com", "secret")
	require.NoError(t, err)

	_, active := c.Session()
	assert.False(t, active)
	stored, _ := store.Load()
	assert.Empty(t, stored)
}

func TestLogoutClearsSessionAndStore(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSONResponse(w, http.StatusOK, map[string]string{
			"token": "tok", "user_id": "u-1", "username": "alice",
		})
	})

	c, store := newTestClient(t, srv.URL)
	_, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	before := len(srv.Requests())
	c.Logout()

	_, active := c.Session()
	assert.False(t, active)
	stored, _ := store.Load()
	assert.Empty(t, stored)
	assert.Len(t, srv.Requests(), before, "logout is purely local")
}

func TestPurchaseIssuesTwoOrderedRequests(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r recordedRequest) {
		switch r.Path {
		case "/api/tickets":
			writeJSONResponse(w, http.StatusCreated, map[string]any{
				"id": "t-42", "ticket_type": "single", "route": "A - B",
				"price": 50, "status": "pending",
			})
		case "/api/payments":
			writeJSONResponse(w, http.StatusOK, map[string]any{
				"id": "p-1", "ticket_id": "t-42", "status": "completed",
			})
		default:
			writeJSONResponse(w, http.StatusNotFound, map[string]string{"error": "not found"})
		}
	})

	c, _ := newTestClient(t, srv.URL)
	c.setSession(Session{Token: "tok", UserID: "u-1"})

	outcome, err := c.Purchase(context.Background(), "single", "A - B", "card")
	require.NoError(t, err)
	assert.Equal(t, "t-42", outcome.Ticket.ID)
	assert.Equal(t, "p-1", outcome.Payment.ID)

	requests := srv.Requests()
	require.Len(t, requests, 2, "a successful purchase is exactly two requests")
	assert.Equal(t, "/api/tickets", requests[0].Path)
	assert.Equal(t, "/api/payments", requests[1].Path)

	assert.NotEmpty(t, requests[0].IdempotencyKey, "ticket creation carries an idempotency key")
	assert.Equal(t, "t-42", requests[1].Body["ticket_id"], "payment references the server-confirmed ticket id")
	assert.Equal(t, "card", requests[1].Body["payment_method"])
	assert.Equal(t, "Bearer tok", requests[0].Authorization)
	assert.Equal(t, "Bearer tok", requests[1].Authorization)
}

func TestPurchaseTicketFailureIssuesNoPayment(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	})

	c, _ := newTestClient(t, srv.URL)
	c.setSession(Session{Token: "tok"})

	_, err := c.Purchase(context.Background(), "single", "", "card")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentFailed, "phase-one failures are not payment failures")
	assert.Equal(t, "Missing required fields", ServerMessage(err))

	requests := srv.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "/api/tickets", requests[0].Path, "no payment request may follow a failed ticket creation")
}

func TestPurchasePaymentFailureDoesNotRetry(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r recordedRequest) {
		switch r.Path {
		case "/api/tickets":
			writeJSONResponse(w, http.StatusCreated, map[string]any{"id": "t-42", "status": "pending"})
		case "/api/payments":
			writeJSONResponse(w, http.StatusPaymentRequired, map[string]string{"error": "Payment declined"})
		}
	})

	c, _ := newTestClient(t, srv.URL)
	c.setSession(Session{Token: "tok"})

	outcome, err := c.Purchase(context.Background(), "single", "A - B", "card")
	require.ErrorIs(t, err, ErrPaymentFailed)
	require.NotNil(t, outcome)
	assert.Equal(t, "t-42", outcome.Ticket.ID, "the created ticket is still reported")

	var paymentCalls int
	for _, r := range srv.Requests() {
		if r.Path == "/api/payments" {
			paymentCalls++
		}
	}
	assert.Equal(t, 1, paymentCalls, "a declined payment is not retried")
}

func TestPurchaseWithoutSession(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSONResponse(w, http.StatusOK, nil)
	})

	c, _ := newTestClient(t, srv.URL)

	_, err := c.Purchase(context.Background(), "single", "A - B", "card")
	require.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, srv.Requests())
}

func TestListErrorsAreReturnedNotSwallowed(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r recordedRequest) {
		writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	})

	c, _ := newTestClient(t, srv.URL)
	c.setSession(Session{Token: "tok"})

	_, err := c.Tickets(context.Background())
	require.Error(t, err)

	_, err = c.Payments(context.Background())
	require.Error(t, err)
}
