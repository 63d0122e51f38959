package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dzmb1k/niaspo-kurs/internal/api/middleware"
	"github.com/dzmb1k/niaspo-kurs/internal/domain/payment"
	"github.com/dzmb1k/niaspo-kurs/internal/domain/ticket"
	"github.com/dzmb1k/niaspo-kurs/internal/usecase"

	"github.com/go-chi/chi/v5"
)

// Usecase interfaces let handler tests substitute fakes for the
// postgres-backed implementations.
type (
	registerUC interface {
		Execute(ctx context.Context, params usecase.RegisterParams) (string, error)
	}
	loginUC interface {
		Execute(ctx context.Context, params usecase.LoginParams) (*usecase.LoginResult, error)
	}
	createTicketUC interface {
		Execute(ctx context.Context, params usecase.CreateTicketParams) (*ticket.Ticket, error)
	}
	processPaymentUC interface {
		Execute(ctx context.Context, params usecase.ProcessPaymentParams) (*payment.Payment, error)
	}
	listTicketsUC interface {
		Execute(ctx context.Context, userID string) ([]*ticket.Ticket, error)
	}
	listPaymentsUC interface {
		Execute(ctx context.Context, userID string) ([]*payment.Payment, error)
	}
	getTicketUC interface {
		Execute(ctx context.Context, userID, ticketID string) (*ticket.Ticket, error)
	}
	getPaymentUC interface {
		Execute(ctx context.Context, userID, paymentID string) (*payment.Payment, error)
	}
	validateTicketUC interface {
		Execute(ctx context.Context, ticketID string) (*usecase.ValidateResult, error)
	}
)

type Usecases struct {
	Register       registerUC
	Login          loginUC
	CreateTicket   createTicketUC
	ProcessPayment processPaymentUC
	ListTickets    listTicketsUC
	ListPayments   listPaymentsUC
	GetTicket      getTicketUC
	GetPayment     getPaymentUC
	ValidateTicket validateTicketUC
}

type Handlers struct {
	uc Usecases
}

func NewHandlers(uc Usecases) *Handlers {
	return &Handlers{uc: uc}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req usecase.RegisterParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	userID, err := h.uc.Register.Execute(r.Context(), req)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	registrationsTotal.Inc()
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully",
		"user_id": userID,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req usecase.LoginParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	result, err := h.uc.Login.Execute(r.Context(), req)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	loginsTotal.Inc()
	writeJSON(w, http.StatusOK, result)
}

// Verify runs behind the auth middleware, so reaching it means the
// token already checked out.
func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":   true,
		"user_id": claims.UserID,
	})
}

func (h *Handlers) ListTickets(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	tickets, err := h.uc.ListTickets.Execute(r.Context(), claims.UserID)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	if tickets == nil {
		tickets = []*ticket.Ticket{}
	}

	writeJSON(w, http.StatusOK, tickets)
}

func (h *Handlers) CreateTicket(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req struct {
		TicketType string `json:"ticket_type"`
		Route      string `json:"route"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TicketType == "" || req.Route == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	t, err := h.uc.CreateTicket.Execute(r.Context(), usecase.CreateTicketParams{
		UserID:     claims.UserID,
		TicketType: req.TicketType,
		Route:      req.Route,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	ticketsCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handlers) GetTicket(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	t, err := h.uc.GetTicket.Execute(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) ValidateTicket(w http.ResponseWriter, r *http.Request) {
	result, err := h.uc.ValidateTicket.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	payments, err := h.uc.ListPayments.Execute(r.Context(), claims.UserID)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	if payments == nil {
		payments = []*payment.Payment{}
	}

	writeJSON(w, http.StatusOK, payments)
}

func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req struct {
		TicketID      string `json:"ticket_id"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TicketID == "" || req.PaymentMethod == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	p, err := h.uc.ProcessPayment.Execute(r.Context(), usecase.ProcessPaymentParams{
		UserID:        claims.UserID,
		TicketID:      req.TicketID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrPaymentDeclined) {
			paymentsTotal.WithLabelValues(payment.StatusFailed).Inc()
		}
		writeUsecaseError(w, err)
		return
	}

	paymentsTotal.WithLabelValues(p.Status).Inc()
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	p, err := h.uc.GetPayment.Execute(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// writeUsecaseError maps domain errors to the {"error": string} wire
// envelope the client expects.
func writeUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, usecase.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, usecase.ErrTicketNotFound):
		writeError(w, http.StatusNotFound, "Ticket not found")
	case errors.Is(err, usecase.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, "Payment not found")
	case errors.Is(err, usecase.ErrNotOwner):
		writeError(w, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, usecase.ErrPaymentDeclined):
		writeError(w, http.StatusPaymentRequired, "Payment declined")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
