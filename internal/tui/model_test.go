package tui

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzmb1k/niaspo-kurs/internal/client"
	"github.com/dzmb1k/niaspo-kurs/internal/domain/payment"
	"github.com/dzmb1k/niaspo-kurs/internal/domain/ticket"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewModel(nil, logger)
}

func asModel(t *testing.T, m interface{ View() string }) Model {
	t.Helper()
	model, ok := m.(Model)
	require.True(t, ok)
	return model
}

func TestEmptyAndFailedTicketListsRenderIdentically(t *testing.T) {
	m := newTestModel(t)

	m.tickets = client.Loaded([]ticket.Ticket{})
	empty := m.renderTickets()

	m.tickets = client.Failed[ticket.Ticket](errors.New("connection refused"))
	failed := m.renderTickets()

	assert.Equal(t, empty, failed, "a failed fetch must look exactly like an empty list")
	assert.Contains(t, empty, emptyTicketsPlaceholder)
	assert.NotContains(t, failed, "connection refused")
}

func TestEmptyAndFailedPaymentListsRenderIdentically(t *testing.T) {
	m := newTestModel(t)

	m.payments = client.Loaded([]payment.Payment{})
	empty := m.renderPayments()

	m.payments = client.Failed[payment.Payment](errors.New("boom"))
	failed := m.renderPayments()

	assert.Equal(t, empty, failed)
	assert.Contains(t, empty, emptyPaymentsPlaceholder)
}

func TestUnknownEnumValuesRenderRaw(t *testing.T) {
	m := newTestModel(t)
	m.tickets = client.Loaded([]ticket.Ticket{
		{ID: "t-1", TicketType: "hoverboard", Route: "A - B", Status: "quarantined", Price: 50},
	})

	out := m.renderTickets()
	assert.Contains(t, out, "hoverboard")
	assert.Contains(t, out, "quarantined")
}

func TestSubmitPurchaseIgnoredWhileInFlight(t *testing.T) {
	m := newTestModel(t)
	m.route.SetValue("Center - Airport")
	m.purchasing = true

	_, cmd := m.submitPurchase()
	assert.Nil(t, cmd, "a second submit while purchasing must be a no-op")
}

func TestSubmitPurchaseRequiresRoute(t *testing.T) {
	m := newTestModel(t)

	updated, cmd := m.submitPurchase()
	assert.Nil(t, cmd)
	assert.True(t, asModel(t, updated).statusErr)
}

func TestSubmitPurchaseSetsGuard(t *testing.T) {
	m := newTestModel(t)
	m.route.SetValue("Center - Airport")

	updated, cmd := m.submitPurchase()
	assert.NotNil(t, cmd)
	assert.True(t, asModel(t, updated).purchasing)
}

func TestVerifyFailureLandsOnAuthView(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(verifiedMsg{err: client.ErrNoSession})
	assert.Equal(t, viewAuth, asModel(t, updated).view)
}

func TestVerifySuccessEntersApp(t *testing.T) {
	m := newTestModel(t)

	updated, cmd := m.Update(verifiedMsg{session: client.Session{Token: "tok", UserID: "u-1"}})
	model := asModel(t, updated)
	assert.Equal(t, viewApp, model.view)
	assert.Equal(t, client.ListLoading, model.tickets.Phase)
	assert.NotNil(t, cmd, "entering the app kicks off the list loads")
}

func TestRegistrationSendsUserToLoginTab(t *testing.T) {
	m := newTestModel(t)
	m.tab = tabRegister
	m.password.SetValue("secret")

	updated, _ := m.Update(registeredMsg{})
	model := asModel(t, updated)
	assert.Equal(t, tabLogin, model.tab)
	assert.Empty(t, model.password.Value(), "password field is wiped after registration")
	assert.Equal(t, viewAuth, model.view)
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(loggedInMsg{err: &client.APIError{Status: 401, Message: "Invalid credentials"}})
	model := asModel(t, updated)
	assert.Equal(t, "Invalid credentials", model.status)
	assert.True(t, model.statusErr)
	assert.Equal(t, viewAuth, model.view)
}

func TestTransportFailureShowsConnectivityMessage(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(loggedInMsg{err: errors.New("dial tcp: connection refused")})
	model := asModel(t, updated)
	assert.Equal(t, connectivityMessage, model.status)
}

func TestPurchaseSuccessClearsGuardAndRefreshes(t *testing.T) {
	m := newTestModel(t)
	m.purchasing = true
	m.route.SetValue("Center - Airport")

	updated, cmd := m.Update(purchasedMsg{})
	model := asModel(t, updated)
	assert.False(t, model.purchasing)
	assert.Empty(t, model.route.Value())
	assert.NotNil(t, cmd, "a completed purchase refreshes the lists")
}

func TestPaymentFailureRefreshesLists(t *testing.T) {
	m := newTestModel(t)
	m.purchasing = true

	updated, cmd := m.Update(purchasedMsg{err: client.ErrPaymentFailed})
	model := asModel(t, updated)
	assert.False(t, model.purchasing)
	assert.Equal(t, "Payment failed. Please try again", model.status)
	assert.NotNil(t, cmd, "the cancelled ticket exists server-side, so lists refresh")
}

func TestTicketCreationFailureDoesNotRefresh(t *testing.T) {
	m := newTestModel(t)
	m.purchasing = true

	updated, cmd := m.Update(purchasedMsg{err: &client.APIError{Status: 400, Message: "Missing required fields"}})
	model := asModel(t, updated)
	assert.False(t, model.purchasing)
	assert.Equal(t, "Missing required fields", model.status)
	assert.Nil(t, cmd, "nothing changed server-side, so no refresh")
}

func TestFailedListLoadKeepsPlaceholderInView(t *testing.T) {
	m := newTestModel(t)
	m.view = viewApp

	updated, _ := m.Update(ticketsMsg{result: client.Failed[ticket.Ticket](errors.New("boom"))})
	model := asModel(t, updated)
	assert.Equal(t, client.ListFailed, model.tickets.Phase)
	assert.Contains(t, model.View(), emptyTicketsPlaceholder)
	assert.NotContains(t, model.View(), "boom")
}
