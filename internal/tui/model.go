// Package tui is the terminal front end: an unauthenticated view with
// login/register forms and an authenticated view with the user's
// tickets, payment history, and the purchase form.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dzmb1k/niaspo-kurs/internal/client"
	"github.com/dzmb1k/niaspo-kurs/internal/domain/payment"
	"github.com/dzmb1k/niaspo-kurs/internal/domain/ticket"
)

// connectivityMessage is the one generic message shown when a request
// could not be completed at all. Server-provided errors are shown
// verbatim instead.
const connectivityMessage = "Cannot reach the server. Please try again."

const (
	emptyTicketsPlaceholder  = "You have no tickets yet"
	emptyPaymentsPlaceholder = "No payment history yet"
)

var purchaseTypes = []string{
	ticket.TypeSingle, ticket.TypeDaily, ticket.TypeWeekly, ticket.TypeMonthly,
}

var purchaseMethods = []string{
	payment.MethodCard, payment.MethodApplePay, payment.MethodGooglePay,
}

type view int

const (
	viewAuth view = iota
	viewApp
)

type authTab int

const (
	tabLogin authTab = iota
	tabRegister
)

// Messages delivered by async commands.
type (
	verifiedMsg struct {
		session client.Session
		err     error
	}
	loggedInMsg struct {
		session client.Session
		err     error
	}
	registeredMsg struct {
		err error
	}
	ticketsMsg struct {
		result client.ListResult[ticket.Ticket]
	}
	paymentsMsg struct {
		result client.ListResult[payment.Payment]
	}
	purchasedMsg struct {
		err error
	}
)

type Model struct {
	client *client.Client
	logger *slog.Logger
	keys   keyMap

	view view
	tab  authTab

	// auth form
	username textinput.Model
	email    textinput.Model
	password textinput.Model
	focus    int

	// purchase form
	route     textinput.Model
	typeIdx   int
	methodIdx int

	session  client.Session
	tickets  client.ListResult[ticket.Ticket]
	payments client.ListResult[payment.Payment]

	// purchasing is the in-flight guard: while true, enter on the
	// purchase form is ignored so a double press cannot start a second
	// purchase.
	purchasing bool

	status    string
	statusErr bool

	width  int
	height int
}

func NewModel(c *client.Client, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()

	email := textinput.New()
	email.Placeholder = "email"

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	route := textinput.New()
	route.Placeholder = "route, e.g. Center - Airport"
	route.CharLimit = 100

	return Model{
		client:   c,
		logger:   logger,
		keys:     defaultKeyMap(),
		username: username,
		email:    email,
		password: password,
		route:    route,
		tickets:  client.Loading[ticket.Ticket](),
		payments: client.Loading[payment.Payment](),
	}
}

// Init kicks off session restoration. Verify makes no network call
// when no token is stored, so a fresh start lands on the auth view
// without touching the server.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.verifyCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case verifiedMsg:
		if msg.err != nil {
			// Invalid or missing token: show the auth view. The store
			// is already cleared by the client (fail closed); only a
			// rejected token warrants a diagnostic.
			if !errors.Is(msg.err, client.ErrNoSession) {
				m.logger.Warn("stored session rejected", "error", msg.err)
			}
			m.view = viewAuth
			return m, nil
		}
		m.session = msg.session
		return m.enterApp()

	case loggedInMsg:
		if msg.err != nil {
			m.setError(errorText(msg.err))
			return m, nil
		}
		m.session = msg.session
		m.setInfo("Logged in successfully")
		return m.enterApp()

	case registeredMsg:
		if msg.err != nil {
			m.setError(errorText(msg.err))
			return m, nil
		}
		// Registration does not authenticate; send the user to the
		// login form.
		m.tab = tabLogin
		m.focus = 0
		m.password.SetValue("")
		m.setInfo("Registration successful! Please log in")
		return m.focusAuthField()

	case ticketsMsg:
		if msg.result.Phase == client.ListFailed {
			m.logger.Error("failed to load tickets", "error", msg.result.Err)
		}
		m.tickets = msg.result
		return m, nil

	case paymentsMsg:
		if msg.result.Phase == client.ListFailed {
			m.logger.Error("failed to load payments", "error", msg.result.Err)
		}
		m.payments = msg.result
		return m, nil

	case purchasedMsg:
		m.purchasing = false
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrPaymentFailed) {
				m.setError("Payment failed. Please try again")
				// The ticket list changed server-side (a cancelled
				// ticket exists), so refresh anyway.
				return m, m.refreshCmd()
			}
			m.setError(errorText(msg.err))
			return m, nil
		}
		m.route.SetValue("")
		m.setInfo("Ticket purchased!")
		return m, m.refreshCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.view == viewAuth {
		return m.handleAuthKey(msg)
	}
	return m.handleAppKey(msg)
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SwitchTab):
		if m.tab == tabLogin {
			m.tab = tabRegister
		} else {
			m.tab = tabLogin
		}
		m.focus = 0
		m.status = ""
		return m.focusAuthField()

	case key.Matches(msg, m.keys.NextField):
		m.focus = (m.focus + 1) % len(m.authFields())
		return m.focusAuthField()

	case key.Matches(msg, m.keys.PrevField):
		fields := len(m.authFields())
		m.focus = (m.focus - 1 + fields) % fields
		return m.focusAuthField()

	case key.Matches(msg, m.keys.Submit):
		return m.submitAuth()
	}

	return m.updateInputs(msg)
}

func (m Model) handleAppKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CycleType):
		m.typeIdx = (m.typeIdx + 1) % len(purchaseTypes)
		return m, nil

	case key.Matches(msg, m.keys.CycleMethod):
		m.methodIdx = (m.methodIdx + 1) % len(purchaseMethods)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.tickets = client.Loading[ticket.Ticket]()
		m.payments = client.Loading[payment.Payment]()
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Logout):
		m.client.Logout()
		m.session = client.Session{}
		m.view = viewAuth
		m.tab = tabLogin
		m.focus = 0
		m.status = ""
		m.password.SetValue("")
		return m.focusAuthField()

	case key.Matches(msg, m.keys.Submit):
		return m.submitPurchase()
	}

	return m.updateInputs(msg)
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()

	if m.tab == tabLogin {
		if username == "" || password == "" {
			m.setError("Enter username and password")
			return m, nil
		}
		m.setInfo("Logging in...")
		return m, m.loginCmd(username, password)
	}

	email := strings.TrimSpace(m.email.Value())
	if username == "" || email == "" || password == "" {
		m.setError("Fill in all fields")
		return m, nil
	}
	m.setInfo("Registering...")
	return m, m.registerCmd(username, email, password)
}

func (m Model) submitPurchase() (tea.Model, tea.Cmd) {
	if m.purchasing {
		// A purchase is already in flight; ignore the repeat press.
		return m, nil
	}

	route := strings.TrimSpace(m.route.Value())
	if route == "" {
		m.setError("Enter a route")
		return m, nil
	}

	m.purchasing = true
	m.setInfo("Purchasing...")
	return m, m.purchaseCmd(purchaseTypes[m.typeIdx], route, purchaseMethods[m.methodIdx])
}

func (m Model) enterApp() (tea.Model, tea.Cmd) {
	m.view = viewApp
	m.tickets = client.Loading[ticket.Ticket]()
	m.payments = client.Loading[payment.Payment]()
	m.route.Focus()
	return m, tea.Batch(m.refreshCmd(), textinput.Blink)
}

func (m *Model) authFields() []*textinput.Model {
	if m.tab == tabLogin {
		return []*textinput.Model{&m.username, &m.password}
	}
	return []*textinput.Model{&m.username, &m.email, &m.password}
}

func (m Model) focusAuthField() (tea.Model, tea.Cmd) {
	fields := m.authFields()
	for i, field := range fields {
		if i == m.focus {
			field.Focus()
		} else {
			field.Blur()
		}
	}
	return m, textinput.Blink
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.view == viewAuth {
		m.username, cmd = m.username.Update(msg)
		cmds = append(cmds, cmd)
		m.email, cmd = m.email.Update(msg)
		cmds = append(cmds, cmd)
		m.password, cmd = m.password.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.route, cmd = m.route.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setError(text string) {
	m.status = text
	m.statusErr = true
}

func (m *Model) setInfo(text string) {
	m.status = text
	m.statusErr = false
}

// Commands. Each captures what it needs by value and runs on its own
// goroutine inside the bubbletea runtime.

const requestTimeout = 15 * time.Second

func (m Model) verifyCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		session, err := c.Verify(ctx)
		return verifiedMsg{session: session, err: err}
	}
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		session, err := c.Login(ctx, username, password)
		return loggedInMsg{session: session, err: err}
	}
}

func (m Model) registerCmd(username, email, password string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return registeredMsg{err: c.Register(ctx, username, email, password)}
	}
}

func (m Model) loadTicketsCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tickets, err := c.Tickets(ctx)
		if err != nil {
			return ticketsMsg{result: client.Failed[ticket.Ticket](err)}
		}
		return ticketsMsg{result: client.Loaded(tickets)}
	}
}

func (m Model) loadPaymentsCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		payments, err := c.Payments(ctx)
		if err != nil {
			return paymentsMsg{result: client.Failed[payment.Payment](err)}
		}
		return paymentsMsg{result: client.Loaded(payments)}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return tea.Batch(m.loadTicketsCmd(), m.loadPaymentsCmd())
}

func (m Model) purchaseCmd(ticketType, route, method string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := c.Purchase(ctx, ticketType, route, method)
		return purchasedMsg{err: err}
	}
}

// errorText picks what to show the user: the server's message verbatim
// when there is one, the generic connectivity line otherwise.
func errorText(err error) string {
	if msg := client.ServerMessage(err); msg != "" {
		return msg
	}
	return connectivityMessage
}

// Views.

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.view == viewAuth {
		b.WriteString(m.renderAuth())
	} else {
		b.WriteString(m.renderApp())
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(successStyle.Render(m.status))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(" CityPass ")
	if m.session.Token == "" {
		return title
	}
	who := m.session.Username
	if who == "" {
		who = "User"
	}
	return title + "  " + labelStyle.Render(who)
}

func (m Model) renderAuth() string {
	var b strings.Builder

	loginTab := inactiveTabStyle.Render("Login")
	registerTab := inactiveTabStyle.Render("Register")
	if m.tab == tabLogin {
		loginTab = activeTabStyle.Render("Login")
	} else {
		registerTab = activeTabStyle.Render("Register")
	}
	b.WriteString(loginTab + "   " + registerTab + "\n\n")

	b.WriteString(labelStyle.Render("Username") + "\n")
	b.WriteString(m.username.View() + "\n")
	if m.tab == tabRegister {
		b.WriteString(labelStyle.Render("Email") + "\n")
		b.WriteString(m.email.View() + "\n")
	}
	b.WriteString(labelStyle.Render("Password") + "\n")
	b.WriteString(m.password.View() + "\n")

	return b.String()
}

func (m Model) renderApp() string {
	ticketsPane := paneStyle.Render(
		paneTitleStyle.Render("My tickets") + "\n\n" + m.renderTickets())
	paymentsPane := paneStyle.Render(
		paneTitleStyle.Render("Payment history") + "\n\n" + m.renderPayments())

	panes := lipgloss.JoinHorizontal(lipgloss.Top, ticketsPane, " ", paymentsPane)

	return panes + "\n\n" + m.renderPurchaseForm()
}

// renderTickets deliberately renders a failed fetch and an empty list
// the same way; the diagnostic lives in the log, not on screen.
func (m Model) renderTickets() string {
	switch m.tickets.Phase {
	case client.ListLoading:
		return emptyStyle.Render("Loading...")
	case client.ListFailed:
		return emptyStyle.Render(emptyTicketsPlaceholder)
	}

	if len(m.tickets.Items) == 0 {
		return emptyStyle.Render(emptyTicketsPlaceholder)
	}

	var b strings.Builder
	for i, t := range m.tickets.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", ticketTypeLabel(t.TicketType), statusStyle(t.Status).Render(statusLabel(t.Status))))
		b.WriteString(labelStyle.Render("  "+t.Route) + "\n")
		dates := formatDate(t.CreatedAt)
		if t.ValidUntil != nil {
			dates += " → " + formatDate(*t.ValidUntil)
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n", formatPrice(t.Price), labelStyle.Render(dates)))
	}
	return b.String()
}

func (m Model) renderPayments() string {
	switch m.payments.Phase {
	case client.ListLoading:
		return emptyStyle.Render("Loading...")
	case client.ListFailed:
		return emptyStyle.Render(emptyPaymentsPlaceholder)
	}

	if len(m.payments.Items) == 0 {
		return emptyStyle.Render(emptyPaymentsPlaceholder)
	}

	var b strings.Builder
	for i, p := range m.payments.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", formatPrice(p.Amount), statusStyle(p.Status).Render(statusLabel(p.Status))))
		b.WriteString(fmt.Sprintf("  %s  %s\n", paymentMethodLabel(p.PaymentMethod), labelStyle.Render(formatDateTime(p.CreatedAt))))
	}
	return b.String()
}

func (m Model) renderPurchaseForm() string {
	var b strings.Builder

	b.WriteString(paneTitleStyle.Render("Buy a ticket") + "\n")
	b.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		labelStyle.Render("Type:"), ticketTypeLabel(purchaseTypes[m.typeIdx]),
		labelStyle.Render("Pay with:"), paymentMethodLabel(purchaseMethods[m.methodIdx])))
	b.WriteString(m.route.View() + "\n")

	if m.purchasing {
		b.WriteString(emptyStyle.Render("Processing payment...") + "\n")
	}

	return b.String()
}

func (m Model) renderHelp() string {
	if m.view == viewAuth {
		return helpStyle.Render("tab: next field • ctrl+s: login/register • enter: submit • ctrl+c: quit")
	}
	return helpStyle.Render("ctrl+t: type • ctrl+p: payment • enter: buy • ctrl+r: refresh • ctrl+l: logout • ctrl+c: quit")
}
