package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/naveenspark/xpboard/internal/browser"
	"github.com/naveenspark/xpboard/internal/dashboard"
	"github.com/naveenspark/xpboard/internal/profile"
	"github.com/naveenspark/xpboard/internal/session"
)

// sessionMsg carries the stored credential and theme read at startup.
type sessionMsg struct {
	cred  session.Credential
	ok    bool
	theme session.Theme
}

// loginDoneMsg carries the result of a credential exchange.
type loginDoneMsg struct {
	ticket dashboard.Ticket
	cred   session.Credential
	err    error
}

// profileLoadedMsg carries the result of a profile fetch + aggregate.
type profileLoadedMsg struct {
	ticket  dashboard.Ticket
	metrics *profile.Metrics
	err     error
}

type copyDoneMsg struct{ err error }

type openDoneMsg struct{ err error }

type themeSavedMsg struct{ err error }

// Options configures an App.
type Options struct {
	// SiteURL is opened by the "o" key.
	SiteURL string

	// Override, when non-nil, is used instead of the stored credential.
	Override *session.Credential
}

// App is the root Bubbletea model.
type App struct {
	svc     *dashboard.Service
	machine *dashboard.Machine
	opts    Options

	ticket  dashboard.Ticket
	cred    session.Credential
	metrics *profile.Metrics

	login    loginModel
	st       styles
	errMsg   string
	status   string
	helpOpen bool
	scroll   int
	width    int
	height   int
	frame    int // logo shimmer animation frame
	now      func() time.Time
}

// NewApp creates a new TUI application.
func NewApp(svc *dashboard.Service, opts Options) App {
	st := newStyles(session.ThemeDark)
	return App{
		svc:     svc,
		machine: dashboard.NewMachine(),
		opts:    opts,
		login:   newLoginModel(st, ""),
		st:      st,
		now:     time.Now,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), textinput.Blink, a.readSession())
}

func (a App) readSession() tea.Cmd {
	svc, override := a.svc, a.opts.Override
	return func() tea.Msg {
		ctx := context.Background()
		theme := svc.Store().Theme(ctx)
		if override != nil {
			return sessionMsg{cred: *override, ok: true, theme: theme}
		}
		cred, ok := svc.Credential(ctx)
		return sessionMsg{cred: cred, ok: ok, theme: theme}
	}
}

func (a App) loginCmd(t dashboard.Ticket, username, password string) tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		cred, err := svc.Login(context.Background(), username, password)
		return loginDoneMsg{ticket: t, cred: cred, err: err}
	}
}

func (a App) fetchCmd(t dashboard.Ticket, cred session.Credential) tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		m, err := svc.Load(context.Background(), cred)
		return profileLoadedMsg{ticket: t, metrics: m, err: err}
	}
}

// beginFetch moves the machine to Fetching and starts the query.
func (a App) beginFetch() (App, tea.Cmd) {
	if err := a.machine.BeginFetch(a.ticket); err != nil {
		log.Warn().Err(err).Str("chain", a.ticket.String()).Msg("fetch not started")
		return a, nil
	}
	return a, a.fetchCmd(a.ticket, a.cred)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionMsg:
		a.setTheme(msg.theme)
		if !msg.ok || !a.machine.LoggedOut() {
			return a, nil
		}
		t, err := a.machine.Restore()
		if err != nil {
			return a, nil
		}
		a.ticket, a.cred = t, msg.cred
		return a.beginFetch()

	case loginDoneMsg:
		if !a.machine.Current(msg.ticket) {
			log.Debug().Str("chain", msg.ticket.String()).Msg("discard stale login result")
			return a, nil
		}
		if msg.err != nil {
			a.machine.Fail(msg.ticket, msg.err)
			a.errMsg = dashboard.UserMessage(msg.err)
			a.login = a.login.clearPassword()
			return a, nil
		}
		if !a.machine.LoginSucceeded(msg.ticket) {
			return a, nil
		}
		// Persist only after the ticket check so a login that lost to a
		// logout or a newer login never overwrites the store.
		if err := a.svc.Persist(context.Background(), msg.cred); err != nil {
			a.status = "session not saved"
		}
		a.cred = msg.cred
		return a.beginFetch()

	case profileLoadedMsg:
		if !a.machine.Current(msg.ticket) {
			log.Debug().Str("chain", msg.ticket.String()).Msg("discard stale profile result")
			return a, nil
		}
		if msg.err != nil {
			if dashboard.Unauthorized(msg.err) {
				a.svc.Reject(context.Background(), a.cred) //nolint:errcheck
			}
			a.machine.Fail(msg.ticket, msg.err)
			a.metrics = nil
			a.errMsg = dashboard.UserMessage(msg.err)
			a.login = newLoginModel(a.st, a.cred.Username)
			a.cred = session.Credential{}
			return a, nil
		}
		if a.machine.FetchSucceeded(msg.ticket) {
			a.metrics = msg.metrics
			a.errMsg = ""
			a.status = ""
		}
		return a, nil

	case copyDoneMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			a.status = "summary copied!"
		}
		return a, nil

	case openDoneMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("open failed: %v", msg.err)
		}
		return a, nil

	case themeSavedMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("theme not saved: %v", msg.err)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch {
		case a.machine.LoggedOut():
			return a.updateLogin(msg)
		case a.machine.Phase() == dashboard.PhaseAuthenticating:
			if msg.String() == "esc" {
				return a, tea.Quit
			}
			return a, nil
		}
		return a.updateDashboard(msg)
	}

	if a.machine.LoggedOut() {
		var cmd tea.Cmd
		a.login, cmd, _ = a.login.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a, tea.Quit
	case "ctrl+t":
		return a.toggleTheme()
	}

	var cmd tea.Cmd
	var submit bool
	a.login, cmd, submit = a.login.Update(msg)
	if !submit {
		return a, cmd
	}

	username, password := a.login.credentials()
	if username == "" || password == "" {
		a.errMsg = missingFieldsMsg
		return a, nil
	}
	t, err := a.machine.BeginLogin()
	if err != nil {
		return a, nil
	}
	a.ticket = t
	a.errMsg = ""
	return a, a.loginCmd(t, username, password)
}

func (a App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.helpOpen {
		switch msg.String() {
		case "h", "?", "esc":
			a.helpOpen = false
		case "q":
			return a, tea.Quit
		}
		return a, nil
	}

	a.status = ""
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "h", "?":
		a.helpOpen = true
	case "j", "down":
		if a.metrics != nil {
			lines := strings.Count(renderDashboard(a.metrics, a.cred.Username, a.width, a.st), "\n")
			if a.scroll < lines-1 {
				a.scroll++
			}
		}
	case "k", "up":
		if a.scroll > 0 {
			a.scroll--
		}
	case "r":
		if a.machine.Phase() == dashboard.PhaseReady {
			a.status = "reloading..."
			return a.beginFetch()
		}
	case "t":
		return a.toggleTheme()
	case "c":
		if a.metrics != nil {
			text := a.metrics.Text(a.cred.Username)
			return a, func() tea.Msg {
				return copyDoneMsg{err: clipboard.WriteAll(text)}
			}
		}
	case "o":
		url := a.opts.SiteURL
		return a, func() tea.Msg {
			return openDoneMsg{err: browser.Open(url)}
		}
	case "L":
		return a.logout()
	}
	return a, nil
}

func (a *App) setTheme(t session.Theme) {
	a.st = newStyles(t)
	a.login.applyStyles(a.st)
}

func (a App) toggleTheme() (tea.Model, tea.Cmd) {
	next := a.st.theme.Toggle()
	a.setTheme(next)
	store := a.svc.Store()
	return a, func() tea.Msg {
		return themeSavedMsg{err: store.SetTheme(context.Background(), next)}
	}
}

// logout drops the dashboard and clears the store before returning, so a
// later login is always written after the clear. Responses still in flight
// carry the old ticket and are discarded when they land.
func (a App) logout() (tea.Model, tea.Cmd) {
	a.machine.Logout()
	a.metrics = nil
	a.cred = session.Credential{}
	a.scroll = 0
	a.errMsg = ""
	a.login = newLoginModel(a.st, "")
	if err := a.svc.Logout(context.Background()); err != nil {
		a.errMsg = "Logout failed"
	}
	return a, nil
}

// expiryLine describes how long the current token has left, if it says.
func (a App) expiryLine() string {
	exp, ok := session.PeekExpiry(a.cred.Token)
	if !ok {
		return ""
	}
	left := exp.Sub(a.now())
	if left <= 0 {
		return a.st.err.Render("session expired")
	}
	return a.st.meta.Render("session expires in " + formatRemaining(left))
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame, a.st)
	header := centerLine(logo, lipgloss.Width(logo), a.width)

	onLogin := a.machine.LoggedOut() || a.machine.Phase() == dashboard.PhaseAuthenticating

	sub := ""
	if !onLogin {
		sub = a.expiryLine()
	}
	header += "\n" + centerLine(sub, lipgloss.Width(sub), a.width)

	var body, help string
	switch {
	case onLogin:
		body, help = a.loginView()
	case a.helpOpen:
		body = helpView(a.st, a.opts.SiteURL)
		help = helpBar(a.st, "esc", "close", "q", "quit")
	case a.metrics == nil:
		body = "\n  " + a.st.dim.Render(a.progressText())
		help = helpBar(a.st, "L", "logout", "q", "quit")
	default:
		body = renderDashboard(a.metrics, a.cred.Username, a.width, a.st)
		help = helpBar(a.st, "j/k", "scroll", "r", "reload", "t", "theme", "c", "copy", "o", "open", "L", "logout", "h", "help", "q", "quit")
	}

	status := ""
	if a.status != "" {
		status = " " + a.st.accent.Render(a.status)
	}

	// Chrome: header(2) + status(1) + help(1)
	chrome := 4
	body, _ = scrollLines(body, a.scroll)
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, body, status, help)
}

func (a App) progressText() string {
	switch a.machine.Phase() {
	case dashboard.PhaseAuthenticated, dashboard.PhaseFetching:
		return "loading profile..."
	default:
		return a.machine.Phase().String()
	}
}

func (a App) loginView() (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", a.st.normal.Render("Sign in with your campus account"))
	b.WriteString(a.login.View())
	b.WriteString("\n\n")
	switch {
	case a.machine.Phase() == dashboard.PhaseAuthenticating:
		b.WriteString("  " + a.st.dim.Render("signing in..."))
	case a.errMsg != "":
		b.WriteString("  " + a.st.err.Render(a.errMsg))
	}
	b.WriteString("\n")
	help := helpBar(a.st, "tab", "next", "enter", "sign in", "ctrl+t", "theme", "esc", "quit")
	return b.String(), help
}
