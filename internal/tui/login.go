package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 256

// missingFieldsMsg is shown without a network call when a field is blank.
const missingFieldsMsg = "Please enter your username/email and password"

type loginField int

const (
	fieldUsername loginField = iota
	fieldPassword
)

// loginModel is the username/password form.
type loginModel struct {
	username textinput.Model
	password textinput.Model
	focus    loginField
}

func newLoginModel(st styles, username string) loginModel {
	u := textinput.New()
	u.Placeholder = "username or email"
	u.Prompt = "user  "
	u.CharLimit = maxInputLen
	u.SetValue(username)

	p := textinput.New()
	p.Placeholder = "password"
	p.Prompt = "pass  "
	p.CharLimit = maxInputLen
	p.EchoMode = textinput.EchoPassword
	p.EchoCharacter = '•'

	m := loginModel{username: u, password: p}
	m.applyStyles(st)
	if username != "" {
		m.focus = fieldPassword
	}
	m.syncFocus()
	return m
}

func (m *loginModel) applyStyles(st styles) {
	for _, in := range []*textinput.Model{&m.username, &m.password} {
		in.PromptStyle = st.prompt
		in.TextStyle = st.normal
		in.PlaceholderStyle = st.meta
		in.Cursor.Style = st.accent
	}
}

func (m *loginModel) syncFocus() {
	if m.focus == fieldUsername {
		m.username.Focus()
		m.password.Blur()
		return
	}
	m.password.Focus()
	m.username.Blur()
}

// credentials returns the trimmed username and the raw password.
func (m loginModel) credentials() (string, string) {
	return strings.TrimSpace(m.username.Value()), m.password.Value()
}

// clearPassword empties the password field and focuses it.
func (m loginModel) clearPassword() loginModel {
	m.password.Reset()
	m.focus = fieldPassword
	m.syncFocus()
	return m
}

// Update handles a key for the form. submit is true when enter is pressed on
// the password field.
func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down", "shift+tab", "up":
			if m.focus == fieldUsername {
				m.focus = fieldPassword
			} else {
				m.focus = fieldUsername
			}
			m.syncFocus()
			return m, nil, false
		case "enter":
			if m.focus == fieldUsername {
				m.focus = fieldPassword
				m.syncFocus()
				return m, nil, false
			}
			return m, nil, true
		}
	}

	var cmd tea.Cmd
	if m.focus == fieldUsername {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd, false
}

func (m loginModel) View() string {
	return "  " + m.username.View() + "\n  " + m.password.View()
}
