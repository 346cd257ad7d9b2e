package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HeatherCyber/BlitzBuy/internal/api"
	"github.com/HeatherCyber/BlitzBuy/internal/model"
	"github.com/HeatherCyber/BlitzBuy/internal/security"
)

const (
	fieldMobile = iota
	fieldPassword
)

// LoginPageModel renders the mobile/password form. The password is
// pre-hashed before it is handed to the gateway; the plaintext never
// leaves this page.
type LoginPageModel struct {
	deps   Deps
	styles Styles

	inputs  []textinput.Model
	focused int

	submitting bool
	errText    string

	width  int
	height int
}

// NewLoginPageModel builds the form.
func NewLoginPageModel(deps Deps) LoginPageModel {
	mobile := textinput.New()
	mobile.Placeholder = "Mobile number"
	mobile.CharLimit = 11
	mobile.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return LoginPageModel{
		deps:   deps,
		styles: deps.Styles,
		inputs: []textinput.Model{mobile, password},
	}
}

// Init focuses the mobile field.
func (m LoginPageModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles form input and submission.
func (m LoginPageModel) Update(msg tea.Msg) (LoginPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.inputs[m.focused].Blur()
			if msg.String() == "shift+tab" || msg.String() == "up" {
				m.focused = (m.focused + len(m.inputs) - 1) % len(m.inputs)
			} else {
				m.focused = (m.focused + 1) % len(m.inputs)
			}
			return m, m.inputs[m.focused].Focus()
		case "enter":
			if m.focused == fieldMobile {
				m.inputs[fieldMobile].Blur()
				m.focused = fieldPassword
				return m, m.inputs[fieldPassword].Focus()
			}
			return m.submit()
		}

	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = loginErrorText(msg.err)
			return m, nil
		}
		user := msg.user
		return m, func() tea.Msg { return LoggedInMsg{User: user} }
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m LoginPageModel) submit() (LoginPageModel, tea.Cmd) {
	mobile := strings.TrimSpace(m.inputs[fieldMobile].Value())
	password := m.inputs[fieldPassword].Value()

	if len(mobile) != 11 || !isDigits(mobile) {
		m.errText = "Please enter a valid 11-digit mobile number."
		return m, nil
	}
	if password == "" {
		m.errText = "Please enter your password."
		return m, nil
	}

	m.submitting = true
	m.errText = ""
	client := m.deps.Client
	store := m.deps.Session
	form := model.LoginForm{
		Mobile:   mobile,
		Password: security.InputPassToMidPass(password),
	}
	return m, func() tea.Msg {
		ctx := context.Background()
		ticket, err := client.Login(ctx, form)
		if err != nil {
			return loginResultMsg{err: err}
		}
		user, err := client.CurrentUser(ctx)
		if err != nil {
			// Logged in but the profile fetch failed; keep the ticket.
			user = model.User{Mobile: form.Mobile}
		}
		if err := store.Save(ticket, user); err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{user: user}
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// loginErrorText maps the backend's login rejections to form messages.
func loginErrorText(err error) string {
	switch {
	case api.IsCode(err, api.CodeLoginError):
		return "Invalid mobile number or password."
	case api.IsCode(err, api.CodeMobileError):
		return "Invalid mobile number format."
	case api.IsCode(err, api.CodeMobileNotExist):
		return "Mobile number not found."
	case api.IsCode(err, api.CodeBindError):
		return "Invalid request. Check your input and try again."
	default:
		return "Login failed. Check your connection and try again."
	}
}

// View renders the form.
func (m LoginPageModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("BlitzBuy — Sign In"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.inputs[fieldMobile].View() + "\n")
	b.WriteString("  " + m.inputs[fieldPassword].View() + "\n\n")

	switch {
	case m.submitting:
		b.WriteString("  " + m.styles.Info.Render("Signing in...") + "\n")
	case m.errText != "":
		b.WriteString("  " + m.styles.Error.Render(m.errText) + "\n")
	}

	b.WriteString("\n" + m.styles.Footer.Render("enter: sign in • tab: next field • ctrl+c: quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize records the window size.
func (m *LoginPageModel) SetSize(w, h int) {
	m.width, m.height = w, h
	for i := range m.inputs {
		m.inputs[i].Width = min(40, max(20, w-8))
	}
}
