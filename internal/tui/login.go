package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/geosync/geosync/internal/service"
	"github.com/geosync/geosync/models"
)

type LoginModel struct {
	ctx    context.Context
	auth   service.ClientAuthService
	inputs []textinput.Model
	focus  int

	waiting bool
	errText string
}

func NewLoginModel(ctx context.Context, auth service.ClientAuthService) *LoginModel {
	login := textinput.New()
	login.Placeholder = "логин"
	login.CharLimit = 64
	login.Focus()

	password := textinput.New()
	password.Placeholder = "пароль"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return &LoginModel{
		ctx:    ctx,
		auth:   auth,
		inputs: []textinput.Model{login, password},
	}
}

func (m *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoginResult:
		m.waiting = false
		if msg.Err != nil {
			m.errText = humanizeServerUnavailableError(msg.Err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.waiting {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return NavigateTo{Page: "menu"} }
		case "tab", "down":
			m.focusNext()
			return m, nil
		case "shift+tab", "up":
			m.focusPrev()
			return m, nil
		case "enter":
			if m.focus < len(m.inputs)-1 {
				m.focusNext()
				return m, nil
			}

			login := strings.TrimSpace(m.inputs[0].Value())
			password := m.inputs[1].Value()
			if login == "" || password == "" {
				m.errText = "Все поля обязательны"
				return m, nil
			}

			m.errText = ""
			m.waiting = true
			return m, m.cmdLogin(login, password)
		}
	}

	return m, m.updateInputs(msg)
}

func (m *LoginModel) View() string {
	var b strings.Builder
	labels := []string{"Логин:", "Пароль:"}
	for i, input := range m.inputs {
		b.WriteString(labels[i])
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	if m.waiting {
		b.WriteString("\nВыполняется вход...")
	}
	if m.errText != "" {
		b.WriteString("\nОшибка: ")
		b.WriteString(m.errText)
	}

	return renderPage("ВХОД", b.String(), "enter: войти │ tab: следующее поле │ esc: назад")
}

func (m *LoginModel) cmdLogin(login, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.auth.Login(m.ctx, models.User{Login: login, Password: password})
		return LoginResult{Err: err, Username: login}
	}
}

func (m *LoginModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *LoginModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus--
	if m.focus < 0 {
		m.focus = len(m.inputs) - 1
	}
	m.inputs[m.focus].Focus()
}

func (m *LoginModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}
