// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/geosync/geosync/internal/service"
	"github.com/geosync/geosync/models"
)

const (
	regFieldName = iota
	regFieldLogin
	regFieldPassword
	regFieldRepeat
)

type RegisterModel struct {
	ctx    context.Context
	auth   service.ClientAuthService
	inputs []textinput.Model
	focus  int

	waiting bool
	errText string
}

func NewRegisterModel(ctx context.Context, auth service.ClientAuthService) *RegisterModel {
	name := textinput.New()
	name.Placeholder = "имя"
	name.CharLimit = 128
	name.Focus()

	login := textinput.New()
	login.Placeholder = "логин"
	login.CharLimit = 64

	password := textinput.New()
	password.Placeholder = "пароль"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	repeat := textinput.New()
	repeat.Placeholder = "повторите пароль"
	repeat.CharLimit = 64
	repeat.EchoMode = textinput.EchoPassword
	repeat.EchoCharacter = '*'

	return &RegisterModel{
		ctx:    ctx,
		auth:   auth,
		inputs: []textinput.Model{name, login, password, repeat},
	}
}

func (m *RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RegisterResult:
		m.waiting = false
		if msg.Err != nil {
			m.errText = humanizeServerUnavailableError(msg.Err)
			return m, nil
		}

		// Back to the menu with a confirmation banner. The user still has
		// to log in with the new credentials.
		notice := RegisterSuccessNotice{Username: msg.Username}
		return m, func() tea.Msg { return NavigateTo{Page: "menu", Payload: notice} }

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
			return m, m.submit()
		}
	}

	return m, m.updateInputs(msg)
}

func (m *RegisterModel) submit() tea.Cmd {
	name := strings.TrimSpace(m.inputs[regFieldName].Value())
	login := strings.TrimSpace(m.inputs[regFieldLogin].Value())
	password := m.inputs[regFieldPassword].Value()
	repeat := m.inputs[regFieldRepeat].Value()

	if name == "" || login == "" || password == "" {
		m.errText = "Все поля обязательны"
		return nil
	}
	if password != repeat {
		m.errText = "Пароли не совпадают"
		return nil
	}

	m.errText = ""
	m.waiting = true
	return m.cmdRegister(name, login, password)
}

func (m *RegisterModel) cmdRegister(name, login, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.auth.Register(m.ctx, models.User{
			Name:     name,
			Login:    login,
			Password: password,
		})
		return RegisterResult{Err: err, Username: login}
	}
}

func (m *RegisterModel) View() string {
	var b strings.Builder
	labels := []string{"Имя:", "Логин:", "Пароль:", "Повтор пароля:"}
	for i, input := range m.inputs {
		b.WriteString(labels[i])
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	if m.waiting {
		b.WriteString("\nВыполняется регистрация...")
	}
	if m.errText != "" {
		b.WriteString("\nОшибка: ")
		b.WriteString(m.errText)
	}

	return renderPage("РЕГИСТРАЦИЯ", b.String(), "enter: зарегистрироваться │ tab: следующее поле │ esc: назад")
}

func (m *RegisterModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *RegisterModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus--
	if m.focus < 0 {
		m.focus = len(m.inputs) - 1
	}
	m.inputs[m.focus].Focus()
}

func (m *RegisterModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}
