package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"eatfit/internal/auth"
	"eatfit/internal/model"
)

type loginModel struct {
	mgr      *auth.Manager
	email    textinput.Model
	password textinput.Model
	focus    int
}

func newLoginModel(mgr *auth.Manager) loginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.Width = 32
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Width = 32
	password.EchoMode = textinput.EchoPassword

	return loginModel{mgr: mgr, email: email, password: password}
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Next), key.Matches(km, keys.Prev):
			m.focus = 1 - m.focus
			if m.focus == 0 {
				m.email.Focus()
				m.password.Blur()
			} else {
				m.email.Blur()
				m.password.Focus()
			}
			return m, nil
		case key.Matches(km, keys.Submit):
			creds := model.Credentials{
				Email:    strings.TrimSpace(m.email.Value()),
				Password: m.password.Value(),
			}
			return m, loginCmd(m.mgr, creds)
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in to EatFit"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Email") + "\n" + m.email.View() + "\n")
	b.WriteString(labelStyle.Render("Password") + "\n" + m.password.View() + "\n")
	b.WriteString(labelStyle.Render("enter: sign in · ctrl+s: create an account"))
	return b.String()
}
