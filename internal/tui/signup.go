package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"eatfit/internal/auth"
	"eatfit/internal/model"
)

var errPasswordMismatch = errors.New("passwords don't match")

type signupModel struct {
	mgr    *auth.Manager
	inputs [4]textinput.Model // full name, email, password, confirm
	focus  int
}

func newSignupModel(mgr *auth.Manager) signupModel {
	m := signupModel{mgr: mgr}
	placeholders := [4]string{"full name", "email", "password", "confirm password"}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.Width = 32
		if i >= 2 {
			in.EchoMode = textinput.EchoPassword
		}
		m.inputs[i] = in
	}
	m.inputs[0].Focus()
	return m
}

func (m signupModel) update(msg tea.Msg) (signupModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Next):
			m.setFocus((m.focus + 1) % len(m.inputs))
			return m, nil
		case key.Matches(km, keys.Prev):
			m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return m, nil
		case key.Matches(km, keys.Submit):
			if m.inputs[2].Value() != m.inputs[3].Value() {
				return m, func() tea.Msg { return opErrMsg{errPasswordMismatch} }
			}
			input := model.SignupInput{
				FullName: strings.TrimSpace(m.inputs[0].Value()),
				Email:    strings.TrimSpace(m.inputs[1].Value()),
				Password: m.inputs[2].Value(),
			}
			return m, signupCmd(m.mgr, input)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *signupModel) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m signupModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create your EatFit account"))
	b.WriteString("\n")
	labels := [4]string{"Full name", "Email", "Password", "Confirm password"}
	for i, in := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]) + "\n" + in.View() + "\n")
	}
	b.WriteString(labelStyle.Render("enter: sign up · ctrl+s: back to sign in"))
	return b.String()
}
