package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"eatfit/internal/auth"
)

// setupModel is the profile setup screen shown after login until all six
// required fields are on the server. Saving re-evaluates the navigation
// gate, which moves to the main screens once the profile is complete.
type setupModel struct {
	mgr  *auth.Manager
	form profileForm
}

func newSetupModel(mgr *auth.Manager) setupModel {
	m := setupModel{mgr: mgr, form: newProfileForm()}
	m.form.fill(mgr.Snapshot().User)
	return m
}

func (m setupModel) update(msg tea.Msg) (setupModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, keys.Submit) {
		patch, err := m.form.patch()
		if err != nil {
			return m, func() tea.Msg { return opErrMsg{err} }
		}
		return m, saveProfileCmd(m.mgr, patch)
	}
	cmd := m.form.update(msg)
	return m, cmd
}

func (m setupModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Set up your fitness profile"))
	b.WriteString("\n")
	b.WriteString(m.form.view())
	b.WriteString(labelStyle.Render("enter: save · ctrl+l: log out"))
	return b.String()
}
