package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"eatfit/internal/auth"
)

// profileModel is the profile viewer and editor: a read-only field list,
// with an edit mode reusing the setup form prefilled from the cached
// profile.
type profileModel struct {
	mgr     *auth.Manager
	editing bool
	form    profileForm
}

func newProfileModel(mgr *auth.Manager) profileModel {
	return profileModel{mgr: mgr}
}

func (m profileModel) update(msg tea.Msg) (profileModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.editing {
			cmd := m.form.update(msg)
			return m, cmd
		}
		return m, nil
	}

	if !m.editing {
		if key.Matches(km, keys.Edit) {
			m.editing = true
			m.form = newProfileForm()
			m.form.fill(m.mgr.Snapshot().User)
		}
		return m, nil
	}

	switch {
	case key.Matches(km, keys.Cancel):
		m.editing = false
		return m, nil
	case key.Matches(km, keys.Submit):
		patch, err := m.form.patch()
		if err != nil {
			return m, func() tea.Msg { return opErrMsg{err} }
		}
		m.editing = false
		return m, saveProfileCmd(m.mgr, patch)
	}

	cmd := m.form.update(msg)
	return m, cmd
}

func (m profileModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Profile"))
	b.WriteString("\n")

	if m.editing {
		b.WriteString(m.form.view())
		b.WriteString(labelStyle.Render("enter: save · esc: cancel"))
		return b.String()
	}

	p := m.mgr.Snapshot().User
	if p == nil {
		b.WriteString("Profile not loaded yet.\n")
	} else {
		rows := []struct{ label, value string }{
			{"Email", p.Email},
			{"Height", formatFloat(p.Height, " cm")},
			{"Weight", formatFloat(p.Weight, " kg")},
			{"Age", formatInt(p.Age)},
			{"Sex", formatEnum(p.Sex)},
			{"Activity level", formatEnum(p.ActivityLevel)},
			{"Fitness goal", formatEnum(p.FitnessGoal)},
		}
		for _, row := range rows {
			b.WriteString(labelStyle.Render(row.label+": ") + valueStyle.Render(row.value) + "\n")
		}
	}
	b.WriteString(labelStyle.Render("e: edit · d: dashboard · ctrl+l: log out"))
	return b.String()
}

func formatFloat(v *float64, unit string) string {
	if v == nil {
		return "—"
	}
	return trimFloat(*v) + unit
}

func formatInt(v *int) string {
	if v == nil {
		return "—"
	}
	return strconv.Itoa(*v)
}

func formatEnum[T ~string](v *T) string {
	if v == nil {
		return "—"
	}
	return string(*v)
}
