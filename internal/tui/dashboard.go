package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"

	"eatfit/internal/auth"
	"eatfit/internal/fitness"
	"eatfit/internal/model"
)

// dashboardModel renders the daily summary from the cached profile. It is
// read-only; all data changes go through the profile screen.
type dashboardModel struct {
	mgr   *auth.Manager
	width int
}

func newDashboardModel(mgr *auth.Manager) dashboardModel {
	return dashboardModel{mgr: mgr}
}

func (m dashboardModel) view() string {
	snap := m.mgr.Snapshot()
	md := dashboardMarkdown(snap.User)

	width := m.width
	if width <= 0 {
		width = 80
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		out = wordwrap.String(md, width)
	}

	var b strings.Builder
	b.WriteString(out)
	b.WriteString(labelStyle.Render("p: profile · r: refresh · ctrl+l: log out"))
	return b.String()
}

func dashboardMarkdown(p *model.UserProfile) string {
	var b strings.Builder
	b.WriteString("# Dashboard\n\n")
	if p == nil {
		b.WriteString("Profile not loaded yet.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Signed in as **%s**\n\n", p.Email)

	metrics, err := fitness.Summary(p)
	if err != nil {
		b.WriteString("Complete your profile to see your daily targets.\n")
		return b.String()
	}

	goal := string(*p.FitnessGoal)
	b.WriteString("## Today\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| BMI | %.1f |\n", metrics.BMI)
	fmt.Fprintf(&b, "| Resting calories | %.0f kcal |\n", metrics.BMR)
	fmt.Fprintf(&b, "| Maintenance | %.0f kcal |\n", metrics.TDEE)
	fmt.Fprintf(&b, "| Target (%s) | %.0f kcal |\n", goal, metrics.CalorieTarget)
	return b.String()
}
