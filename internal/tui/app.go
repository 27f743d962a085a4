package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"eatfit/internal/auth"
	"eatfit/internal/nav"
)

// mainTab selects the screen inside the main route.
type mainTab int

const (
	tabDashboard mainTab = iota
	tabProfile
)

// App is the root bubbletea model. It owns the auth manager and switches
// screens by re-resolving the navigation gate against a fresh snapshot on
// every update; the gate result is never cached across state changes.
type App struct {
	mgr *auth.Manager

	route   nav.Route
	booted  bool
	signupV bool // auth route shows signup instead of login
	tab     mainTab

	login   loginModel
	signup  signupModel
	setup   setupModel
	dash    dashboardModel
	profile profileModel

	spin   spinner.Model
	help   help.Model
	keys   keyMap
	err    error
	notice string
	width  int
	height int
}

// NewApp creates the root model over an auth manager.
func NewApp(mgr *auth.Manager) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &App{
		mgr:     mgr,
		login:   newLoginModel(mgr),
		signup:  newSignupModel(mgr),
		setup:   newSetupModel(mgr),
		dash:    newDashboardModel(mgr),
		profile: newProfileModel(mgr),
		spin:    s,
		help:    help.New(),
		keys:    keys,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, bootstrapCmd(a.mgr))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.dash.width = msg.Width
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		if a.mgr.Snapshot().Loading {
			return a, cmd
		}
		return a, nil

	case SnapshotMsg:
		a.reroute()
		return a, nil

	case opErrMsg:
		a.err = msg.err
		a.notice = ""
		a.reroute()
		return a, nil

	case opDoneMsg:
		a.booted = true
		a.err = nil
		a.notice = msg.notice
		a.reroute()
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	return a.updateScreen(msg)
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil

	case key.Matches(msg, a.keys.Switch) && a.route == nav.RouteAuth:
		a.signupV = !a.signupV
		a.err = nil
		return a, nil

	case key.Matches(msg, a.keys.Logout) && a.route != nav.RouteAuth:
		return a, tea.Batch(a.spin.Tick, logoutCmd(a.mgr))

	case key.Matches(msg, a.keys.Refresh) && a.route == nav.RouteMain && a.tab == tabDashboard:
		return a, tea.Batch(a.spin.Tick, refreshProfileCmd(a.mgr))
	}

	if a.route == nav.RouteMain && !a.profile.editing {
		switch msg.String() {
		case "p":
			a.tab = tabProfile
			return a, nil
		case "d":
			a.tab = tabDashboard
			return a, nil
		case "q":
			return a, tea.Quit
		}
	}

	next, cmd := a.updateScreen(msg)
	if cmd != nil {
		// a screen fired a session operation; keep the spinner moving
		return next, tea.Batch(a.spin.Tick, cmd)
	}
	return next, cmd
}

func (a *App) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.route {
	case nav.RouteAuth:
		if a.signupV {
			a.signup, cmd = a.signup.update(msg)
		} else {
			a.login, cmd = a.login.update(msg)
		}
	case nav.RouteProfileSetup:
		a.setup, cmd = a.setup.update(msg)
	case nav.RouteMain:
		if a.tab == tabProfile {
			a.profile, cmd = a.profile.update(msg)
		}
	}
	return a, cmd
}

// reroute re-evaluates the navigation gate and resets screen-local state
// when the route changes.
func (a *App) reroute() {
	next := nav.Resolve(a.mgr.Snapshot())
	if next == a.route {
		return
	}
	a.route = next
	a.notice = ""
	switch next {
	case nav.RouteAuth:
		a.signupV = false
		a.login = newLoginModel(a.mgr)
		a.signup = newSignupModel(a.mgr)
	case nav.RouteProfileSetup:
		a.setup = newSetupModel(a.mgr)
	case nav.RouteMain:
		a.tab = tabDashboard
		a.profile = newProfileModel(a.mgr)
	}
}

func (a *App) View() string {
	snap := a.mgr.Snapshot()

	if !a.booted && snap.Loading {
		return docStyle.Render(a.spin.View() + " Restoring session")
	}

	var body string
	switch a.route {
	case nav.RouteAuth:
		if a.signupV {
			body = a.signup.view()
		} else {
			body = a.login.view()
		}
	case nav.RouteProfileSetup:
		body = a.setup.view()
	case nav.RouteMain:
		if a.tab == tabProfile {
			body = a.profile.view()
		} else {
			body = a.dash.view()
		}
	}

	if snap.Loading {
		body += "\n" + a.spin.View() + " Working..."
	}
	if a.err != nil {
		body += "\n" + errorStyle.Render(wordwrap.String(a.err.Error(), a.wrapWidth()))
	} else if a.notice != "" {
		body += "\n" + noticeStyle.Render(a.notice)
	}

	body += "\n" + helpStyle.Render(a.help.View(a.keys))
	return docStyle.Render(body)
}

func (a *App) wrapWidth() int {
	if a.width > 4 {
		return a.width - 4
	}
	return 76
}
