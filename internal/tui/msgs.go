package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"eatfit/internal/auth"
	"eatfit/internal/model"
)

// SnapshotMsg carries an auth state change into the program. cmd/eatfit
// forwards the manager's subscription through Program.Send.
type SnapshotMsg auth.Snapshot

// opErrMsg is a failed session operation, rendered inline on the active
// screen; operations never crash the UI.
type opErrMsg struct{ err error }

// opDoneMsg is a completed session operation with an optional user notice.
type opDoneMsg struct{ notice string }

func bootstrapCmd(mgr *auth.Manager) tea.Cmd {
	return func() tea.Msg {
		mgr.Bootstrap(context.Background())
		return opDoneMsg{}
	}
}

func loginCmd(mgr *auth.Manager, creds model.Credentials) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.Login(context.Background(), creds); err != nil {
			return opErrMsg{err}
		}
		return opDoneMsg{}
	}
}

func signupCmd(mgr *auth.Manager, input model.SignupInput) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.Signup(context.Background(), input); err != nil {
			return opErrMsg{err}
		}
		return opDoneMsg{}
	}
}

func saveProfileCmd(mgr *auth.Manager, patch model.ProfileUpdate) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.UpdateProfile(context.Background(), patch); err != nil {
			return opErrMsg{err}
		}
		return opDoneMsg{notice: "Profile updated!"}
	}
}

func refreshProfileCmd(mgr *auth.Manager) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.RefreshProfile(context.Background()); err != nil {
			return opErrMsg{err}
		}
		return opDoneMsg{}
	}
}

func logoutCmd(mgr *auth.Manager) tea.Cmd {
	return func() tea.Msg {
		mgr.Logout()
		return opDoneMsg{}
	}
}
