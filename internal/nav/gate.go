// Package nav decides which screen set the client shows. The decision is a
// pure function of the auth snapshot and is re-derived on every state
// change, never cached, so a profile update moves the user forward
// immediately.
package nav

import (
	"eatfit/internal/auth"
	"eatfit/internal/model"
)

// Route is a screen set.
type Route int

const (
	// RouteAuth shows the login/signup screens.
	RouteAuth Route = iota
	// RouteProfileSetup shows the required-fields setup form.
	RouteProfileSetup
	// RouteMain shows the dashboard and profile screens.
	RouteMain
)

func (r Route) String() string {
	switch r {
	case RouteAuth:
		return "auth"
	case RouteProfileSetup:
		return "profile_setup"
	case RouteMain:
		return "main"
	}
	return "unknown"
}

// Resolve maps an auth snapshot to the screen set to render. An
// authenticated session with an absent or incomplete profile lands on
// profile setup; this includes the boot-with-no-network case where the
// profile is still unknown.
func Resolve(s auth.Snapshot) Route {
	if !s.IsAuthenticated {
		return RouteAuth
	}
	if !IsProfileComplete(s.User) {
		return RouteProfileSetup
	}
	return RouteMain
}

// IsProfileComplete reports whether all six required fields are present.
// A nil profile is incomplete.
func IsProfileComplete(p *model.UserProfile) bool {
	if p == nil {
		return false
	}
	return p.Height != nil &&
		p.Weight != nil &&
		p.Age != nil &&
		p.Sex != nil &&
		p.ActivityLevel != nil &&
		p.FitnessGoal != nil
}
