package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eatfit/internal/auth"
	"eatfit/internal/model"
)

func completeProfile() *model.UserProfile {
	height := 180.0
	weight := 75.0
	age := 30
	sex := model.SexOther
	activity := model.ActivityModerate
	goal := model.GoalMaintain
	return &model.UserProfile{
		Email:         "a@b.com",
		Height:        &height,
		Weight:        &weight,
		Age:           &age,
		Sex:           &sex,
		ActivityLevel: &activity,
		FitnessGoal:   &goal,
	}
}

func TestIsProfileComplete(t *testing.T) {
	assert.True(t, IsProfileComplete(completeProfile()))
	assert.False(t, IsProfileComplete(nil))
	assert.False(t, IsProfileComplete(&model.UserProfile{Email: "a@b.com"}))

	// removing any single required field flips the predicate
	clear := map[string]func(*model.UserProfile){
		"height":         func(p *model.UserProfile) { p.Height = nil },
		"weight":         func(p *model.UserProfile) { p.Weight = nil },
		"age":            func(p *model.UserProfile) { p.Age = nil },
		"sex":            func(p *model.UserProfile) { p.Sex = nil },
		"activity_level": func(p *model.UserProfile) { p.ActivityLevel = nil },
		"fitness_goal":   func(p *model.UserProfile) { p.FitnessGoal = nil },
	}
	for field, unset := range clear {
		p := completeProfile()
		unset(p)
		assert.False(t, IsProfileComplete(p), "missing %s", field)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		snap auth.Snapshot
		want Route
	}{
		{
			name: "unauthenticated",
			snap: auth.Snapshot{},
			want: RouteAuth,
		},
		{
			name: "unauthenticated even with a lingering profile",
			snap: auth.Snapshot{User: completeProfile()},
			want: RouteAuth,
		},
		{
			name: "authenticated with no profile yet",
			snap: auth.Snapshot{IsAuthenticated: true},
			want: RouteProfileSetup,
		},
		{
			name: "authenticated with incomplete profile",
			snap: auth.Snapshot{IsAuthenticated: true, User: &model.UserProfile{Email: "a@b.com"}},
			want: RouteProfileSetup,
		},
		{
			name: "authenticated with complete profile",
			snap: auth.Snapshot{IsAuthenticated: true, User: completeProfile()},
			want: RouteMain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.snap))
		})
	}
}

func TestResolveMovesForwardAsFieldsFill(t *testing.T) {
	p := &model.UserProfile{Email: "a@b.com"}
	snap := auth.Snapshot{IsAuthenticated: true, User: p}
	assert.Equal(t, RouteProfileSetup, Resolve(snap))

	height := 180.0
	p.Height = &height
	assert.Equal(t, RouteProfileSetup, Resolve(snap), "one field is not enough")

	full := completeProfile()
	full.Weight = nil
	snap.User = full
	assert.Equal(t, RouteProfileSetup, Resolve(snap), "any missing field keeps setup")

	snap.User = completeProfile()
	assert.Equal(t, RouteMain, Resolve(snap))
}
