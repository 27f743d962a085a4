package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eatfit/internal/model"
)

func TestFormPatchRequiresAllFields(t *testing.T) {
	f := newProfileForm()
	_, err := f.patch()
	assert.ErrorIs(t, err, errFormIncomplete)

	f.inputs[fieldHeight].SetValue("180")
	f.inputs[fieldWeight].SetValue("75.5")
	f.inputs[fieldAge].SetValue("30")
	_, err = f.patch()
	assert.ErrorIs(t, err, errFormIncomplete, "enums still unset")

	f.sex = 0
	f.activity = 2
	f.goal = 1

	patch, err := f.patch()
	require.NoError(t, err)
	require.NotNil(t, patch.Height)
	assert.Equal(t, 180.0, *patch.Height)
	require.NotNil(t, patch.Weight)
	assert.Equal(t, 75.5, *patch.Weight)
	require.NotNil(t, patch.Age)
	assert.Equal(t, 30, *patch.Age)
	assert.Equal(t, model.SexMale, *patch.Sex)
	assert.Equal(t, model.ActivityModerate, *patch.ActivityLevel)
	assert.Equal(t, model.GoalMaintain, *patch.FitnessGoal)
}

func TestFormPatchRejectsBadNumbers(t *testing.T) {
	f := newProfileForm()
	f.inputs[fieldHeight].SetValue("tall")
	f.inputs[fieldWeight].SetValue("75")
	f.inputs[fieldAge].SetValue("30")
	f.sex, f.activity, f.goal = 0, 0, 0

	_, err := f.patch()
	assert.ErrorIs(t, err, errFormIncomplete)

	f.inputs[fieldHeight].SetValue("-180")
	_, err = f.patch()
	assert.ErrorIs(t, err, errFormIncomplete)
}

func TestFormFillSeedsExistingValues(t *testing.T) {
	height := 172.5
	age := 41
	sex := model.SexFemale
	goal := model.GoalGain
	p := &model.UserProfile{Height: &height, Age: &age, Sex: &sex, FitnessGoal: &goal}

	f := newProfileForm()
	f.fill(p)

	assert.Equal(t, "172.5", f.inputs[fieldHeight].Value())
	assert.Empty(t, f.inputs[fieldWeight].Value())
	assert.Equal(t, "41", f.inputs[fieldAge].Value())
	assert.Equal(t, 1, f.sex)
	assert.Equal(t, -1, f.activity, "absent field stays unset")
	assert.Equal(t, 2, f.goal)
}

func TestFormCycleWraps(t *testing.T) {
	f := newProfileForm()
	f.setFocus(fieldGoal)

	f.cycle(true)
	assert.Equal(t, 0, f.goal)
	f.cycle(false)
	assert.Equal(t, len(model.FitnessGoals())-1, f.goal)
}

func TestDashboardMarkdown(t *testing.T) {
	assert.Contains(t, dashboardMarkdown(nil), "not loaded")

	incomplete := &model.UserProfile{Email: "a@b.com"}
	assert.Contains(t, dashboardMarkdown(incomplete), "Complete your profile")

	height, weight, age := 180.0, 75.0, 30
	sex := model.SexMale
	activity := model.ActivityModerate
	goal := model.GoalLose
	complete := &model.UserProfile{
		Email: "a@b.com", Height: &height, Weight: &weight, Age: &age,
		Sex: &sex, ActivityLevel: &activity, FitnessGoal: &goal,
	}
	md := dashboardMarkdown(complete)
	assert.Contains(t, md, "a@b.com")
	assert.Contains(t, md, "BMI")
	assert.Contains(t, md, "lose")
}
