package model

import (
	"time"

	"github.com/google/uuid"
)

// Sex is the biological sex recorded on a fitness profile.
type Sex string

// ActivityLevel describes how active a user is day to day.
type ActivityLevel string

// FitnessGoal is the direction the user wants their weight to move.
type FitnessGoal string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"

	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"

	GoalLose     FitnessGoal = "lose"
	GoalMaintain FitnessGoal = "maintain"
	GoalGain     FitnessGoal = "gain"
)

// Sexes lists the accepted sex values in display order.
func Sexes() []Sex { return []Sex{SexMale, SexFemale, SexOther} }

// ActivityLevels lists the accepted activity levels from least to most active.
func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive}
}

// FitnessGoals lists the accepted fitness goals.
func FitnessGoals() []FitnessGoal { return []FitnessGoal{GoalLose, GoalMaintain, GoalGain} }

// Valid reports whether s is one of the accepted sex values.
func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale, SexOther:
		return true
	}
	return false
}

// Valid reports whether a is one of the accepted activity levels.
func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	}
	return false
}

// Valid reports whether g is one of the accepted fitness goals.
func (g FitnessGoal) Valid() bool {
	switch g {
	case GoalLose, GoalMaintain, GoalGain:
		return true
	}
	return false
}

// UserProfile is the backend-owned user record. The client only ever holds
// a cached copy; after every round trip the server response replaces it.
// Optional fields are pointers so "absent" survives the JSON round trip.
type UserProfile struct {
	ID            uuid.UUID      `json:"id"`
	Email         string         `json:"email"`
	Height        *float64       `json:"height"`
	Weight        *float64       `json:"weight"`
	Age           *int           `json:"age"`
	Sex           *Sex           `json:"sex"`
	ActivityLevel *ActivityLevel `json:"activity_level"`
	FitnessGoal   *FitnessGoal   `json:"fitness_goal"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupInput is the body of the account-creation request. The profile
// fields are optional; the setup screen fills them in after first login.
type SignupInput struct {
	Email         string         `json:"email" validate:"required,email"`
	Password      string         `json:"password" validate:"required,min=6"`
	FullName      string         `json:"full_name" validate:"required"`
	Height        *float64       `json:"height,omitempty"`
	Weight        *float64       `json:"weight,omitempty"`
	Age           *int           `json:"age,omitempty"`
	Sex           *Sex           `json:"sex,omitempty"`
	ActivityLevel *ActivityLevel `json:"activity_level,omitempty"`
	FitnessGoal   *FitnessGoal   `json:"fitness_goal,omitempty"`
}

// ProfileUpdate is a partial profile update. Only non-nil fields are sent,
// and the server changes only the fields it receives.
type ProfileUpdate struct {
	Height        *float64       `json:"height,omitempty"`
	Weight        *float64       `json:"weight,omitempty"`
	Age           *int           `json:"age,omitempty"`
	Sex           *Sex           `json:"sex,omitempty" validate:"omitempty,oneof=male female other"`
	ActivityLevel *ActivityLevel `json:"activity_level,omitempty" validate:"omitempty,oneof=sedentary light moderate active very_active"`
	FitnessGoal   *FitnessGoal   `json:"fitness_goal,omitempty" validate:"omitempty,oneof=lose maintain gain"`
}

// Token is the response of a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
