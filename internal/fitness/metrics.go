// Package fitness derives body metrics from a complete profile for the
// dashboard: BMI, resting energy (Mifflin-St Jeor), total daily energy, and
// the calorie target implied by the fitness goal.
package fitness

import (
	"errors"
	"math"

	"eatfit/internal/model"
)

// ErrIncompleteProfile is returned when a required field is absent.
var ErrIncompleteProfile = errors.New("profile is missing required fields")

// calorie adjustment applied on top of maintenance, per goal
const goalDelta = 500.0

var activityFactors = map[model.ActivityLevel]float64{
	model.ActivitySedentary:  1.2,
	model.ActivityLight:      1.375,
	model.ActivityModerate:   1.55,
	model.ActivityActive:     1.725,
	model.ActivityVeryActive: 1.9,
}

// Metrics is the derived summary shown on the dashboard.
type Metrics struct {
	BMI           float64
	BMR           float64
	TDEE          float64
	CalorieTarget float64
}

// BMI computes body mass index from height in cm and weight in kg.
func BMI(heightCM, weightKG float64) float64 {
	if heightCM <= 0 {
		return 0
	}
	m := heightCM / 100
	return weightKG / (m * m)
}

// BMR computes resting calories per day with the Mifflin-St Jeor equation.
// The male and female constants differ only in the offset; "other" uses the
// midpoint.
func BMR(heightCM, weightKG float64, age int, sex model.Sex) float64 {
	base := 10*weightKG + 6.25*heightCM - 5*float64(age)
	switch sex {
	case model.SexMale:
		return base + 5
	case model.SexFemale:
		return base - 161
	default:
		return base - 78
	}
}

// TDEE scales resting calories by the activity multiplier.
func TDEE(bmr float64, level model.ActivityLevel) float64 {
	factor, ok := activityFactors[level]
	if !ok {
		factor = activityFactors[model.ActivitySedentary]
	}
	return bmr * factor
}

// CalorieTarget adjusts maintenance calories by the goal: a fixed deficit to
// lose, a fixed surplus to gain.
func CalorieTarget(tdee float64, goal model.FitnessGoal) float64 {
	switch goal {
	case model.GoalLose:
		return tdee - goalDelta
	case model.GoalGain:
		return tdee + goalDelta
	default:
		return tdee
	}
}

// Summary derives all dashboard metrics from p. It fails when any of the
// six required fields is absent.
func Summary(p *model.UserProfile) (*Metrics, error) {
	if p == nil || p.Height == nil || p.Weight == nil || p.Age == nil ||
		p.Sex == nil || p.ActivityLevel == nil || p.FitnessGoal == nil {
		return nil, ErrIncompleteProfile
	}

	bmr := BMR(*p.Height, *p.Weight, *p.Age, *p.Sex)
	tdee := TDEE(bmr, *p.ActivityLevel)
	return &Metrics{
		BMI:           round1(BMI(*p.Height, *p.Weight)),
		BMR:           math.Round(bmr),
		TDEE:          math.Round(tdee),
		CalorieTarget: math.Round(CalorieTarget(tdee, *p.FitnessGoal)),
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
