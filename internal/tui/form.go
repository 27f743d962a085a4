package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"eatfit/internal/model"
)

// errFormIncomplete mirrors the mobile form's "fill in all fields" alert.
var errFormIncomplete = errors.New("please fill in all fields")

const (
	fieldHeight = iota
	fieldWeight
	fieldAge
	fieldSex
	fieldActivity
	fieldGoal
	fieldCount
)

// profileForm is the six-field fitness form shared by the profile setup
// screen and the profile editor. Numeric fields are free text inputs;
// the enums cycle with left/right.
type profileForm struct {
	inputs   [3]textinput.Model
	sex      int // index into model.Sexes, -1 when unset
	activity int
	goal     int
	focus    int
}

func newProfileForm() profileForm {
	f := profileForm{sex: -1, activity: -1, goal: -1}
	placeholders := [3]string{"height (cm)", "weight (kg)", "age"}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 6
		in.Width = 24
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

// fill seeds the form from an existing profile for the edit flow.
func (f *profileForm) fill(p *model.UserProfile) {
	if p == nil {
		return
	}
	if p.Height != nil {
		f.inputs[fieldHeight].SetValue(trimFloat(*p.Height))
	}
	if p.Weight != nil {
		f.inputs[fieldWeight].SetValue(trimFloat(*p.Weight))
	}
	if p.Age != nil {
		f.inputs[fieldAge].SetValue(strconv.Itoa(*p.Age))
	}
	if p.Sex != nil {
		f.sex = indexOf(model.Sexes(), *p.Sex)
	}
	if p.ActivityLevel != nil {
		f.activity = indexOf(model.ActivityLevels(), *p.ActivityLevel)
	}
	if p.FitnessGoal != nil {
		f.goal = indexOf(model.FitnessGoals(), *p.FitnessGoal)
	}
}

func (f *profileForm) update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Next):
			f.setFocus((f.focus + 1) % fieldCount)
			return nil
		case key.Matches(km, keys.Prev):
			f.setFocus((f.focus + fieldCount - 1) % fieldCount)
			return nil
		case key.Matches(km, keys.Left), key.Matches(km, keys.Right):
			if f.focus >= fieldSex {
				f.cycle(key.Matches(km, keys.Right))
				return nil
			}
		}
	}

	if f.focus < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return cmd
	}
	return nil
}

func (f *profileForm) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *profileForm) cycle(forward bool) {
	step := func(cur, n int) int {
		if forward {
			return (cur + 1) % n
		}
		if cur <= 0 {
			return n - 1
		}
		return cur - 1
	}
	switch f.focus {
	case fieldSex:
		f.sex = step(f.sex, len(model.Sexes()))
	case fieldActivity:
		f.activity = step(f.activity, len(model.ActivityLevels()))
	case fieldGoal:
		f.goal = step(f.goal, len(model.FitnessGoals()))
	}
}

// patch builds the partial update from the form, failing when any of the
// six fields is unset or unparseable.
func (f *profileForm) patch() (model.ProfileUpdate, error) {
	var patch model.ProfileUpdate

	height, err := parsePositiveFloat(f.inputs[fieldHeight].Value())
	if err != nil {
		return patch, err
	}
	weight, err := parsePositiveFloat(f.inputs[fieldWeight].Value())
	if err != nil {
		return patch, err
	}
	age, err := parsePositiveInt(f.inputs[fieldAge].Value())
	if err != nil {
		return patch, err
	}
	if f.sex < 0 || f.activity < 0 || f.goal < 0 {
		return patch, errFormIncomplete
	}

	sex := model.Sexes()[f.sex]
	activity := model.ActivityLevels()[f.activity]
	goal := model.FitnessGoals()[f.goal]
	patch.Height = &height
	patch.Weight = &weight
	patch.Age = &age
	patch.Sex = &sex
	patch.ActivityLevel = &activity
	patch.FitnessGoal = &goal
	return patch, nil
}

func (f profileForm) view() string {
	var b strings.Builder
	labels := []string{"Height (cm)", "Weight (kg)", "Age"}
	for i, in := range f.inputs {
		b.WriteString(f.row(i, labels[i], in.View()))
	}
	b.WriteString(f.row(fieldSex, "Sex", optionView(model.Sexes(), f.sex)))
	b.WriteString(f.row(fieldActivity, "Activity level", optionView(model.ActivityLevels(), f.activity)))
	b.WriteString(f.row(fieldGoal, "Fitness goal", optionView(model.FitnessGoals(), f.goal)))
	return b.String()
}

func (f profileForm) row(i int, label, value string) string {
	style := labelStyle
	if i == f.focus {
		style = focusedStyle
	}
	return fmt.Sprintf("%s\n%s\n", style.Render(label), value)
}

func optionView[T ~string](options []T, selected int) string {
	parts := make([]string, len(options))
	for i, opt := range options {
		if i == selected {
			parts[i] = focusedStyle.Render("[" + string(opt) + "]")
		} else {
			parts[i] = labelStyle.Render(string(opt))
		}
	}
	return strings.Join(parts, " ")
}

func parsePositiveFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, errFormIncomplete
	}
	return v, nil
}

func parsePositiveInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return 0, errFormIncomplete
	}
	return v, nil
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func indexOf[T comparable](options []T, v T) int {
	for i, opt := range options {
		if opt == v {
			return i
		}
	}
	return -1
}
