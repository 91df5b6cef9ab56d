package workout

import "github.com/2beens/workoutplanner/internal/calendar"

type Settings struct {
	DefaultUnit  MassUnit     `json:"defaultUnit" validate:"massunit"`
	WeekStartDay calendar.Day `json:"weekStartDay" validate:"weekday"`
}

func DefaultSettings() Settings {
	return Settings{
		DefaultUnit:  UnitKG,
		WeekStartDay: calendar.Monday,
	}
}

// SettingsPatch is a partial settings update; nil fields are left as they are.
type SettingsPatch struct {
	DefaultUnit  *MassUnit     `json:"defaultUnit,omitempty" validate:"omitempty,massunit"`
	WeekStartDay *calendar.Day `json:"weekStartDay,omitempty" validate:"omitempty,weekday"`
}

func (s Settings) Apply(patch SettingsPatch) Settings {
	if patch.DefaultUnit != nil {
		s.DefaultUnit = *patch.DefaultUnit
	}
	if patch.WeekStartDay != nil {
		s.WeekStartDay = *patch.WeekStartDay
	}
	return s
}
