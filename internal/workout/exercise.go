package workout

// ProgressionType decides how an exercise's sets are recorded and compared.
type ProgressionType string

const (
	ProgressionWeightReps   ProgressionType = "WEIGHT_REPS"
	ProgressionHoldSeconds  ProgressionType = "HOLD_SECONDS"
	ProgressionRepsOnly     ProgressionType = "REPS_ONLY"
	ProgressionDistanceTime ProgressionType = "DISTANCE_TIME"
)

func (pt ProgressionType) String() string {
	return string(pt)
}

func (pt ProgressionType) IsValid() bool {
	switch pt {
	case ProgressionWeightReps,
		ProgressionHoldSeconds,
		ProgressionRepsOnly,
		ProgressionDistanceTime:
		return true
	default:
		return false
	}
}

// Pretty is the label shown next to an exercise name.
func (pt ProgressionType) Pretty() string {
	switch pt {
	case ProgressionWeightReps:
		return "Weight & Reps"
	case ProgressionHoldSeconds:
		return "Hold (seconds)"
	case ProgressionRepsOnly:
		return "Reps only"
	case ProgressionDistanceTime:
		return "Distance & Time"
	default:
		return string(pt)
	}
}

// MassUnit is the unit weights are displayed in.
type MassUnit string

const (
	UnitKG  MassUnit = "KG"
	UnitLBS MassUnit = "LBS"
)

func (u MassUnit) IsValid() bool {
	return u == UnitKG || u == UnitLBS
}

// Label is the unit suffix, e.g. "kg" in "5 × 100kg" or "100 kg".
func (u MassUnit) Label() string {
	switch u {
	case UnitLBS:
		return "lbs"
	default:
		return "kg"
	}
}

// WeightUnit is the per-exercise override; DEFAULT defers to settings.
type WeightUnit string

const (
	WeightUnitDefault WeightUnit = "DEFAULT"
	WeightUnitKG      WeightUnit = "KG"
	WeightUnitLBS     WeightUnit = "LBS"
)

func (u WeightUnit) IsValid() bool {
	switch u {
	case WeightUnitDefault, WeightUnitKG, WeightUnitLBS:
		return true
	default:
		return false
	}
}

type Exercise struct {
	ID         string          `json:"id" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	Color      string          `json:"color" validate:"required"`
	Type       ProgressionType `json:"type" validate:"progression"`
	RefURL     string          `json:"refUrl,omitempty" validate:"omitempty,url"`
	WeightUnit WeightUnit      `json:"weightUnit,omitempty" validate:"omitempty,weightunit"`
}

func (e Exercise) EntityID() string {
	return e.ID
}

// Unit resolves the unit weights of this exercise are shown in.
func (e Exercise) Unit(defaultUnit MassUnit) MassUnit {
	switch e.WeightUnit {
	case WeightUnitKG:
		return UnitKG
	case WeightUnitLBS:
		return UnitLBS
	default:
		if defaultUnit.IsValid() {
			return defaultUnit
		}
		return UnitKG
	}
}
