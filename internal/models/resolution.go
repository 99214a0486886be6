package models

// Choice is a user's answer to a conflict.
type Choice string

const (
	ChoicePreferred   Choice = "preferred"
	ChoiceAlternative Choice = "alternative"
	ChoiceKeep        Choice = "keep"
	ChoiceIgnore      Choice = "ignore"
)

// ResolutionKind names one of the persisted resolution maps.
type ResolutionKind string

const (
	ResolutionAuto        ResolutionKind = "auto"
	ResolutionTimeOverlap ResolutionKind = "time_overlap"
	ResolutionOutlier     ResolutionKind = "outlier"
)

// Resolutions holds the user's remembered conflict choices keyed by conflict
// ID. It is the only state carried from one timetable generation to the next.
type Resolutions struct {
	Auto        map[string]Choice `json:"auto"`
	TimeOverlap map[string]Choice `json:"time_overlap"`
	Outlier     map[string]Choice `json:"outlier"`
}

func NewResolutions() Resolutions {
	return Resolutions{
		Auto:        map[string]Choice{},
		TimeOverlap: map[string]Choice{},
		Outlier:     map[string]Choice{},
	}
}

// Clone returns a deep copy with all maps initialised.
func (r Resolutions) Clone() Resolutions {
	out := NewResolutions()
	for k, v := range r.Auto {
		out.Auto[k] = v
	}
	for k, v := range r.TimeOverlap {
		out.TimeOverlap[k] = v
	}
	for k, v := range r.Outlier {
		out.Outlier[k] = v
	}
	return out
}

// Map returns the map backing kind, or nil for an unknown kind.
func (r Resolutions) Map(kind ResolutionKind) map[string]Choice {
	switch kind {
	case ResolutionAuto:
		return r.Auto
	case ResolutionTimeOverlap:
		return r.TimeOverlap
	case ResolutionOutlier:
		return r.Outlier
	default:
		return nil
	}
}

func (r Resolutions) Len() int {
	return len(r.Auto) + len(r.TimeOverlap) + len(r.Outlier)
}
