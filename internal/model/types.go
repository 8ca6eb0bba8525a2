package model

// Segment is one contiguous analyzed stretch of a detector channel,
// covering [StartTime, StartTime + Length*DeltaT).
type Segment struct {
	StartTime float64 `json:"start_time" yaml:"start_time"`
	DeltaT    float64 `json:"delta_t" yaml:"delta_t"`
	Length    int     `json:"length" yaml:"length"`
}

// End returns the end time of the segment.
func (s Segment) End() float64 {
	return s.StartTime + float64(s.Length)*s.DeltaT
}

// EventSet holds candidate events as three parallel arrays. Time is the
// reported event time, Stat the ranking statistic (larger means more
// significant) and Tolerance the maximum offset to an injection time for
// the event to still count as a true positive. The JSON field names match
// the dataset names written by the search codes.
type EventSet struct {
	Time      []float64 `json:"time"`
	Stat      []float64 `json:"stat"`
	Tolerance []float64 `json:"var"`
}

// Len returns the number of events in the set.
func (e EventSet) Len() int { return len(e.Time) }

// InjectionSet holds the ground-truth injection parameters as parallel
// arrays. A non-nil ChirpDistance marks that the injections were drawn
// uniformly in chirp distance rather than luminosity distance, which
// selects the chirp-mass weighted sensitivity estimate.
type InjectionSet struct {
	Tc            []float64 `json:"tc"`
	Distance      []float64 `json:"distance"`
	Mass1         []float64 `json:"mass1"`
	Mass2         []float64 `json:"mass2"`
	ChirpDistance []float64 `json:"chirp_distance,omitempty"`
}

// Len returns the number of injections in the set.
func (s InjectionSet) Len() int { return len(s.Tc) }

// ChirpWeighted reports whether the set carries the chirp-distance marker.
func (s InjectionSet) ChirpWeighted() bool { return s.ChirpDistance != nil }

// Classification labels every foreground event. The slices are parallel to
// the event set. Matched always points at the globally nearest injection,
// whether or not the event passed the tolerance test.
type Classification struct {
	Matched      []int
	Offset       []float64
	TruePositive []bool
}

// FoundInjection records the best true-positive match for one injection.
type FoundInjection struct {
	Index int
	Stat  float64
}

// Curve is the sensitivity estimate per background statistic threshold.
// All slices are parallel to the threshold sweep.
type Curve struct {
	Volume      []float64 `json:"sensitive_volume"`
	VolumeError []float64 `json:"sensitive_volume_error"`
	Distance    []float64 `json:"sensitive_distance"`
	Fraction    []float64 `json:"sensitive_fraction"`
}

// Results is the complete evaluation output consumed by the I/O layer.
// FgFAR pairs with FgFARStats and FAR with FARStats; both FAR arrays are
// ordered by ascending statistic.
type Results struct {
	Duration float64 `json:"duration"`

	FgFARStats []float64 `json:"fg_far_stats"`
	FgFAR      []float64 `json:"fg_far"`
	FARStats   []float64 `json:"far_stats"`
	FAR        []float64 `json:"far"`

	Sensitivity Curve `json:"sensitivity"`

	SortingIndices            []int `json:"sorting_indices"`
	FoundIndices              []int `json:"found_indices"`
	MissedIndices             []int `json:"missed_indices"`
	TruePositiveEventIndices  []int `json:"true_positive_event_indices"`
	FalsePositiveEventIndices []int `json:"false_positive_event_indices"`

	NInjections int  `json:"n_injections"`
	NFound      int  `json:"n_found"`
	ChirpMode   bool `json:"chirp_mode"`
}
