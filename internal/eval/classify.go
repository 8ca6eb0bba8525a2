package eval

import (
	"math"

	"mdceval/internal/model"
)

// Classify matches every foreground event to its nearest injection time and
// labels it a true positive when the offset is within the event's own
// tolerance. The decision is per event; no event influences another.
func Classify(events model.EventSet, injectionTimes []float64) (model.Classification, error) {
	if err := validateEvents(events); err != nil {
		return model.Classification{}, err
	}
	matched, err := ClosestIndices(injectionTimes, events.Time)
	if err != nil {
		return model.Classification{}, err
	}
	n := events.Len()
	cl := model.Classification{
		Matched:      matched,
		Offset:       make([]float64, n),
		TruePositive: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		cl.Offset[i] = math.Abs(injectionTimes[matched[i]] - events.Time[i])
		cl.TruePositive[i] = cl.Offset[i] <= events.Tolerance[i]
	}
	return cl, nil
}
