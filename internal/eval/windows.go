package eval

import (
	"errors"
	"fmt"

	"mdceval/internal/model"
)

var ErrNoInjections = errors.New("eval: analyzed data contains no injections")

// Padding is lead-in time at the start and end of every segment in which no
// injections were placed.
type Padding struct {
	Start float64
	End   float64
}

// FilterInjections sums the unpadded duration of all segments and marks the
// injections whose time falls inside at least one padded segment window.
// Padding narrows the windows used for containment but never the reported
// duration. An empty containment mask is a fatal configuration error.
func FilterInjections(segments []model.Segment, injectionTimes []float64, pad Padding) (float64, []bool, error) {
	duration := 0.0
	type window struct{ start, end float64 }
	windows := make([]window, 0, len(segments))
	for _, seg := range segments {
		start := seg.StartTime
		end := seg.End()
		duration += end - start
		start += pad.Start
		end -= pad.End
		if end > start {
			windows = append(windows, window{start: start, end: end})
		}
	}
	contained := make([]bool, len(injectionTimes))
	count := 0
	for i, t := range injectionTimes {
		for _, w := range windows {
			if w.start <= t && t <= w.end {
				contained[i] = true
				count++
				break
			}
		}
	}
	if count == 0 {
		return 0, nil, fmt.Errorf("%w: generate at least %.0f seconds of data, "+
			"otherwise a sensitive distance cannot be calculated",
			ErrNoInjections, pad.Start+pad.End+24)
	}
	return duration, contained, nil
}

// SelectContained reduces an injection set to the entries flagged in the
// containment mask.
func SelectContained(injs model.InjectionSet, mask []bool) (model.InjectionSet, error) {
	if len(mask) != injs.Len() {
		return model.InjectionSet{}, fmt.Errorf("%w: mask=%d injections=%d", ErrShape, len(mask), injs.Len())
	}
	out := model.InjectionSet{}
	for i, keep := range mask {
		if !keep {
			continue
		}
		out.Tc = append(out.Tc, injs.Tc[i])
		out.Distance = append(out.Distance, injs.Distance[i])
		out.Mass1 = append(out.Mass1, injs.Mass1[i])
		out.Mass2 = append(out.Mass2, injs.Mass2[i])
		if injs.ChirpDistance != nil {
			out.ChirpDistance = append(out.ChirpDistance, injs.ChirpDistance[i])
		}
	}
	return out, nil
}
