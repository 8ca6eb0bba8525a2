package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"mdceval/internal/model"
)

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// LoadEvents reads one or more event-set files and concatenates them into a
// single pool. Files from different pools (foreground vs background) must
// never be passed in one call.
func LoadEvents(paths []string) (model.EventSet, error) {
	out := model.EventSet{}
	for _, path := range paths {
		var set model.EventSet
		if err := readJSON(path, &set); err != nil {
			return model.EventSet{}, fmt.Errorf("read events %s: %w", path, err)
		}
		if len(set.Stat) != len(set.Time) || len(set.Tolerance) != len(set.Time) {
			return model.EventSet{}, fmt.Errorf("%s: parallel arrays disagree: time=%d stat=%d var=%d",
				path, len(set.Time), len(set.Stat), len(set.Tolerance))
		}
		out.Time = append(out.Time, set.Time...)
		out.Stat = append(out.Stat, set.Stat...)
		out.Tolerance = append(out.Tolerance, set.Tolerance...)
	}
	return out, nil
}

// LoadInjections reads the ground-truth injection parameters. The presence
// of a chirp_distance array in the file selects chirp-weighted mode
// downstream.
func LoadInjections(path string) (model.InjectionSet, error) {
	var set model.InjectionSet
	if err := readJSON(path, &set); err != nil {
		return model.InjectionSet{}, fmt.Errorf("read injections %s: %w", path, err)
	}
	n := set.Len()
	if len(set.Distance) != n || len(set.Mass1) != n || len(set.Mass2) != n {
		return model.InjectionSet{}, fmt.Errorf("%s: parallel arrays disagree: tc=%d distance=%d mass1=%d mass2=%d",
			path, n, len(set.Distance), len(set.Mass1), len(set.Mass2))
	}
	if set.ChirpDistance != nil && len(set.ChirpDistance) != n {
		return model.InjectionSet{}, fmt.Errorf("%s: chirp_distance has %d entries, want %d",
			path, len(set.ChirpDistance), n)
	}
	return set, nil
}

type segmentFile struct {
	Detectors map[string][]model.Segment `json:"detectors"`
}

// LoadSegments reads the analyzed-data metadata files and collects the
// segments of the first detector (by name) in each file. The analyzed
// stretches are identical across detectors, so one channel is enough.
func LoadSegments(paths []string) ([]model.Segment, error) {
	var out []model.Segment
	for _, path := range paths {
		var sf segmentFile
		if err := readJSON(path, &sf); err != nil {
			return nil, fmt.Errorf("read segments %s: %w", path, err)
		}
		if len(sf.Detectors) == 0 {
			return nil, fmt.Errorf("%s: no detectors", path)
		}
		names := make([]string, 0, len(sf.Detectors))
		for name := range sf.Detectors {
			names = append(names, name)
		}
		sort.Strings(names)
		out = append(out, sf.Detectors[names[0]]...)
	}
	return out, nil
}
