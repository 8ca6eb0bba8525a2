package whiten

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// StrainFile is one stretch of strain on disk.
type StrainFile struct {
	StartTime float64   `json:"start_time"`
	DeltaT    float64   `json:"delta_t"`
	Strain    []float64 `json:"strain"`
}

// ProcessFiles whitens every input file on a bounded worker pool and
// writes each result under outDir with the same base name. The start time
// of each output advances by the samples cut from the corrupted leading
// edge.
func ProcessFiles(ctx context.Context, paths []string, outDir string, opts Options, workers int, logger *slog.Logger) error {
	if workers <= 0 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := processFile(path, outDir, opts); err != nil {
				return fmt.Errorf("whiten %s: %w", path, err)
			}
			if logger != nil {
				logger.Info("whitened", "file", path)
			}
			return nil
		})
	}
	return g.Wait()
}

func processFile(path, outDir string, opts Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var in StrainFile
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	fileOpts := opts
	fileOpts.DeltaT = in.DeltaT
	white, err := Whiten(in.Strain, fileOpts)
	if err != nil {
		return err
	}
	out := StrainFile{StartTime: in.StartTime, DeltaT: in.DeltaT, Strain: white}
	if !fileOpts.KeepCorrupted {
		filterLen := int(math.Round(fileOpts.MaxFilterDuration / in.DeltaT))
		if filterLen < 2 {
			filterLen = 2
		}
		out.StartTime += float64(filterLen/2) * in.DeltaT
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, filepath.Base(path)), encoded, 0o644)
}
