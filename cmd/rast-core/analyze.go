package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	rastcore "github.com/rastlabs/rast-core"
	"github.com/rastlabs/rast-core/config"
	"github.com/rastlabs/rast-core/geo"
	"github.com/rastlabs/rast-core/hazard"
	"github.com/rastlabs/rast-core/route"
)

var (
	analyzeTrack      string
	analyzeDetections string
	analyzeRoute      string
	analyzeDriveID    string
	analyzeOut        string
	analyzeNoCache    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full drive pass over recorded classifier outputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, err := loadTrack(analyzeTrack)
		if err != nil {
			return err
		}
		windows, err := loadDetections(analyzeDetections)
		if err != nil {
			return err
		}
		var steps []route.StepInput
		if analyzeRoute != "" {
			if steps, err = loadRoute(analyzeRoute); err != nil {
				return err
			}
		}

		cfg := config.Config
		metric, err := geo.ParseMetric(cfg.Route.DistanceMetric)
		if err != nil {
			return err
		}
		perCategory := make(map[hazard.Category]float64, len(cfg.Dedup.RadiusMetersByCategory))
		for name, r := range cfg.Dedup.RadiusMetersByCategory {
			perCategory[hazard.Category(name)] = r
		}

		var cache *rastcore.ResultsCache
		if !analyzeNoCache {
			store, err := rastcore.NewDirStore(cfg.Cache.Dir)
			if err != nil {
				return err
			}
			cache = rastcore.NewResultsCache(store)
		}

		// Replay the recorded per-window outputs as the analyzer.
		analyzer := rastcore.AnalyzerFunc(func(driveID string, w rastcore.Window) ([]hazard.Detection, error) {
			rec, ok := windows[w.Index]
			if !ok {
				return nil, fmt.Errorf("no recorded output for window %d", w.Index)
			}
			if rec.Error != "" {
				return nil, errors.New(rec.Error)
			}
			return rec.Detections, nil
		})

		pipeline := rastcore.NewPipeline(analyzer, cache, rastcore.Options{
			WindowSec:             cfg.Analysis.WindowSeconds,
			WindowOverlapSec:      cfg.Analysis.WindowOverlapSeconds,
			MaxWorkers:            cfg.Analysis.MaxWorkers,
			MinFix:                cfg.Analysis.MinFix,
			DedupRadiusM:          cfg.Dedup.RadiusMeters,
			DedupRadiusByCategory: perCategory,
			Metric:                metric,
			OffRouteThresholdM:    cfg.Route.OffRouteThresholdMeters,
			SkipCached:            cfg.Cache.SkipExisting && !analyzeNoCache,
		})

		results, err := pipeline.ProcessDrive(rastcore.DriveInput{
			ID:      analyzeDriveID,
			Samples: samples,
			Route:   steps,
		})
		if err != nil {
			return err
		}
		return writeJSON(analyzeOut, results)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTrack, "track", "", "GPS track JSON file (required)")
	analyzeCmd.Flags().StringVar(&analyzeDetections, "detections", "", "per-window detections JSON file (required)")
	analyzeCmd.Flags().StringVar(&analyzeRoute, "route", "", "route steps JSON file (optional)")
	analyzeCmd.Flags().StringVar(&analyzeDriveID, "drive-id", "", "drive identifier (required)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "-", "output path, - for stdout")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "disable the results cache")
	_ = analyzeCmd.MarkFlagRequired("track")
	_ = analyzeCmd.MarkFlagRequired("detections")
	_ = analyzeCmd.MarkFlagRequired("drive-id")
}
