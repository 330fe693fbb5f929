package main

import (
	"github.com/spf13/cobra"

	rastcore "github.com/rastlabs/rast-core"
	"github.com/rastlabs/rast-core/config"
	"github.com/rastlabs/rast-core/geo"
	"github.com/rastlabs/rast-core/route"
)

var (
	annotateRoute string
	annotateTrace string
	annotateOut   string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Align a recorded trace against a planned route",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := loadRoute(annotateRoute)
		if err != nil {
			return err
		}
		trace, err := loadTrace(annotateTrace)
		if err != nil {
			return err
		}

		cfg := config.Config
		metric, err := geo.ParseMetric(cfg.Route.DistanceMetric)
		if err != nil {
			return err
		}
		matcher := route.NewMatcher(metric, cfg.Route.OffRouteThresholdMeters)
		if err := matcher.BuildRoute(steps); err != nil {
			return err
		}
		annotated, err := matcher.AnnotateTrace(trace)
		if err != nil {
			return err
		}
		return writeJSON(annotateOut, annotated)
	},
}

var (
	planDuration float64
	planWindow   float64
	planOverlap  float64
	planOut      string
)

var planWindowsCmd = &cobra.Command{
	Use:   "plan-windows",
	Short: "Print the analysis window plan for a drive duration",
	RunE: func(cmd *cobra.Command, args []string) error {
		window := planWindow
		overlap := planOverlap
		if window == 0 {
			window = config.Config.Analysis.WindowSeconds
		}
		if overlap == 0 {
			overlap = config.Config.Analysis.WindowOverlapSeconds
		}
		return writeJSON(planOut, rastcore.PlanWindows(planDuration, window, overlap))
	},
}

func init() {
	annotateCmd.Flags().StringVar(&annotateRoute, "route", "", "route steps JSON file (required)")
	annotateCmd.Flags().StringVar(&annotateTrace, "trace", "", "trace points JSON file (required)")
	annotateCmd.Flags().StringVar(&annotateOut, "out", "-", "output path, - for stdout")
	_ = annotateCmd.MarkFlagRequired("route")
	_ = annotateCmd.MarkFlagRequired("trace")

	planWindowsCmd.Flags().Float64Var(&planDuration, "duration", 0, "drive duration in seconds (required)")
	planWindowsCmd.Flags().Float64Var(&planWindow, "window", 0, "window length in seconds (default from config)")
	planWindowsCmd.Flags().Float64Var(&planOverlap, "overlap", 0, "overlap in seconds (default from config)")
	planWindowsCmd.Flags().StringVar(&planOut, "out", "-", "output path, - for stdout")
	_ = planWindowsCmd.MarkFlagRequired("duration")
}
