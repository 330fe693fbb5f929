package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rastlabs/rast-core/hazard"
	"github.com/rastlabs/rast-core/route"
	"github.com/rastlabs/rast-core/telemetry"
)

// windowRecord is one analysis window's recorded classifier output.
// The classifier runs out of process; analyze replays its outputs
// through the pipeline.
type windowRecord struct {
	Index      int                `json:"index"`
	StartSec   float64            `json:"start_sec"`
	EndSec     float64            `json:"end_sec"`
	Error      string             `json:"error,omitempty"`
	Detections []hazard.Detection `json:"detections"`
}

type detectionsFile struct {
	Windows []windowRecord `json:"windows"`
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func loadTrack(path string) ([]telemetry.PositionSample, error) {
	var samples []telemetry.PositionSample
	if err := loadJSON(path, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

func loadDetections(path string) (map[int]windowRecord, error) {
	var f detectionsFile
	if err := loadJSON(path, &f); err != nil {
		return nil, err
	}
	byIndex := make(map[int]windowRecord, len(f.Windows))
	for _, w := range f.Windows {
		byIndex[w.Index] = w
	}
	return byIndex, nil
}

func loadRoute(path string) ([]route.StepInput, error) {
	var steps []route.StepInput
	if err := loadJSON(path, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func loadTrace(path string) ([]route.TracePoint, error) {
	var trace []route.TracePoint
	if err := loadJSON(path, &trace); err != nil {
		return nil, err
	}
	return trace, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
