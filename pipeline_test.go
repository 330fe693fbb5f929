package rastcore

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rastlabs/rast-core/hazard"
	"github.com/rastlabs/rast-core/route"
	"github.com/rastlabs/rast-core/telemetry"
)

// driveSamples is a 60s straight-line drive north along lng 23.322.
func driveSamples() []telemetry.PositionSample {
	samples := make([]telemetry.PositionSample, 61)
	for i := range samples {
		samples[i] = telemetry.PositionSample{
			TimestampMS: float64(i * 1000),
			Lat:         42.7000 + float64(i)*0.0001,
			Lng:         23.3220,
			Fix:         3,
		}
	}
	return samples
}

func driveRoute() []route.StepInput {
	// Dense vertices so that every trace sample lies on a route point;
	// the matcher measures distance to vertices, not segments.
	var stepA, stepB []route.Point
	for i := 0; i <= 30; i++ {
		stepA = append(stepA, route.Point{Lat: 42.7000 + float64(i)*0.0001, Lng: 23.3220})
	}
	for i := 30; i <= 60; i++ {
		stepB = append(stepB, route.Point{Lat: 42.7000 + float64(i)*0.0001, Lng: 23.3220})
	}
	return []route.StepInput{
		{Instruction: "Head north", Polyline: route.EncodePolyline(stepA), DistanceM: 330},
		{Instruction: "Continue onto the boulevard", Polyline: route.EncodePolyline(stepB), DistanceM: 330},
	}
}

// potholeAt reports the same pothole from a window, offset seconds in.
func potholeAt(w Window, offset float64, sev int) hazard.Detection {
	return hazard.Detection{
		Category:       hazard.CategoryPothole,
		Severity:       sev,
		Confidence:     0.9,
		WindowStartSec: w.StartSec,
		OffsetSec:      offset,
	}
}

func TestProcessDrive_EndToEnd(t *testing.T) {
	// A pothole around t=18s sits in the overlap of windows 0 [0,20] and
	// 1 [17,37]; both report it and dedup must collapse the pair.
	analyzer := AnalyzerFunc(func(driveID string, w Window) ([]hazard.Detection, error) {
		switch w.Index {
		case 0:
			return []hazard.Detection{potholeAt(w, 18, 3)}, nil
		case 1:
			return []hazard.Detection{potholeAt(w, 1.5, 4)}, nil
		default:
			return nil, nil
		}
	})

	p := NewPipeline(analyzer, nil, Options{})
	res, err := p.ProcessDrive(DriveInput{ID: "drive-001", Samples: driveSamples(), Route: driveRoute()})
	require.NoError(t, err)

	require.Len(t, res.Hazards, 1, "overlapping reports of one pothole must merge")
	h := res.Hazards[0]
	assert.Equal(t, "H001", h.ID)
	assert.Equal(t, 4, h.Severity, "survivor is the higher-severity report")
	assert.InDelta(t, 18.5, h.AbsoluteSec, 1e-9)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "drive-001", res.DriveID)
	assert.Len(t, res.Trace, 61)
	assert.Equal(t, 1, res.Summary.TotalHazards)
	require.NotNil(t, res.Summary.WorstSegment)
	assert.Equal(t, 0, res.Summary.WorstSegment.StepIndex)
	assert.Equal(t, "Head north", res.Summary.WorstSegment.Instruction)

	for _, tp := range res.Trace {
		assert.False(t, tp.OffRoute, "samples lie on the route")
	}
}

func TestProcessDrive_FailedWindowIsPartialResult(t *testing.T) {
	analyzer := AnalyzerFunc(func(driveID string, w Window) ([]hazard.Detection, error) {
		if w.Index == 1 {
			return nil, errors.New("classifier timeout")
		}
		if w.Index == 0 {
			return []hazard.Detection{potholeAt(w, 5, 2)}, nil
		}
		return nil, nil
	})

	p := NewPipeline(analyzer, nil, Options{})
	res, err := p.ProcessDrive(DriveInput{ID: "drive-002", Samples: driveSamples()})
	require.NoError(t, err, "a failed window must not abort the drive")
	assert.Len(t, res.Hazards, 1)
}

func TestProcessDrive_NoRoute(t *testing.T) {
	analyzer := AnalyzerFunc(func(string, Window) ([]hazard.Detection, error) { return nil, nil })
	p := NewPipeline(analyzer, nil, Options{})

	res, err := p.ProcessDrive(DriveInput{ID: "drive-003", Samples: driveSamples()})
	require.NoError(t, err)
	assert.Empty(t, res.Trace)
	assert.Nil(t, res.Summary.WorstSegment)
	assert.Equal(t, 100, res.Summary.QualityScore)
}

func TestProcessDrive_RequiresID(t *testing.T) {
	p := NewPipeline(AnalyzerFunc(func(string, Window) ([]hazard.Detection, error) { return nil, nil }), nil, Options{})
	_, err := p.ProcessDrive(DriveInput{Samples: driveSamples()})
	assert.Error(t, err)
}

func TestProcessDrive_EmptyTrack(t *testing.T) {
	p := NewPipeline(AnalyzerFunc(func(string, Window) ([]hazard.Detection, error) { return nil, nil }), nil, Options{})
	_, err := p.ProcessDrive(DriveInput{ID: "drive-004"})
	assert.True(t, errors.Is(err, telemetry.ErrEmptyTrack))
}

func TestProcessDrive_CachedResultsReused(t *testing.T) {
	var calls atomic.Int64
	analyzer := AnalyzerFunc(func(string, Window) ([]hazard.Detection, error) {
		calls.Add(1)
		return nil, nil
	})

	cache := NewResultsCache(NewMemStore())
	p := NewPipeline(analyzer, cache, Options{SkipCached: true})

	first, err := p.ProcessDrive(DriveInput{ID: "drive-005", Samples: driveSamples()})
	require.NoError(t, err)
	firstCalls := calls.Load()
	require.Greater(t, firstCalls, int64(0))

	second, err := p.ProcessDrive(DriveInput{ID: "drive-005", Samples: driveSamples()})
	require.NoError(t, err)
	assert.Equal(t, firstCalls, calls.Load(), "cached drive must not re-run analysis")
	assert.Equal(t, first.RunID, second.RunID)
}

func TestProcessDrive_BoundedParallelism(t *testing.T) {
	var inFlight, peak atomic.Int64
	analyzer := AnalyzerFunc(func(string, Window) ([]hazard.Detection, error) {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		defer inFlight.Add(-1)
		return nil, nil
	})

	p := NewPipeline(analyzer, nil, Options{MaxWorkers: 2, WindowSec: 5, WindowOverlapSec: 1})
	_, err := p.ProcessDrive(DriveInput{ID: "drive-006", Samples: driveSamples()})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestProcessDrives_ParallelIndependentDrives(t *testing.T) {
	analyzer := AnalyzerFunc(func(driveID string, w Window) ([]hazard.Detection, error) {
		if w.Index == 0 {
			return []hazard.Detection{potholeAt(w, 3, 3)}, nil
		}
		return nil, nil
	})
	p := NewPipeline(analyzer, nil, Options{})

	drives := make([]DriveInput, 4)
	for i := range drives {
		drives[i] = DriveInput{ID: fmt.Sprintf("drive-%02d", i), Samples: driveSamples()}
	}
	drives[2].Samples = nil // one bad drive

	outcomes := p.ProcessDrives(drives)
	require.Len(t, outcomes, 4)
	for i, o := range outcomes {
		assert.Equal(t, drives[i].ID, o.DriveID)
		if i == 2 {
			assert.Error(t, o.Err)
			continue
		}
		require.NoError(t, o.Err)
		assert.Len(t, o.Results.Hazards, 1)
	}
}
