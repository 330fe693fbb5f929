package telemetry

import (
	"errors"
	"fmt"
	"math"

	"github.com/rastlabs/rast-core/route"
)

// Warning types reported during track ingestion.
const (
	WarningNaNCoordinate      = "nan_coordinate"
	WarningDuplicateTimestamp = "duplicate_timestamp"
	WarningBelowMinFix        = "below_min_fix"
)

// ErrEmptyTrack is returned when a track has no usable samples.
var ErrEmptyTrack = errors.New("telemetry: track has no samples")

// PositionSample is a single GPS telemetry reading.
type PositionSample struct {
	TimestampMS float64 `json:"cts"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lon"`
	AltitudeM   float64 `json:"alt"`
	Fix         int     `json:"fix"`       // GPS lock: 0 none, 2 = 2D, 3 = 3D
	PrecisionM  float64 `json:"precision"` // horizontal precision estimate
}

// Warning records a sample that was skipped during ingestion.
type Warning struct {
	Type   string
	Record string
}

// TrackOptions control sample filtering during ingestion.
type TrackOptions struct {
	// MinFix drops samples whose fix quality is below this value.
	// Zero accepts every sample.
	MinFix int
}

// Track is an ordered, immutable GPS track.
type Track struct {
	samples []PositionSample
}

// NewTrack validates and ingests samples into a Track.
//
// Input samples must already be ordered by timestamp; a decreasing
// timestamp is an input error identifying the offending sample. Samples
// with NaN coordinates, a fix below opts.MinFix, or a timestamp equal to
// the previous kept sample (keep-first policy) are skipped and reported
// in the returned warnings.
func NewTrack(samples []PositionSample, opts TrackOptions) (*Track, []Warning, error) {
	if len(samples) == 0 {
		return nil, nil, ErrEmptyTrack
	}

	var warnings []Warning
	kept := make([]PositionSample, 0, len(samples))
	prevTS := math.Inf(-1)

	for i, s := range samples {
		if i > 0 && s.TimestampMS < samples[i-1].TimestampMS {
			return nil, warnings, fmt.Errorf(
				"telemetry: non-decreasing timestamp invariant violated at sample %d (%.0fms after %.0fms)",
				i, s.TimestampMS, samples[i-1].TimestampMS)
		}
		if math.IsNaN(s.Lat) || math.IsNaN(s.Lng) {
			warnings = append(warnings, Warning{WarningNaNCoordinate, sampleRef(i, s)})
			continue
		}
		if opts.MinFix > 0 && s.Fix < opts.MinFix {
			warnings = append(warnings, Warning{WarningBelowMinFix, sampleRef(i, s)})
			continue
		}
		if s.TimestampMS == prevTS {
			warnings = append(warnings, Warning{WarningDuplicateTimestamp, sampleRef(i, s)})
			continue
		}
		kept = append(kept, s)
		prevTS = s.TimestampMS
	}

	if len(kept) == 0 {
		return nil, warnings, ErrEmptyTrack
	}
	return &Track{samples: kept}, warnings, nil
}

func sampleRef(i int, s PositionSample) string {
	return fmt.Sprintf("sample %d @ %.0fms", i, s.TimestampMS)
}

// Len returns the number of kept samples.
func (t *Track) Len() int { return len(t.samples) }

// StartMS returns the first timestamp in milliseconds.
func (t *Track) StartMS() float64 { return t.samples[0].TimestampMS }

// EndMS returns the last timestamp in milliseconds.
func (t *Track) EndMS() float64 { return t.samples[len(t.samples)-1].TimestampMS }

// DurationSec returns the track duration in seconds.
func (t *Track) DurationSec() float64 { return (t.EndMS() - t.StartMS()) / 1000 }

// Samples returns the kept samples in order. Callers must not modify
// the returned slice.
func (t *Track) Samples() []PositionSample { return t.samples }

// Trace returns the track as route trace points, ready for annotation
// against a planned route.
func (t *Track) Trace() []route.TracePoint {
	trace := make([]route.TracePoint, len(t.samples))
	for i, s := range t.samples {
		trace[i] = route.TracePoint{Lat: s.Lat, Lng: s.Lng, TimestampMS: s.TimestampMS}
	}
	return trace
}
