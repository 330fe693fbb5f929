package telemetry

import (
	"sort"
)

// Position is an estimated position produced by interpolation.
type Position struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	AltitudeM float64 `json:"alt"`
}

// PositionAt returns the estimated position at an absolute timestamp in
// milliseconds. Queries at or before the first sample clamp to it, at or
// after the last sample clamp to that; in between, the bracketing pair is
// located by binary search and latitude, longitude and altitude are
// linearly interpolated.
func (t *Track) PositionAt(tsMS float64) (Position, error) {
	if len(t.samples) == 0 {
		return Position{}, ErrEmptyTrack
	}

	if tsMS <= t.samples[0].TimestampMS {
		return samplePosition(t.samples[0]), nil
	}
	last := t.samples[len(t.samples)-1]
	if tsMS >= last.TimestampMS {
		return samplePosition(last), nil
	}

	// Largest i with samples[i].TimestampMS <= tsMS. The clamps above
	// guarantee 0 <= i < len-1.
	i := sort.Search(len(t.samples), func(j int) bool {
		return t.samples[j].TimestampMS > tsMS
	}) - 1

	s0 := t.samples[i]
	s1 := t.samples[i+1]
	f := (tsMS - s0.TimestampMS) / (s1.TimestampMS - s0.TimestampMS)

	return Position{
		Lat:       s0.Lat + f*(s1.Lat-s0.Lat),
		Lng:       s0.Lng + f*(s1.Lng-s0.Lng),
		AltitudeM: s0.AltitudeM + f*(s1.AltitudeM-s0.AltitudeM),
	}, nil
}

// PositionAtSec interpolates using seconds relative to the track start.
func (t *Track) PositionAtSec(sec float64) (Position, error) {
	if len(t.samples) == 0 {
		return Position{}, ErrEmptyTrack
	}
	return t.PositionAt(t.StartMS() + sec*1000)
}

func samplePosition(s PositionSample) Position {
	return Position{Lat: s.Lat, Lng: s.Lng, AltitudeM: s.AltitudeM}
}
