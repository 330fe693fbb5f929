package hazard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rastlabs/rast-core/telemetry"
)

func testTrack(t *testing.T) *telemetry.Track {
	t.Helper()
	track, _, err := telemetry.NewTrack([]telemetry.PositionSample{
		{TimestampMS: 0, Lat: 0, Lng: 0},
		{TimestampMS: 60000, Lat: 1, Lng: 1},
	}, telemetry.TrackOptions{})
	require.NoError(t, err)
	return track
}

func TestResolve_AbsoluteTimeAndPosition(t *testing.T) {
	dets := []Detection{{
		Category:       CategoryPothole,
		Severity:       3,
		Confidence:     0.8,
		WindowStartSec: 20,
		OffsetSec:      10,
	}}

	out, err := Resolve(dets, testTrack(t))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 30.0, out[0].AbsoluteSec)
	// 30s into a 60s track from (0,0) to (1,1).
	assert.InDelta(t, 0.5, out[0].Position.Lat, 1e-9)
	assert.InDelta(t, 0.5, out[0].Position.Lng, 1e-9)
}

func TestResolve_ClampsBeyondTrackEnd(t *testing.T) {
	dets := []Detection{{
		Category:       CategoryDebris,
		Severity:       2,
		Confidence:     0.5,
		WindowStartSec: 55,
		OffsetSec:      30, // 85s, past the 60s track
	}}

	out, err := Resolve(dets, testTrack(t))
	require.NoError(t, err)
	assert.Equal(t, 1.0, out[0].Position.Lat)
	assert.Equal(t, 1.0, out[0].Position.Lng)
}

func TestResolve_RejectsInvalidDetection(t *testing.T) {
	tests := []struct {
		name string
		d    Detection
	}{
		{"unknown category", Detection{Category: "wormhole", Severity: 3, Confidence: 0.5}},
		{"severity too high", Detection{Category: CategoryPothole, Severity: 6, Confidence: 0.5}},
		{"severity too low", Detection{Category: CategoryPothole, Severity: 0, Confidence: 0.5}},
		{"confidence out of range", Detection{Category: CategoryPothole, Severity: 3, Confidence: 1.5}},
	}

	track := testTrack(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve([]Detection{tt.d}, track)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "detection 0")
		})
	}
}

func TestResolve_UnknownCategorySentinel(t *testing.T) {
	_, err := Resolve([]Detection{{Category: "wormhole", Severity: 3, Confidence: 0.5}}, testTrack(t))
	assert.True(t, errors.Is(err, ErrUnknownCategory), "expected ErrUnknownCategory, got %v", err)
}

func TestResolve_NilTrack(t *testing.T) {
	_, err := Resolve(nil, nil)
	assert.True(t, errors.Is(err, telemetry.ErrEmptyTrack))
}
