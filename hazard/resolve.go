package hazard

import (
	"fmt"

	"github.com/rastlabs/rast-core/telemetry"
)

// Resolve maps raw detections onto the drive timeline and the telemetry
// track. Each detection's absolute time is its window start plus its
// window-relative offset; the coordinate is interpolated from the track
// at that instant (clamped at the track bounds).
//
// An invalid detection is a structural input error identifying the
// offending record; nothing is silently dropped here.
func Resolve(detections []Detection, track *telemetry.Track) ([]ResolvedDetection, error) {
	if track == nil {
		return nil, telemetry.ErrEmptyTrack
	}

	resolved := make([]ResolvedDetection, 0, len(detections))
	for i, d := range detections {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("detection %d: %w", i, err)
		}
		absSec := d.WindowStartSec + d.OffsetSec
		pos, err := track.PositionAt(absSec * 1000)
		if err != nil {
			return nil, fmt.Errorf("detection %d: %w", i, err)
		}
		resolved = append(resolved, ResolvedDetection{
			Detection:   d,
			AbsoluteSec: absSec,
			Position:    pos,
		})
	}
	return resolved, nil
}
