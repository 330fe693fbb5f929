package rastcore

// Window is one planned analysis window over the drive footage.
// Consecutive windows overlap so that occurrences near a boundary are
// seen by both; the deduplicator collapses the duplicate reports.
type Window struct {
	Index      int     `json:"index"`
	StartSec   float64 `json:"start_sec"`
	EndSec     float64 `json:"end_sec"`
	OverlapSec float64 `json:"overlap_sec"`
}

// DurationSec returns the window length in seconds.
func (w Window) DurationSec() float64 { return w.EndSec - w.StartSec }

// PlanWindows partitions totalSec of footage into fixed-duration windows
// advancing by windowSec-overlapSec, the final window truncated at the
// end of the footage. Together the windows cover [0, totalSec].
//
// Invalid parameters (non-positive duration, overlap not smaller than
// the window) fall back to a single window spanning the whole drive.
func PlanWindows(totalSec, windowSec, overlapSec float64) []Window {
	if totalSec <= 0 {
		return nil
	}
	if windowSec <= 0 || overlapSec < 0 || overlapSec >= windowSec {
		return []Window{{Index: 0, StartSec: 0, EndSec: totalSec}}
	}

	var windows []Window
	step := windowSec - overlapSec
	for start := 0.0; start < totalSec; start += step {
		end := start + windowSec
		if end > totalSec {
			end = totalSec
		}
		w := Window{
			Index:    len(windows),
			StartSec: start,
			EndSec:   end,
		}
		if w.Index > 0 {
			w.OverlapSec = overlapSec
		}
		windows = append(windows, w)
		if end >= totalSec {
			break
		}
	}
	return windows
}
