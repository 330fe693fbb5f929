package rastcore

import (
	"testing"

	"github.com/rastlabs/rast-core/telemetry"
)

func TestWarningAggregator_CountsAndExamples(t *testing.T) {
	agg := NewWarningAggregator()
	for i := 0; i < 5; i++ {
		agg.Add(WarningWindowFailed, "window 3")
	}

	if got := agg.Count(WarningWindowFailed); got != 5 {
		t.Errorf("Count = %d, want 5", got)
	}
	if got := agg.Count("never_seen"); got != 0 {
		t.Errorf("Count of unseen type = %d, want 0", got)
	}

	info := agg.warnings[WarningWindowFailed]
	if len(info.examples) != 3 {
		t.Errorf("stored %d examples, want at most 3", len(info.examples))
	}
}

func TestWarningAggregator_TrackWarnings(t *testing.T) {
	agg := NewWarningAggregator()
	agg.AddTrackWarnings([]telemetry.Warning{
		{Type: telemetry.WarningNaNCoordinate, Record: "sample 4 @ 4000ms"},
		{Type: telemetry.WarningDuplicateTimestamp, Record: "sample 9 @ 9000ms"},
	})

	if agg.Count(telemetry.WarningNaNCoordinate) != 1 {
		t.Error("nan_coordinate warning not recorded")
	}
	if agg.Count(telemetry.WarningDuplicateTimestamp) != 1 {
		t.Error("duplicate_timestamp warning not recorded")
	}
}
