package rastcore

import (
	"testing"
)

func TestPlanWindows_CoversDuration(t *testing.T) {
	windows := PlanWindows(65, 20, 3)

	if len(windows) == 0 {
		t.Fatal("expected windows")
	}
	if windows[0].StartSec != 0 {
		t.Errorf("first window starts at %v, want 0", windows[0].StartSec)
	}
	if last := windows[len(windows)-1]; last.EndSec != 65 {
		t.Errorf("last window ends at %v, want 65", last.EndSec)
	}

	// Step of 17s: each window starts before the previous one ends.
	for i := 1; i < len(windows); i++ {
		if windows[i].StartSec >= windows[i-1].EndSec {
			t.Errorf("gap between window %d and %d", i-1, i)
		}
		if got := windows[i-1].EndSec - windows[i].StartSec; got != 3 {
			t.Errorf("overlap between window %d and %d = %v, want 3", i-1, i, got)
		}
		if windows[i].OverlapSec != 3 {
			t.Errorf("window %d OverlapSec = %v, want 3", i, windows[i].OverlapSec)
		}
	}
	if windows[0].OverlapSec != 0 {
		t.Errorf("first window OverlapSec = %v, want 0", windows[0].OverlapSec)
	}
}

func TestPlanWindows_Indexes(t *testing.T) {
	windows := PlanWindows(100, 20, 3)
	for i, w := range windows {
		if w.Index != i {
			t.Errorf("window %d has Index %d", i, w.Index)
		}
	}
}

func TestPlanWindows_ShortDrive(t *testing.T) {
	windows := PlanWindows(8, 20, 3)
	if len(windows) != 1 {
		t.Fatalf("expected a single window, got %d", len(windows))
	}
	if windows[0].StartSec != 0 || windows[0].EndSec != 8 {
		t.Errorf("window = %+v, want [0,8]", windows[0])
	}
}

func TestPlanWindows_Degenerate(t *testing.T) {
	if got := PlanWindows(0, 20, 3); got != nil {
		t.Errorf("zero duration should plan no windows, got %v", got)
	}
	if got := PlanWindows(-5, 20, 3); got != nil {
		t.Errorf("negative duration should plan no windows, got %v", got)
	}

	// Overlap >= window would never advance; fall back to one window.
	got := PlanWindows(60, 10, 10)
	if len(got) != 1 || got[0].EndSec != 60 {
		t.Errorf("expected single full-drive window, got %v", got)
	}
}
