package rastcore

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/rastlabs/rast-core/geo"
	"github.com/rastlabs/rast-core/hazard"
	"github.com/rastlabs/rast-core/route"
	"github.com/rastlabs/rast-core/telemetry"
	"github.com/rastlabs/rast-core/utils"
)

// Analyzer is the boundary to the external hazard classifier. It is
// called once per analysis window; implementations may block for as
// long as they need, the pipeline bounds only their parallelism.
type Analyzer interface {
	AnalyzeWindow(driveID string, w Window) ([]hazard.Detection, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(driveID string, w Window) ([]hazard.Detection, error)

func (f AnalyzerFunc) AnalyzeWindow(driveID string, w Window) ([]hazard.Detection, error) {
	return f(driveID, w)
}

// Options configure a Pipeline. Zero values select the defaults noted
// per field.
type Options struct {
	WindowSec             float64 // analysis window length, default 20
	WindowOverlapSec      float64 // overlap between windows, default 3
	MaxWorkers            int     // parallel window analyses per drive, default 10
	MinFix                int     // minimum GPS fix quality, default 0 (keep all)
	DedupRadiusM          float64 // default hazard.DefaultRadiusM
	DedupRadiusByCategory map[hazard.Category]float64
	Metric                geo.Metric // default haversine
	OffRouteThresholdM    float64    // default route.DefaultOffRouteThresholdM
	SkipCached            bool       // reuse cached results when present
}

// Pipeline correlates one drive's detections, telemetry and route into
// deduplicated hazards and an annotated trace. A Pipeline is stateless
// across drives and safe for concurrent ProcessDrive calls.
type Pipeline struct {
	analyzer Analyzer
	cache    *ResultsCache // nil disables caching
	dedupe   *hazard.Deduplicator
	opts     Options
}

// NewPipeline builds a Pipeline around the external analyzer. cache may
// be nil to disable result caching.
func NewPipeline(analyzer Analyzer, cache *ResultsCache, opts Options) *Pipeline {
	if opts.WindowSec <= 0 {
		opts.WindowSec = 20
	}
	if opts.WindowOverlapSec <= 0 {
		opts.WindowOverlapSec = 3
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 10
	}
	return &Pipeline{
		analyzer: analyzer,
		cache:    cache,
		dedupe:   hazard.NewDeduplicator(opts.DedupRadiusM, opts.DedupRadiusByCategory),
		opts:     opts,
	}
}

// DriveInput is everything recorded for one drive.
type DriveInput struct {
	ID      string
	Samples []telemetry.PositionSample
	Route   []route.StepInput // optional planned route
}

// Results is the full outcome of one drive pass.
type Results struct {
	RunID       string                      `json:"run_id"`
	DriveID     string                      `json:"drive_id"`
	GeneratedAt string                      `json:"generated_at"`
	Windows     []Window                    `json:"windows"`
	Hazards     []hazard.ResolvedDetection  `json:"hazards"`
	Summary     hazard.Summary              `json:"summary"`
	Trace       []route.AnnotatedTracePoint `json:"trace,omitempty"`
}

// ProcessDrive runs the full pass for one drive: plan windows, fan out
// analysis, fan in, resolve, dedupe, summarize, annotate. A failed
// window contributes zero detections for its time range and the drive
// continues; structural input errors abort the drive.
func (p *Pipeline) ProcessDrive(in DriveInput) (*Results, error) {
	if in.ID == "" {
		return nil, errors.New("rastcore: drive ID is required")
	}

	if p.cache != nil && p.opts.SkipCached {
		if res, ok, err := p.cache.Load(in.ID); err == nil && ok {
			log.Printf("drive %s: reusing cached results (run %s)", in.ID, res.RunID)
			return res, nil
		}
	}

	agg := NewWarningAggregator()

	track, trackWarnings, err := telemetry.NewTrack(in.Samples, telemetry.TrackOptions{MinFix: p.opts.MinFix})
	if err != nil {
		return nil, fmt.Errorf("drive %s: %w", in.ID, err)
	}
	agg.AddTrackWarnings(trackWarnings)

	windows := PlanWindows(track.DurationSec(), p.opts.WindowSec, p.opts.WindowOverlapSec)
	perWindow := p.analyzeWindows(in.ID, windows, agg)

	var raw []hazard.Detection
	for _, dets := range perWindow {
		raw = append(raw, dets...)
	}

	resolved, err := hazard.Resolve(raw, track)
	if err != nil {
		return nil, fmt.Errorf("drive %s: %w", in.ID, err)
	}

	deduped := p.dedupe.Dedupe(resolved)

	res := &Results{
		RunID:       uuid.NewString(),
		DriveID:     in.ID,
		GeneratedAt: utils.Iso8601Now(),
		Windows:     windows,
		Hazards:     deduped,
		Summary:     hazard.Summarize(deduped),
	}

	if len(in.Route) > 0 {
		// The matcher is per-drive: parallel drives share no mutable state.
		matcher := route.NewMatcher(p.opts.Metric, p.opts.OffRouteThresholdM)
		if err := matcher.BuildRoute(in.Route); err != nil {
			return nil, fmt.Errorf("drive %s: %w", in.ID, err)
		}
		annotated, err := matcher.AnnotateTrace(track.Trace())
		if err != nil {
			return nil, fmt.Errorf("drive %s: %w", in.ID, err)
		}
		res.Trace = annotated
		res.Summary.WorstSegment = worstSegment(matcher, deduped)
	} else {
		agg.Add(WarningNoRoute, in.ID)
	}

	agg.LogAll(in.ID)
	log.Printf("drive %s: %d windows, %d resolved detections, %d hazards, quality %d",
		in.ID, len(windows), len(resolved), len(deduped), res.Summary.QualityScore)
	for _, h := range deduped {
		log.Printf("  %s %s sev=%d conf=%.2f at %s", h.ID, h.Category, h.Severity,
			h.Confidence, utils.FormatDriveOffset(h.AbsoluteSec))
	}

	if p.cache != nil {
		if err := p.cache.Save(res); err != nil {
			// Caching is best effort; the pass already succeeded.
			log.Printf("drive %s: saving results: %v", in.ID, err)
		}
	}
	return res, nil
}

// analyzeWindows fans the windows out to the analyzer with bounded
// parallelism and waits for every window to finish or fail before
// returning: the fan-in barrier ahead of deduplication.
func (p *Pipeline) analyzeWindows(driveID string, windows []Window, agg *WarningAggregator) [][]hazard.Detection {
	results := make([][]hazard.Detection, len(windows))
	sem := make(chan struct{}, p.opts.MaxWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex // guards agg

	for i, w := range windows {
		wg.Add(1)
		go func(i int, w Window) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			dets, err := p.analyzer.AnalyzeWindow(driveID, w)
			if err != nil {
				mu.Lock()
				agg.Add(WarningWindowFailed, fmt.Sprintf("window %d", w.Index))
				mu.Unlock()
				return
			}
			results[i] = dets
		}(i, w)
	}
	wg.Wait()
	return results
}

// DriveOutcome pairs one drive's results with its error.
type DriveOutcome struct {
	DriveID string
	Results *Results
	Err     error
}

// ProcessDrives runs independent drives as parallel stateless tasks.
// Outcomes are returned in input order; one drive failing does not
// affect the others.
func (p *Pipeline) ProcessDrives(drives []DriveInput) []DriveOutcome {
	out := make([]DriveOutcome, len(drives))
	var wg sync.WaitGroup
	for i, d := range drives {
		wg.Add(1)
		go func(i int, d DriveInput) {
			defer wg.Done()
			res, err := p.ProcessDrive(d)
			out[i] = DriveOutcome{DriveID: d.ID, Results: res, Err: err}
		}(i, d)
	}
	wg.Wait()
	return out
}

// worstSegment attributes each hazard to its owning route step and
// returns the step with the most hazards, ties to the earlier step.
func worstSegment(m *route.Matcher, hazards []hazard.ResolvedDetection) *hazard.SegmentCount {
	counts := map[int]int{}
	instructions := map[int]string{}
	for _, h := range hazards {
		a, err := m.InstructionFor(h.Position.Lat, h.Position.Lng)
		if err != nil || a.OffRoute {
			continue
		}
		counts[a.StepIndex]++
		instructions[a.StepIndex] = a.Instruction
	}

	best := -1
	for idx, c := range counts {
		if best == -1 || c > counts[best] || (c == counts[best] && idx < best) {
			best = idx
		}
	}
	if best == -1 {
		return nil
	}
	return &hazard.SegmentCount{StepIndex: best, Instruction: instructions[best], Count: counts[best]}
}
