package route

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/rastlabs/rast-core/geo"
)

// DefaultOffRouteThresholdM is the sanity threshold beyond which a point
// is reported as off-route instead of being matched to an instruction.
const DefaultOffRouteThresholdM = 50.0

// ErrNotLoaded is returned for point queries before BuildRoute.
var ErrNotLoaded = errors.New("route: no route loaded")

// StepInput is one route step as delivered by the routing service.
type StepInput struct {
	Instruction string  `json:"instruction"`
	Polyline    string  `json:"polyline"`
	DistanceM   float64 `json:"distance_m"`
}

// Step is a decoded route step owning the contiguous index span
// [First, Last] of the route's point list. Spans partition the route:
// the first span starts at index 0 and each subsequent span starts
// immediately after the previous one.
type Step struct {
	Instruction string  `json:"instruction"`
	First       int     `json:"first"`
	Last        int     `json:"last"`
	DistanceM   float64 `json:"distance_m"`
}

// TracePoint is one recorded trace position.
type TracePoint struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	TimestampMS float64 `json:"timestamp"`
}

// AnnotatedTracePoint is a TracePoint aligned to the route.
type AnnotatedTracePoint struct {
	TracePoint

	RouteIndex  int     `json:"route_index"`
	StepIndex   int     `json:"step_index"` // -1 when off route
	Instruction string  `json:"instruction,omitempty"`
	DistanceM   float64 `json:"distance_m"`
	OffRoute    bool    `json:"off_route,omitempty"`
}

// Matcher aligns points to a planned route. It has two states: unloaded
// (all point queries fail with ErrNotLoaded) and loaded; BuildRoute
// moves it to loaded and may be called again to replace the route.
type Matcher struct {
	distance    geo.DistanceFunc
	offRouteM   float64
	points      []Point
	steps       []Step
	stepByFirst []int // step First indexes for span lookup
	loaded      bool
}

// NewMatcher creates an unloaded Matcher. thresholdM <= 0 selects
// DefaultOffRouteThresholdM.
func NewMatcher(metric geo.Metric, thresholdM float64) *Matcher {
	if thresholdM <= 0 {
		thresholdM = DefaultOffRouteThresholdM
	}
	return &Matcher{
		distance:  metric.Func(),
		offRouteM: thresholdM,
	}
}

var htmlTags = regexp.MustCompile(`<[^>]*>`)

// BuildRoute decodes and concatenates the step sub-polylines in order.
// Routing services repeat the junction vertex as both the last point of
// one step and the first point of the next; the duplicate is collapsed
// so that spans stay disjoint. Instruction text is stripped of HTML
// markup. Calling BuildRoute again replaces the loaded route.
func (m *Matcher) BuildRoute(steps []StepInput) error {
	if len(steps) == 0 {
		return errors.New("route: no steps")
	}

	var points []Point
	decoded := make([]Step, 0, len(steps))

	for i, s := range steps {
		pts, err := DecodePolyline(s.Polyline)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if len(pts) > 0 && len(points) > 0 && pts[0] == points[len(points)-1] {
			pts = pts[1:]
		}
		if len(pts) == 0 {
			return fmt.Errorf("step %d: empty polyline", i)
		}
		first := len(points)
		points = append(points, pts...)
		decoded = append(decoded, Step{
			Instruction: htmlTags.ReplaceAllString(s.Instruction, ""),
			First:       first,
			Last:        len(points) - 1,
			DistanceM:   s.DistanceM,
		})
	}

	firsts := make([]int, len(decoded))
	for i, s := range decoded {
		firsts[i] = s.First
	}

	m.points = points
	m.steps = decoded
	m.stepByFirst = firsts
	m.loaded = true
	return nil
}

// Loaded reports whether a route is loaded.
func (m *Matcher) Loaded() bool { return m.loaded }

// Points returns the decoded route. Callers must not modify it.
func (m *Matcher) Points() ([]Point, error) {
	if !m.loaded {
		return nil, ErrNotLoaded
	}
	return m.points, nil
}

// Steps returns the decoded steps. Callers must not modify them.
func (m *Matcher) Steps() ([]Step, error) {
	if !m.loaded {
		return nil, ErrNotLoaded
	}
	return m.steps, nil
}

// NearestPoint returns the route index of the point closest to the
// query and the distance to it in meters. Ties go to the lowest route
// index (the earlier point along the route).
func (m *Matcher) NearestPoint(lat, lng float64) (int, float64, error) {
	if !m.loaded {
		return 0, 0, ErrNotLoaded
	}
	best := 0
	bestDist := m.distance(lat, lng, m.points[0].Lat, m.points[0].Lng)
	for i := 1; i < len(m.points); i++ {
		d := m.distance(lat, lng, m.points[i].Lat, m.points[i].Lng)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist, nil
}

// StepFor returns the index of the step owning a route index.
func (m *Matcher) StepFor(routeIndex int) (int, error) {
	if !m.loaded {
		return 0, ErrNotLoaded
	}
	if routeIndex < 0 || routeIndex >= len(m.points) {
		return 0, fmt.Errorf("route: index %d out of range [0,%d)", routeIndex, len(m.points))
	}
	// Last step whose span starts at or before routeIndex.
	i := sort.SearchInts(m.stepByFirst, routeIndex+1) - 1
	return i, nil
}

// Annotation is the navigational context for a matched point.
type Annotation struct {
	RouteIndex  int
	StepIndex   int
	Instruction string
	DistanceM   float64
	OffRoute    bool
}

// InstructionFor returns the instruction of the step owning the nearest
// route point. When the nearest distance exceeds the off-route
// threshold, OffRoute is set and no instruction is guessed.
func (m *Matcher) InstructionFor(lat, lng float64) (Annotation, error) {
	idx, dist, err := m.NearestPoint(lat, lng)
	if err != nil {
		return Annotation{}, err
	}
	if dist > m.offRouteM {
		return Annotation{RouteIndex: idx, StepIndex: -1, DistanceM: dist, OffRoute: true}, nil
	}
	stepIdx, err := m.StepFor(idx)
	if err != nil {
		return Annotation{}, err
	}
	return Annotation{
		RouteIndex:  idx,
		StepIndex:   stepIdx,
		Instruction: m.steps[stepIdx].Instruction,
		DistanceM:   dist,
	}, nil
}

// AnnotateTrace aligns every trace point to the route, producing one
// annotated point per input point.
func (m *Matcher) AnnotateTrace(trace []TracePoint) ([]AnnotatedTracePoint, error) {
	if !m.loaded {
		return nil, ErrNotLoaded
	}
	out := make([]AnnotatedTracePoint, 0, len(trace))
	for _, tp := range trace {
		a, err := m.InstructionFor(tp.Lat, tp.Lng)
		if err != nil {
			return nil, err
		}
		out = append(out, AnnotatedTracePoint{
			TracePoint:  tp,
			RouteIndex:  a.RouteIndex,
			StepIndex:   a.StepIndex,
			Instruction: a.Instruction,
			DistanceM:   a.DistanceM,
			OffRoute:    a.OffRoute,
		})
	}
	return out, nil
}
