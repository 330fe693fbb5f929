package hazard

// SegmentCount counts hazards attributed to one route step.
type SegmentCount struct {
	StepIndex   int    `json:"step_index"`
	Instruction string `json:"instruction"`
	Count       int    `json:"count"`
}

// Summary is the deterministic statistical overview of a deduplicated
// drive. Narrative briefings belong to the external classifier, not here.
type Summary struct {
	TotalHazards         int              `json:"total_hazards"`
	Breakdown            map[Category]int `json:"hazard_breakdown"`
	SeverityDistribution map[int]int      `json:"severity_distribution"`
	QualityScore         int              `json:"route_quality_score"`
	WorstSegment         *SegmentCount    `json:"worst_segment,omitempty"`
}

// Summarize computes totals, per-category breakdown, severity
// distribution and a quality score over deduplicated hazards. The worst
// route segment is filled in by the caller when a route is available.
//
// The score starts at 100 and loses twice each hazard's severity,
// floored at zero. It is a coarse comparative signal, not a calibrated
// safety metric.
func Summarize(hazards []ResolvedDetection) Summary {
	s := Summary{
		TotalHazards:         len(hazards),
		Breakdown:            map[Category]int{},
		SeverityDistribution: map[int]int{},
	}
	penalty := 0
	for _, h := range hazards {
		s.Breakdown[h.Category]++
		s.SeverityDistribution[h.Severity]++
		penalty += h.Severity * 2
	}
	s.QualityScore = 100 - penalty
	if s.QualityScore < 0 {
		s.QualityScore = 0
	}
	return s
}
