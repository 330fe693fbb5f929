package rastcore

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/rastlabs/rast-core/telemetry"
)

// Pipeline-level warning types. Track ingestion contributes its own
// types (telemetry.Warning*).
const (
	WarningWindowFailed = "window_failed"
	WarningNoRoute      = "no_route"
)

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects per-record warnings during a drive pass and
// outputs consolidated summaries instead of one log line per record.
type WarningAggregator struct {
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new warning aggregator
func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{
		warnings: make(map[string]*warningInfo),
	}
}

// Add records a warning occurrence with an example record ID
func (w *WarningAggregator) Add(warningType, exampleID string) {
	if w.warnings[warningType] == nil {
		w.warnings[warningType] = &warningInfo{
			examples: make([]string, 0, 3),
		}
	}

	info := w.warnings[warningType]
	info.count++

	// Store up to 3 examples
	if len(info.examples) < 3 {
		info.examples = append(info.examples, exampleID)
	}
}

// AddTrackWarnings folds track ingestion warnings into the aggregator.
func (w *WarningAggregator) AddTrackWarnings(warnings []telemetry.Warning) {
	for _, tw := range warnings {
		w.Add(tw.Type, tw.Record)
	}
}

// Count returns the number of recorded occurrences of a warning type.
func (w *WarningAggregator) Count(warningType string) int {
	if info := w.warnings[warningType]; info != nil {
		return info.count
	}
	return 0
}

// LogAll outputs all collected warnings in consolidated format
func (w *WarningAggregator) LogAll(driveID string) {
	if len(w.warnings) == 0 {
		return
	}

	types := make([]string, 0, len(w.warnings))
	for t := range w.warnings {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, warningType := range types {
		log.Printf("%s", w.formatWarningMessage(warningType, driveID, w.warnings[warningType]))
	}
}

// formatWarningMessage creates a human-readable warning message
func (w *WarningAggregator) formatWarningMessage(warningType, driveID string, info *warningInfo) string {
	var description, action string

	switch warningType {
	case telemetry.WarningNaNCoordinate:
		description = "track samples with NaN coordinates"
		action = "Skipping the samples"
	case telemetry.WarningDuplicateTimestamp:
		description = "track samples repeating an earlier timestamp"
		action = "Keeping the first sample at each timestamp"
	case telemetry.WarningBelowMinFix:
		description = "track samples below the minimum GPS fix quality"
		action = "Skipping the samples"
	case WarningWindowFailed:
		description = "analysis windows that failed"
		action = "Contributing zero detections for their time range"
	case WarningNoRoute:
		description = "drives without a planned route"
		action = "Skipping trace annotation and worst-segment stats"
	default:
		description = "unknown issue"
		action = "Continuing with fallback behavior"
	}

	examplesStr := strings.Join(info.examples, ", ")

	return fmt.Sprintf("Drive %s has %s (%d occurrences). %s. Examples: %s",
		driveID, description, info.count, action, examplesStr)
}
