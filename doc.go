// Package rastcore correlates time-stamped hazard detections and a
// recorded GPS trace with the drive's telemetry track and planned
// route.
//
// The core is batch, post-hoc processing: all inputs for a drive are
// fully materialized before a pass runs. Pipeline plans overlapping
// analysis windows over the footage, fans them out to the external
// classifier, resolves every detection to an absolute timestamp and an
// interpolated coordinate (package telemetry), collapses redundant
// reports of the same occurrence (package hazard), and aligns the
// recorded trace against the planned route (package route). Results are
// stored through an injected key-value Store.
package rastcore
