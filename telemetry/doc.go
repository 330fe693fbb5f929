/*
Package telemetry ingests recorded GPS tracks and answers position
queries against them.

A Track is built once from an ordered slice of PositionSamples and is
immutable afterwards, so concurrent PositionAt calls need no locking.
Ingestion validates the non-decreasing timestamp invariant and skips
per-sample anomalies (NaN coordinates, duplicate timestamps, fixes below
the configured minimum), reporting each skip as a Warning rather than
failing the whole track.

Timestamps are milliseconds from recording start, matching the camera
telemetry clock. PositionAt clamps queries outside the recorded range to
the first or last sample; clamping is defined behavior, not an error.
*/
package telemetry
