/*
Package hazard models road hazard detections and collapses redundant
reports of the same real-world occurrence.

Detections arrive once per analysis window with a window-relative
timestamp. Resolve converts them to absolute drive time and attaches an
interpolated coordinate from the telemetry track. Deduplicator then
merges detections of the same category within a configurable radius,
computing cluster membership as a transitive closure so that chained
reports from overlapping windows collapse into one occurrence regardless
of input order.
*/
package hazard
