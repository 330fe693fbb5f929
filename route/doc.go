/*
Package route decodes planned routes and aligns arbitrary positions to
them.

A route arrives as an ordered list of steps, each carrying a navigation
instruction and an encoded sub-polyline (standard precision-5 encoding).
BuildRoute concatenates the decoded steps into one point list whose
index spans partition the route, so any route index maps to exactly one
owning step. NearestPoint and InstructionFor answer point queries
against the loaded route; AnnotateTrace applies them to a whole recorded
trace.

The matcher holds no mutable state between queries once a route is
loaded, so it is safe for concurrent point queries.
*/
package route
