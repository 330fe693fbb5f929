// Package utils provides internal utility functions for the drive
// analysis core. This package is not intended to be imported by
// external code.
//
// It contains:
//   - Time formatting and conversion utilities
package utils
