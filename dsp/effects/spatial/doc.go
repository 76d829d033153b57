// Package spatial provides reusable non-I/O spatial audio helpers.
//
// Included:
//   - AzimuthPan: two-channel pan law driven by a source azimuth.
package spatial
