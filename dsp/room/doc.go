// Package room provides the geometry of a rectangular room: points,
// axis-aligned wall planes and the first-order reflection points used to
// place scattering junctions.
//
// Coordinates are in metres. X runs along the room width, Y along its
// length and Z along its height. Azimuth is measured clockwise from +X
// when the room is viewed from above, so a point straight ahead of the
// reference has azimuth 0 and a point to its right has azimuth +π/2.
package room
