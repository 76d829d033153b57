// Package reverb provides host-facing room reverb processors.
//
// SDNReverb wraps a Scattering Delay Network (package sdn) with wet/dry
// mixing, block processing and setters that clamp positions into the room.
package reverb
