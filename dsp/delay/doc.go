// Package delay provides integer-sample delay lines whose length follows a
// physical propagation distance.
//
// A Line is a circular buffer allocated once for the longest delay it will
// ever need. Its length can then be changed at any time without losing the
// buffered history and without allocating, which makes it safe to retune
// from a real-time loop.
package delay
