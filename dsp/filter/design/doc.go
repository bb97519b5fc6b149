// Package design discretizes analog first- and second-order prototypes
// with the bilinear (trapezoidal) transform
//
//	s = (2/T) * (1 - z^-1) / (1 + z^-1)
//
// where T is the sample interval in seconds. Frequencies are angular
// (rad/s), matching the way motion-control loops are usually tuned.
//
// The results feed dsp/filter/biquad and dsp/filter/onepole. The designs
// are cheap enough to evaluate every sample, which the frequency-tracking
// band-pass in dsp/observer relies on.
package design
