// Package biquad provides second-order IIR filter runtime primitives.
//
// A [Section] implements Direct Form I processing for a single second-order
// section defined by [Coefficients]. Direct Form I keeps the two previous
// inputs and outputs explicitly, so coefficients may be replaced on every
// sample without the transient that a transposed structure shows when its
// internal state was accumulated under different coefficients.
//
// Multiple sections can be cascaded via [Chain]. Coefficient design
// (bilinear discretization of analog prototypes) lives in dsp/filter/design.
package biquad
