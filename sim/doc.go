// Package sim runs the observer inside a simulated position servo: a linear
// motor disturbed by a harmonic force whose fundamental follows a schedule,
// a PD controller with acceleration feedforward, and disturbance
// compensation from the observer estimate.
//
// The default scenario drives a 1 Hz, 1 mm position command for 30 s while
// the disturbance fundamental steps from 100 rad/s to 110 rad/s at 10 s.
package sim
