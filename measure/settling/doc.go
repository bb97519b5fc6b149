// Package settling measures how an estimate trace converges to a target:
// settling time into a tolerance band, steady-state statistics over the
// settled tail, and RMS error over arbitrary time windows.
package settling
