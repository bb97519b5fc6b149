// Package control holds the servo-loop collaborators around the observer:
// pseudo-derivatives, the inverse plant model that produces the observer's
// error signal, a PD position controller with acceleration feedforward,
// the disturbance compensator, and a simulated linear motor.
//
// Every type owns its own filter state, so one set per control axis can run
// side by side.
package control
