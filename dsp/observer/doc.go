// Package observer implements an adaptive periodic-disturbance observer
// (APDOB) for fixed-rate motion-control loops.
//
// The observer consumes one scalar disturbance-error sample per control tick
// and produces two things:
//
//   - the fundamental angular frequency of the periodic disturbance, tracked
//     by an adaptive notch filter ([FrequencyEstimator]);
//   - the instantaneous disturbance waveform, reconstructed by a delay-based
//     Q-filter tuned to that frequency ([DisturbanceEstimator]).
//
// [Observer] owns both and is what a control loop normally uses:
//
//	obs, err := observer.New(observer.DefaultParams())
//	...
//	for each tick {
//		e := inverseModel.Error(u, y)
//		w := obs.UpdateFrequency(e)
//		d, _ := obs.UpdateDisturbance(e, w)
//		u = compensator.Command(accelRef, d)
//	}
//
// Every instance owns all of its state. Several observers, for example one
// per control axis, can run side by side without interfering.
// A single instance is not safe for concurrent use. Updates never block and
// do not allocate while the delay count stays in range.
package observer
