package observer_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-apdob/dsp/observer"
)

func ExampleObserver() {
	obs, err := observer.New(observer.DefaultParams())
	if err != nil {
		panic(err)
	}

	// A 120 rad/s disturbance, while the observer starts from 100 rad/s.
	var est observer.Estimate
	for i := range 100000 {
		est, _ = obs.Update(math.Sin(120 * float64(i) * 1e-4))
	}

	fmt.Printf("frequency: %.1f rad/s\n", est.Frequency)
	fmt.Printf("delay: %d samples\n", obs.Disturbance().Delay())
	// Output:
	// frequency: 120.0 rad/s
	// delay: 503 samples
}

func ExampleDelayCount() {
	for _, w := range []float64{80, 100, 120} {
		n := observer.DelayCount(w, 1000, 0.5, 1e-4)
		fmt.Printf("%3.0f rad/s: %.0f samples\n", w, n)
	}
	// Output:
	//  80 rad/s: 765 samples
	// 100 rad/s: 608 samples
	// 120 rad/s: 503 samples
}

func ExampleParams_Validate() {
	p := observer.DefaultParams()
	p.NotchDamping = 1.2

	fmt.Println(p.Validate())
	// Output:
	// observer: NotchDamping = 1.2: must be in (0, 1)
}
