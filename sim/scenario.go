package sim

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-apdob/dsp/observer"
)

// Plant describes the simulated motor and the nominal model the controller
// believes in.
type Plant struct {
	Mass          float64 `yaml:"mass"`
	Thrust        float64 `yaml:"thrust"`
	NominalMass   float64 `yaml:"nominal_mass"`
	NominalThrust float64 `yaml:"nominal_thrust"`
}

// Controller holds the PD gains and the pseudo-derivative cutoff shared by
// the PD controller, the feedforward path and the inverse model.
type Controller struct {
	Kp               float64 `yaml:"kp"`
	Kv               float64 `yaml:"kv"`
	DerivativeCutoff float64 `yaml:"derivative_cutoff"`
}

// Command is the sinusoidal position command.
type Command struct {
	Amplitude float64 `yaml:"amplitude"` // m
	Frequency float64 `yaml:"frequency"` // Hz
}

// Step switches the disturbance fundamental to Omega (rad/s) at time At (s).
type Step struct {
	At    float64 `yaml:"at"`
	Omega float64 `yaml:"omega"`
}

// Disturbance is the periodic force sum_{i=1..Harmonics} sin(i*Omega(t)*t).
type Disturbance struct {
	Harmonics int    `yaml:"harmonics"`
	Schedule  []Step `yaml:"schedule"`
}

// Scenario is a complete closed-loop simulation setup.
type Scenario struct {
	// Duration is the simulated time in seconds.
	Duration float64 `yaml:"duration"`
	// Oversampling is the number of plant integration steps per control
	// tick.
	Oversampling int `yaml:"oversampling"`
	// DisableCompensation runs the loop without feeding the disturbance
	// estimate forward. The observer still runs.
	DisableCompensation bool `yaml:"disable_compensation"`

	Plant       Plant           `yaml:"plant"`
	Controller  Controller      `yaml:"controller"`
	Command     Command         `yaml:"command"`
	Disturbance Disturbance     `yaml:"disturbance"`
	Observer    observer.Params `yaml:"observer"`
}

// DefaultScenario returns the reference servo test.
//
// The plant mass is twice the nominal mass used by the inverse model and
// the compensator; the default observer tuning is matched to that plant.
func DefaultScenario() Scenario {
	return Scenario{
		Duration:     30,
		Oversampling: 100,
		Plant: Plant{
			Mass:          0.6,
			Thrust:        0.24,
			NominalMass:   0.3,
			NominalThrust: 0.24,
		},
		Controller: Controller{
			Kp:               2500,
			Kv:               100,
			DerivativeCutoff: 500,
		},
		Command: Command{
			Amplitude: 0.001,
			Frequency: 1,
		},
		Disturbance: Disturbance{
			Harmonics: 10,
			Schedule: []Step{
				{At: 0, Omega: 100},
				{At: 10, Omega: 110},
			},
		},
		Observer: observer.DefaultParams(),
	}
}

// ParseScenario decodes a YAML scenario on top of [DefaultScenario] and
// validates it. Fields missing from data keep their defaults; a schedule in
// data replaces the default schedule.
func ParseScenario(data []byte) (Scenario, error) {
	sc := DefaultScenario()
	sc.Disturbance.Schedule = nil

	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("sim: parse scenario: %w", err)
	}
	if sc.Disturbance.Schedule == nil {
		sc.Disturbance.Schedule = DefaultScenario().Disturbance.Schedule
	}

	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}

	return sc, nil
}

// LoadScenario reads and parses a YAML scenario file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("sim: read scenario: %w", err)
	}

	return ParseScenario(data)
}

// Validate checks the scenario and its observer parameters and returns all
// violations joined.
func (sc Scenario) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("sim: "+format, args...))
		}
	}
	positive := func(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

	check(positive(sc.Duration), "duration must be > 0: %v", sc.Duration)
	check(sc.Oversampling >= 1, "oversampling must be >= 1: %d", sc.Oversampling)
	check(positive(sc.Plant.Mass), "plant mass must be > 0: %v", sc.Plant.Mass)
	check(positive(sc.Plant.Thrust), "plant thrust must be > 0: %v", sc.Plant.Thrust)
	check(positive(sc.Plant.NominalMass), "nominal mass must be > 0: %v", sc.Plant.NominalMass)
	check(positive(sc.Plant.NominalThrust), "nominal thrust must be > 0: %v", sc.Plant.NominalThrust)
	check(positive(sc.Controller.Kp), "kp must be > 0: %v", sc.Controller.Kp)
	check(sc.Controller.Kv >= 0, "kv must be >= 0: %v", sc.Controller.Kv)
	check(positive(sc.Controller.DerivativeCutoff), "derivative cutoff must be > 0: %v", sc.Controller.DerivativeCutoff)
	check(sc.Command.Frequency >= 0, "command frequency must be >= 0: %v", sc.Command.Frequency)
	check(!math.IsNaN(sc.Command.Amplitude) && !math.IsInf(sc.Command.Amplitude, 0),
		"command amplitude must be finite: %v", sc.Command.Amplitude)
	check(sc.Disturbance.Harmonics >= 0, "harmonics must be >= 0: %d", sc.Disturbance.Harmonics)
	check(len(sc.Disturbance.Schedule) > 0, "disturbance schedule is empty")

	sorted := sort.SliceIsSorted(sc.Disturbance.Schedule, func(i, j int) bool {
		return sc.Disturbance.Schedule[i].At < sc.Disturbance.Schedule[j].At
	})
	check(sorted, "disturbance schedule must be ordered by time")
	for i, st := range sc.Disturbance.Schedule {
		check(st.Omega >= 0 && !math.IsInf(st.Omega, 0), "schedule[%d]: omega must be finite and >= 0: %v", i, st.Omega)
	}

	if err := sc.Observer.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Omega returns the disturbance fundamental at time t: the Omega of the
// last schedule step with At <= t, or of the first step before it starts.
func (d Disturbance) Omega(t float64) float64 {
	if len(d.Schedule) == 0 {
		return 0
	}

	i := sort.Search(len(d.Schedule), func(i int) bool { return d.Schedule[i].At > t })
	if i == 0 {
		return d.Schedule[0].Omega
	}

	return d.Schedule[i-1].Omega
}

// Force returns the disturbance force at time t for fundamental omega.
func (d Disturbance) Force(omega, t float64) float64 {
	var f float64
	for i := 1; i <= d.Harmonics; i++ {
		f += math.Sin(float64(i) * omega * t)
	}

	return f
}
