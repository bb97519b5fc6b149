// Package delay provides a fixed-capacity circular delay line with integer
// sample delays.
//
// A [Line] owns a preallocated arena and a write cursor. The cursor cycles
// over the first resetThreshold+1 slots; every index computation goes
// through [Line.Wrap] so bounds are checked in one place.
package delay

import (
	"errors"
	"fmt"
	"math"
)

// DefaultMargin is the extra time in seconds added to the requested maximum
// delay when sizing the arena in [NewForDuration].
const DefaultMargin = 0.1

// MaxCapacity is the largest arena, in samples, a Line may allocate.
const MaxCapacity = 1 << 28

// ErrDelayRange is wrapped by every [RangeError].
var ErrDelayRange = errors.New("delay: offset out of range")

// RangeError reports a read offset outside [0, Max].
type RangeError struct {
	Offset int
	Max    int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("delay: offset %d outside [0, %d]", e.Offset, e.Max)
}

// Unwrap returns [ErrDelayRange].
func (e *RangeError) Unwrap() error {
	return ErrDelayRange
}

// Line is a circular delay line.
type Line struct {
	buffer         []float64
	cursor         int
	resetThreshold int
}

// New returns a delay line with the given arena capacity whose valid
// offsets are [0, resetThreshold]. resetThreshold must be smaller than
// capacity.
func New(capacity, resetThreshold int) (*Line, error) {
	if capacity <= 0 || capacity > MaxCapacity {
		return nil, fmt.Errorf("delay: capacity must be in [1, %d]: %d", MaxCapacity, capacity)
	}

	if resetThreshold < 0 || resetThreshold >= capacity {
		return nil, fmt.Errorf("delay: reset threshold must be in [0, %d): %d", capacity, resetThreshold)
	}

	return &Line{
		buffer:         make([]float64, capacity),
		resetThreshold: resetThreshold,
	}, nil
}

// NewForDuration sizes a delay line for delays up to maxDelay seconds at
// sample interval dt. The arena holds floor((maxDelay+margin)/dt) samples and
// the reset threshold is floor(maxDelay/dt). A negative margin selects
// [DefaultMargin].
func NewForDuration(maxDelay, margin, dt float64) (*Line, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("delay: sample interval must be > 0: %v", dt)
	}

	if !(maxDelay > 0) || math.IsInf(maxDelay, 0) {
		return nil, fmt.Errorf("delay: maximum delay must be > 0: %v", maxDelay)
	}

	if margin < 0 || math.IsNaN(margin) {
		margin = DefaultMargin
	}

	size := math.Floor((maxDelay + margin) / dt)
	if size > MaxCapacity {
		return nil, fmt.Errorf("delay: %v s at %v s per sample exceeds %d samples", maxDelay+margin, dt, MaxCapacity)
	}

	capacity := int(size)
	threshold := int(math.Floor(maxDelay / dt))

	if threshold >= capacity {
		// A zero margin makes both floors equal; keep one slot of headroom.
		capacity = threshold + 1
	}

	return New(capacity, threshold)
}

// Capacity returns the arena size.
func (d *Line) Capacity() int {
	return len(d.buffer)
}

// Len returns the number of slots the cursor cycles over (resetThreshold+1).
func (d *Line) Len() int {
	return d.resetThreshold + 1
}

// ResetThreshold returns the largest valid read offset.
func (d *Line) ResetThreshold() int {
	return d.resetThreshold
}

// Cursor returns the slot the next [Line.Push] writes to.
func (d *Line) Cursor() int {
	return d.cursor
}

// Wrap maps any index onto [0, Len).
func (d *Line) Wrap(i int) int {
	n := d.Len()
	i %= n
	if i < 0 {
		i += n
	}

	return i
}

// Push stores v at the cursor and advances it.
func (d *Line) Push(v float64) {
	d.buffer[d.cursor] = v
	d.cursor = d.Wrap(d.cursor + 1)
}

// Read returns the value pushed n pushes ago; n = 0 is the most recent
// push. Offsets outside [0, ResetThreshold] are clamped.
func (d *Line) Read(n int) float64 {
	if n < 0 {
		n = 0
	} else if n > d.resetThreshold {
		n = d.resetThreshold
	}

	return d.buffer[d.Wrap(d.cursor-1-n)]
}

// ReadChecked is [Line.Read] without clamping: offsets outside
// [0, ResetThreshold] return a *[RangeError].
func (d *Line) ReadChecked(n int) (float64, error) {
	if n < 0 || n > d.resetThreshold {
		return 0, &RangeError{Offset: n, Max: d.resetThreshold}
	}

	return d.buffer[d.Wrap(d.cursor-1-n)], nil
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}

	d.cursor = 0
}
